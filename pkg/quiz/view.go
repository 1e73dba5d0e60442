package quiz

// View is the JSON shape the dashboard renders for the quiz overlay.
type View struct {
	Subject        string   `json:"subject"`
	Topic          string   `json:"topic"`
	Available      bool     `json:"available"`
	Total          int      `json:"total"`
	Index          int      `json:"index"`
	Question       string   `json:"question,omitempty"`
	Options        []string `json:"options,omitempty"`
	SelectedAnswer *int     `json:"selected_answer"`
	Score          int      `json:"score"`
	Completed      bool     `json:"completed"`
	Progress       float64  `json:"progress"`
	Result         *Result  `json:"result,omitempty"`
}

func (s *Session) View() View {
	st := s.State()
	v := View{
		Subject:        s.Subject,
		Topic:          s.Topic,
		Available:      s.Available(),
		Total:          s.Total(),
		Index:          st.Index,
		SelectedAnswer: st.SelectedAnswer,
		Score:          st.Score,
		Completed:      st.Completed,
		Progress:       s.Progress(),
	}
	if q, ok := s.Current(); ok {
		v.Question = q.Question
		v.Options = append([]string(nil), q.Options...)
	}
	if r, ok := s.Result(); ok {
		v.Result = &r
	}
	return v
}
