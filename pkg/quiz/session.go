// Package quiz runs one in-memory quiz attempt over a fixed question list.
package quiz

import (
	"errors"
)

var (
	ErrNotAvailable     = errors.New("quiz questions for this topic are not available yet")
	ErrCompleted        = errors.New("quiz already completed")
	ErrNoAnswerSelected = errors.New("select an answer first")
	ErrAnswerOutOfRange = errors.New("answer index out of range")
)

const (
	MessagePerfect = "Perfect score! Excellent work!"
	MessageGood    = "Good job! Keep practicing!"
	MessageStudy   = "Keep studying! You can do better!"
)

// State is the mutable part of an attempt.
type State struct {
	Index          int
	SelectedAnswer *int
	Score          int
	Completed      bool
}

func initialState() State {
	return State{}
}

// Session is not safe for concurrent use; the owning workspace serialises
// access.
type Session struct {
	Subject   string
	Topic     string
	questions []Question
	state     State
	onClose   func()
}

// NewSession selects the list for (subject, topic). A missing list yields a
// session that reports Available() == false and only supports Close.
func NewSession(bank Bank, subject, topic string, onClose func()) *Session {
	return &Session{
		Subject:   subject,
		Topic:     topic,
		questions: bank.Questions(subject, topic),
		state:     initialState(),
		onClose:   onClose,
	}
}

func (s *Session) Available() bool { return len(s.questions) > 0 }

func (s *Session) Total() int { return len(s.questions) }

// State returns a copy of the attempt state.
func (s *Session) State() State {
	st := s.state
	if st.SelectedAnswer != nil {
		v := *st.SelectedAnswer
		st.SelectedAnswer = &v
	}
	return st
}

// Current returns the question being answered, false once completed.
func (s *Session) Current() (Question, bool) {
	if !s.Available() || s.state.Completed {
		return Question{}, false
	}
	return s.questions[s.state.Index], true
}

func (s *Session) SelectAnswer(i int) error {
	q, ok := s.Current()
	if !ok {
		if !s.Available() {
			return ErrNotAvailable
		}
		return ErrCompleted
	}
	if i < 0 || i >= len(q.Options) {
		return ErrAnswerOutOfRange
	}
	s.state.SelectedAnswer = &i
	return nil
}

// Advance scores the selected answer and moves to the next question, or
// completes the attempt after the last one.
func (s *Session) Advance() error {
	q, ok := s.Current()
	if !ok {
		if !s.Available() {
			return ErrNotAvailable
		}
		return ErrCompleted
	}
	if s.state.SelectedAnswer == nil {
		return ErrNoAnswerSelected
	}
	if *s.state.SelectedAnswer == q.CorrectAnswer {
		s.state.Score++
	}
	if s.state.Index+1 < len(s.questions) {
		s.state.Index++
		s.state.SelectedAnswer = nil
		return nil
	}
	s.state.Completed = true
	return nil
}

// Progress counts the question on screen as in progress, so the last
// question reads as 100%.
func (s *Session) Progress() float64 {
	total := len(s.questions)
	if total == 0 {
		return 0
	}
	if s.state.Completed {
		return 1
	}
	return float64(s.state.Index+1) / float64(total)
}

type Result struct {
	Score   int    `json:"score"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Result is only meaningful once the attempt is completed.
func (s *Session) Result() (Result, bool) {
	if !s.state.Completed {
		return Result{}, false
	}
	return Result{
		Score:   s.state.Score,
		Total:   len(s.questions),
		Message: FinalMessage(s.state.Score, len(s.questions)),
	}, true
}

func FinalMessage(score, total int) string {
	switch {
	case score == total:
		return MessagePerfect
	case score*2 >= total:
		return MessageGood
	default:
		return MessageStudy
	}
}

// Close resets the attempt before handing control back to the caller.
func (s *Session) Close() {
	s.state = initialState()
	if s.onClose != nil {
		s.onClose()
	}
}
