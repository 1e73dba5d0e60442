package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"edu-dashboard-be/internal/pkg/logger"
)

const (
	SubjectChemistry = "chemistry"
	SubjectBiology   = "biology"

	ErrMessageDefault   = "Failed to get response from the model"
	ErrMessageConnect   = "Failed to connect to the server. Please try again."
	AssistantErrorReply = "Sorry, I encountered an error. Please try again."
)

var (
	ErrUnknownSubject = errors.New("unknown chat subject")
	// ErrDiscarded is returned by Send when the subject changed or the
	// session closed while the request was in flight.
	ErrDiscarded = errors.New("chat reply discarded")
)

var subjects = map[string]struct{}{
	SubjectChemistry: {},
	SubjectBiology:   {},
}

func ValidSubject(s string) bool {
	_, ok := subjects[s]
	return ok
}

// Snapshot is a copy of the session state safe to hand to callers.
type Snapshot struct {
	Subject    string    `json:"subject"`
	Transcript []Message `json:"transcript"`
	Loading    bool      `json:"loading"`
	Error      string    `json:"error,omitempty"`
}

type Session struct {
	mu         sync.Mutex
	endpoint   Endpoint
	logger     logger.ILogger
	subject    string
	transcript []Message
	errorText  string
	inflight   int
	// generation bumps on every subject switch or close; replies carrying an
	// older generation are dropped.
	generation uint64
	nextReq    uint64
	cancels    map[uint64]context.CancelFunc
}

func NewSession(endpoint Endpoint, log logger.ILogger) *Session {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Session{
		endpoint:   endpoint,
		logger:     log,
		subject:    SubjectChemistry,
		transcript: []Message{},
		cancels:    map[uint64]context.CancelFunc{},
	}
}

// Send blocks until the endpoint answers. Blank input returns nil without
// touching the transcript.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	gen := s.generation
	subject := s.subject
	s.errorText = ""
	s.transcript = append(s.transcript, Message{Text: text, Sender: SenderUser})
	s.inflight++
	reqCtx, cancel := context.WithCancel(ctx)
	s.nextReq++
	id := s.nextReq
	s.cancels[id] = cancel
	s.mu.Unlock()

	reply, err := s.endpoint.Ask(reqCtx, Request{Message: text, Subject: subject})
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cancels, id)
	if gen != s.generation {
		return ErrDiscarded
	}
	s.inflight--

	if err == nil {
		s.transcript = append(s.transcript, Message{
			Text:       reply.Response,
			Sender:     SenderAssistant,
			Confidence: reply.Confidence,
			Subject:    reply.Subject,
		})
		return nil
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		s.errorText = serverErr.Message
		if s.errorText == "" {
			s.errorText = ErrMessageDefault
		}
	} else {
		s.errorText = ErrMessageConnect
	}
	s.logger.Error("ChatSession", "Chat request failed", map[string]interface{}{
		"subject": subject,
		"error":   err,
	})
	s.transcript = append(s.transcript, Message{Text: AssistantErrorReply, Sender: SenderAssistant, Error: true})
	return err
}

// SetSubject switches the tutor subject. The transcript is cleared and any
// request still in flight is cancelled.
func (s *Session) SetSubject(subject string) error {
	if !ValidSubject(subject) {
		return ErrUnknownSubject
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subject = subject
	s.resetLocked()
	return nil
}

// Close cancels anything in flight and clears the transcript.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	for id, cancel := range s.cancels {
		cancel()
		delete(s.cancels, id)
	}
	s.generation++
	s.transcript = []Message{}
	s.errorText = ""
	s.inflight = 0
}

func (s *Session) Subject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subject
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.transcript...)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Subject:    s.subject,
		Transcript: append([]Message{}, s.transcript...),
		Loading:    s.inflight > 0,
		Error:      s.errorText,
	}
}
