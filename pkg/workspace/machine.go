// Package workspace holds the per-session dashboard interaction state: the
// selection, the single active overlay, and the quiz and chat sub-flows it
// launches.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/pkg/quiz"
)

var (
	ErrUnauthenticated   = errors.New("not signed in")
	ErrInvalidTransition = errors.New("invalid overlay transition")
	ErrInvalidKind       = errors.New("invalid record type")
	ErrRecordNotFound    = errors.New("record not found")
)

// Store is the document store slice the dashboard mutates.
type Store interface {
	ListModules(ctx context.Context) ([]entity.Module, error)
	ListTopics(ctx context.Context) ([]entity.Topic, error)
	CreateModule(ctx context.Context, m *entity.Module) error
	CreateTopic(ctx context.Context, t *entity.Topic) error
	DeleteModule(ctx context.Context, id string) error
	DeleteTopic(ctx context.Context, id string) error
}

// CurrentUser reports the signed-in user id, empty when signed out.
type CurrentUser func() string

type Selection struct {
	Subject string
	Module  *entity.Module
	Topic   *entity.Topic
}

// QuizHook is told about every completed quiz attempt.
type QuizHook func(userID, subject, topic string, r quiz.Result)

type Machine struct {
	mu          sync.Mutex
	store       Store
	currentUser CurrentUser
	bank        quiz.Bank
	logger      logger.ILogger
	now         func() time.Time
	onQuizDone  QuizHook

	selection Selection
	overlay   Overlay
	// seq changes whenever the overlay changes, so a slow save only closes
	// the dialog it was started from.
	seq     uint64
	quiz    *quiz.Session
	modules []entity.Module
	topics  []entity.Topic
}

type Option func(*Machine)

func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func WithQuizHook(h QuizHook) Option {
	return func(m *Machine) { m.onQuizDone = h }
}

func NewMachine(store Store, currentUser CurrentUser, bank quiz.Bank, log logger.ILogger, opts ...Option) *Machine {
	if log == nil {
		log = logger.NewNopLogger()
	}
	m := &Machine{
		store:       store,
		currentUser: currentUser,
		bank:        bank,
		logger:      log,
		now:         time.Now,
		overlay:     idle(),
		modules:     []entity.Module{},
		topics:      []entity.Topic{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) setOverlayLocked(o Overlay) {
	m.overlay = o
	m.seq++
}

// SelectSubject switches the active subject and clears the module and topic
// selection.
func (m *Machine) SelectSubject(subject string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = Selection{Subject: subject}
}

// Select opens the topic detail overlay.
func (m *Machine) Select(topic entity.Topic) error {
	if m.currentUser() == "" {
		return ErrUnauthenticated
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlay.blocking() {
		return fmt.Errorf("%w: select topic while %s is open", ErrInvalidTransition, m.overlay.Kind)
	}
	t := cloneTopic(topic)
	m.selection.Topic = &t
	m.setOverlayLocked(Overlay{Kind: OverlayTopic, Topic: &t})
	return nil
}

func (m *Machine) OpenModule(module entity.Module) error {
	if m.currentUser() == "" {
		return ErrUnauthenticated
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlay.blocking() {
		return fmt.Errorf("%w: open module while %s is open", ErrInvalidTransition, m.overlay.Kind)
	}
	mod := module
	m.selection.Module = &mod
	m.setOverlayLocked(Overlay{Kind: OverlayModule, Module: &mod})
	return nil
}

// LaunchQuiz replaces the topic detail with a fresh quiz attempt for the
// same topic.
func (m *Machine) LaunchQuiz() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlay.Kind != OverlayTopic {
		return fmt.Errorf("%w: quiz needs an open topic", ErrInvalidTransition)
	}
	topic := m.overlay.Topic
	subject := topic.Subject
	if subject == "" {
		subject = m.selection.Subject
	}
	m.quiz = quiz.NewSession(m.bank, subject, topic.Name, func() {
		m.setOverlayLocked(idle())
	})
	m.setOverlayLocked(Overlay{Kind: OverlayQuiz, Topic: topic})
	return nil
}

func (m *Machine) LaunchVisualization() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlay.Kind != OverlayTopic {
		return fmt.Errorf("%w: visualization needs an open topic", ErrInvalidTransition)
	}
	m.setOverlayLocked(Overlay{Kind: OverlayVisualization, Topic: m.overlay.Topic})
	return nil
}

// Close returns to Idle from any overlay. Closing a quiz resets it first.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlay.Kind == OverlayQuiz && m.quiz != nil {
		m.quiz.Close()
		m.quiz = nil
		return
	}
	m.quiz = nil
	m.setOverlayLocked(idle())
}

// Add opens the add dialog with an empty draft.
func (m *Machine) Add(kind entity.RecordKind) error {
	return m.openDialog(kind, Draft{})
}

// Edit opens the dialog seeded from an existing record. record must be an
// entity.Module or entity.Topic matching kind.
func (m *Machine) Edit(kind entity.RecordKind, record interface{}) error {
	var d Draft
	switch r := record.(type) {
	case entity.Module:
		if kind != entity.RecordKindModule {
			return ErrInvalidKind
		}
		d = draftFromModule(r)
	case entity.Topic:
		if kind != entity.RecordKindTopic {
			return ErrInvalidKind
		}
		d = draftFromTopic(r)
	default:
		return ErrInvalidKind
	}
	return m.openDialog(kind, d)
}

func (m *Machine) openDialog(kind entity.RecordKind, d Draft) error {
	if !kind.Valid() {
		return ErrInvalidKind
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlay.blocking() {
		return fmt.Errorf("%w: dialog while %s is open", ErrInvalidTransition, m.overlay.Kind)
	}
	m.setOverlayLocked(Overlay{Kind: OverlayEditDialog, DialogKind: kind, Draft: &d})
	return nil
}

func (m *Machine) UpdateDraft(p DraftPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlay.Kind != OverlayEditDialog {
		return fmt.Errorf("%w: no dialog open", ErrInvalidTransition)
	}
	m.overlay.Draft.apply(p)
	return nil
}

// Save persists the dialog draft as a new record, reloads that collection
// and closes the dialog. On error the dialog stays open.
func (m *Machine) Save(ctx context.Context) error {
	if m.currentUser() == "" {
		return ErrUnauthenticated
	}

	m.mu.Lock()
	if m.overlay.Kind != OverlayEditDialog {
		m.mu.Unlock()
		return fmt.Errorf("%w: nothing to save", ErrInvalidTransition)
	}
	kind := m.overlay.DialogKind
	draft := m.overlay.Draft.clone()
	subject := m.selection.Subject
	var moduleID *string
	if m.selection.Module != nil {
		id := m.selection.Module.Id
		moduleID = &id
	}
	seq := m.seq
	m.mu.Unlock()

	now := m.now().UTC()
	switch kind {
	case entity.RecordKindModule:
		rec := &entity.Module{
			Name:        draft.Name,
			Description: draft.Description,
			Subject:     subject,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := m.store.CreateModule(ctx, rec); err != nil {
			m.logger.Error("Workspace", "Dialog save failed", map[string]interface{}{"kind": kind, "error": err})
			return err
		}
	case entity.RecordKindTopic:
		rec := &entity.Topic{
			Name:             draft.Name,
			Description:      draft.Description,
			Subject:          subject,
			ModuleId:         moduleID,
			Explanation:      draft.Explanation,
			RealWorldExample: draft.RealWorldExample,
			Equation:         draft.Equation,
			KeyPoints:        draft.KeyPoints,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := m.store.CreateTopic(ctx, rec); err != nil {
			m.logger.Error("Workspace", "Dialog save failed", map[string]interface{}{"kind": kind, "error": err})
			return err
		}
	}

	reloadErr := m.reload(ctx, kind)

	m.mu.Lock()
	if m.seq == seq {
		m.setOverlayLocked(idle())
	}
	m.mu.Unlock()
	return reloadErr
}

// Delete removes a record and reloads its collection. The overlay is left
// as it was.
func (m *Machine) Delete(ctx context.Context, kind entity.RecordKind, id string) error {
	if m.currentUser() == "" {
		return ErrUnauthenticated
	}

	var err error
	switch kind {
	case entity.RecordKindModule:
		err = m.store.DeleteModule(ctx, id)
	case entity.RecordKindTopic:
		err = m.store.DeleteTopic(ctx, id)
	default:
		return ErrInvalidKind
	}
	if err != nil {
		m.logger.Error("Workspace", "Delete failed", map[string]interface{}{"kind": kind, "id": id, "error": err})
		return err
	}
	return m.reload(ctx, kind)
}

// Reload refreshes both collections from the store.
func (m *Machine) Reload(ctx context.Context) error {
	if err := m.reload(ctx, entity.RecordKindModule); err != nil {
		return err
	}
	return m.reload(ctx, entity.RecordKindTopic)
}

func (m *Machine) reload(ctx context.Context, kind entity.RecordKind) error {
	switch kind {
	case entity.RecordKindModule:
		modules, err := m.store.ListModules(ctx)
		if err != nil {
			m.logger.Error("Workspace", "Modules load failed", map[string]interface{}{"error": err})
			return fmt.Errorf("load modules: %w", err)
		}
		m.SetModules(modules)
	case entity.RecordKindTopic:
		topics, err := m.store.ListTopics(ctx)
		if err != nil {
			m.logger.Error("Workspace", "Topics load failed", map[string]interface{}{"error": err})
			return fmt.Errorf("load topics: %w", err)
		}
		m.SetTopics(topics)
	}
	return nil
}

// SetModules replaces the cached module collection, e.g. after a dashboard
// load fetched it concurrently.
func (m *Machine) SetModules(modules []entity.Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modules = append([]entity.Module{}, modules...)
}

func (m *Machine) SetTopics(topics []entity.Topic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = make([]entity.Topic, len(topics))
	for i, t := range topics {
		m.topics[i] = cloneTopic(t)
	}
}

// Topic looks a topic up in the loaded collection.
func (m *Machine) Topic(id string) (entity.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.topics {
		if t.Id == id {
			return cloneTopic(t), nil
		}
	}
	return entity.Topic{}, fmt.Errorf("topic %s: %w", id, ErrRecordNotFound)
}

func (m *Machine) Module(id string) (entity.Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mod := range m.modules {
		if mod.Id == id {
			return mod, nil
		}
	}
	return entity.Module{}, fmt.Errorf("module %s: %w", id, ErrRecordNotFound)
}

// SelectAnswer and Advance forward to the open quiz.
func (m *Machine) SelectAnswer(i int) (quiz.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlay.Kind != OverlayQuiz || m.quiz == nil {
		return quiz.View{}, fmt.Errorf("%w: no quiz open", ErrInvalidTransition)
	}
	if err := m.quiz.SelectAnswer(i); err != nil {
		return m.quiz.View(), err
	}
	return m.quiz.View(), nil
}

func (m *Machine) Advance() (quiz.View, error) {
	m.mu.Lock()
	if m.overlay.Kind != OverlayQuiz || m.quiz == nil {
		m.mu.Unlock()
		return quiz.View{}, fmt.Errorf("%w: no quiz open", ErrInvalidTransition)
	}
	err := m.quiz.Advance()
	view := m.quiz.View()
	hook := m.onQuizDone
	m.mu.Unlock()

	if err == nil && view.Completed && hook != nil && view.Result != nil {
		hook(m.currentUser(), view.Subject, view.Topic, *view.Result)
	}
	return view, err
}

// View is a copy of the machine state.
type View struct {
	Selection Selection
	Overlay   Overlay
	Quiz      *quiz.View
	Modules   []entity.Module
	Topics    []entity.Topic
}

func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := View{
		Selection: m.selection,
		Overlay:   m.overlay.clone(),
		Modules:   append([]entity.Module{}, m.modules...),
		Topics:    make([]entity.Topic, len(m.topics)),
	}
	if m.selection.Module != nil {
		mod := *m.selection.Module
		v.Selection.Module = &mod
	}
	if m.selection.Topic != nil {
		t := cloneTopic(*m.selection.Topic)
		v.Selection.Topic = &t
	}
	for i, t := range m.topics {
		v.Topics[i] = cloneTopic(t)
	}
	if m.overlay.Kind == OverlayQuiz && m.quiz != nil {
		qv := m.quiz.View()
		v.Quiz = &qv
	}
	return v
}
