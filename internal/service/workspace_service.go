package service

import (
	"context"
	"fmt"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/internal/repository/memory"
	"edu-dashboard-be/internal/repository/unitofwork"
	"edu-dashboard-be/pkg/chat"
	"edu-dashboard-be/pkg/identity"
	"edu-dashboard-be/pkg/quiz"
	"edu-dashboard-be/pkg/session"
	"edu-dashboard-be/pkg/workspace"
)

// SessionReader resolves the live user of a browser session.
type SessionReader interface {
	Snapshot(sid string) session.Snapshot
}

type IWorkspaceService interface {
	// Start drops workspaces whose session signed out.
	Start(ctx context.Context, auth identity.Subscriber) error
	Open(sid, userId string) *workspace.Workspace
	View(sid, userId string) dto.WorkspaceResponse

	OpenTopic(ctx context.Context, sid, userId, topicId string) (dto.WorkspaceResponse, error)
	OpenModule(ctx context.Context, sid, userId, moduleId string) (dto.WorkspaceResponse, error)
	LaunchQuiz(ctx context.Context, sid, userId string) (dto.WorkspaceResponse, error)
	LaunchVisualization(ctx context.Context, sid, userId string) (dto.WorkspaceResponse, error)
	Close(ctx context.Context, sid, userId string) dto.WorkspaceResponse
	OpenDialog(ctx context.Context, sid, userId string, req *dto.DialogRequest) (dto.WorkspaceResponse, error)
	UpdateDraft(ctx context.Context, sid, userId string, req *dto.DraftRequest) (dto.WorkspaceResponse, error)
	SaveDialog(ctx context.Context, sid, userId string) (dto.WorkspaceResponse, error)
	Delete(ctx context.Context, sid, userId string, kind entity.RecordKind, id string) (dto.WorkspaceResponse, error)

	SelectAnswer(ctx context.Context, sid, userId string, index int) (quiz.View, error)
	NextQuestion(ctx context.Context, sid, userId string) (quiz.View, error)

	Assistant(sid, userId string) chat.Snapshot
	AskAssistant(ctx context.Context, sid, userId, message string) chat.Snapshot
	SwitchAssistantSubject(ctx context.Context, sid, userId, subject string) (chat.Snapshot, error)
}

type workspaceService struct {
	repo       *memory.WorkspaceRepository
	uowFactory unitofwork.RepositoryFactory
	sessions   SessionReader
	bank       quiz.Bank
	endpoint   chat.Endpoint
	events     IEventPublisher
	logger     logger.ILogger
}

func NewWorkspaceService(
	repo *memory.WorkspaceRepository,
	uowFactory unitofwork.RepositoryFactory,
	sessions SessionReader,
	bank quiz.Bank,
	endpoint chat.Endpoint,
	events IEventPublisher,
	log logger.ILogger,
) IWorkspaceService {
	return &workspaceService{
		repo:       repo,
		uowFactory: uowFactory,
		sessions:   sessions,
		bank:       bank,
		endpoint:   endpoint,
		events:     events,
		logger:     log,
	}
}

func (s *workspaceService) Start(ctx context.Context, auth identity.Subscriber) error {
	authEvents, err := auth.Subscribe(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ev := range authEvents {
			if ws, ok := s.repo.Get(ev.SessionID); ok && ws.UserID != ev.UserID {
				s.repo.Delete(ev.SessionID)
				s.logger.Debug("WORKSPACE", "Workspace dropped", map[string]interface{}{"session_id": ev.SessionID})
			}
		}
	}()
	return nil
}

func (s *workspaceService) Open(sid, userId string) *workspace.Workspace {
	if ws, ok := s.repo.Get(sid); ok {
		if ws.UserID == userId {
			return ws
		}
		s.repo.Delete(sid)
	}

	store := newContentStore(s.uowFactory, s.events, userId)
	currentUser := func() string { return s.sessions.Snapshot(sid).UserID }
	onQuizDone := func(user, subject, topic string, r quiz.Result) {
		s.events.QuizCompleted(context.Background(), user, subject, topic, r)
	}

	ws := &workspace.Workspace{
		SessionID: sid,
		UserID:    userId,
		Machine:   workspace.NewMachine(store, currentUser, s.bank, s.logger, workspace.WithQuizHook(onQuizDone)),
		Chat:      chat.NewSession(s.endpoint, s.logger),
	}
	s.repo.Save(ws)
	return ws
}

func (s *workspaceService) View(sid, userId string) dto.WorkspaceResponse {
	return toWorkspaceResponse(s.Open(sid, userId).Machine.View())
}

// apply runs op against the machine and answers with the resulting view.
func (s *workspaceService) apply(sid, userId string, op func(m *workspace.Machine) error) (dto.WorkspaceResponse, error) {
	m := s.Open(sid, userId).Machine
	if err := op(m); err != nil {
		return toWorkspaceResponse(m.View()), err
	}
	return toWorkspaceResponse(m.View()), nil
}

func (s *workspaceService) OpenTopic(ctx context.Context, sid, userId, topicId string) (dto.WorkspaceResponse, error) {
	return s.apply(sid, userId, func(m *workspace.Machine) error {
		topic, err := m.Topic(topicId)
		if err != nil {
			return err
		}
		return m.Select(topic)
	})
}

func (s *workspaceService) OpenModule(ctx context.Context, sid, userId, moduleId string) (dto.WorkspaceResponse, error) {
	return s.apply(sid, userId, func(m *workspace.Machine) error {
		module, err := m.Module(moduleId)
		if err != nil {
			return err
		}
		return m.OpenModule(module)
	})
}

func (s *workspaceService) LaunchQuiz(ctx context.Context, sid, userId string) (dto.WorkspaceResponse, error) {
	return s.apply(sid, userId, func(m *workspace.Machine) error { return m.LaunchQuiz() })
}

func (s *workspaceService) LaunchVisualization(ctx context.Context, sid, userId string) (dto.WorkspaceResponse, error) {
	return s.apply(sid, userId, func(m *workspace.Machine) error { return m.LaunchVisualization() })
}

func (s *workspaceService) Close(ctx context.Context, sid, userId string) dto.WorkspaceResponse {
	res, _ := s.apply(sid, userId, func(m *workspace.Machine) error {
		m.Close()
		return nil
	})
	return res
}

func (s *workspaceService) OpenDialog(ctx context.Context, sid, userId string, req *dto.DialogRequest) (dto.WorkspaceResponse, error) {
	kind := entity.RecordKind(req.Kind)
	return s.apply(sid, userId, func(m *workspace.Machine) error {
		if req.Id == "" {
			return m.Add(kind)
		}
		switch kind {
		case entity.RecordKindModule:
			module, err := m.Module(req.Id)
			if err != nil {
				return err
			}
			return m.Edit(kind, module)
		case entity.RecordKindTopic:
			topic, err := m.Topic(req.Id)
			if err != nil {
				return err
			}
			return m.Edit(kind, topic)
		}
		return workspace.ErrInvalidKind
	})
}

func (s *workspaceService) UpdateDraft(ctx context.Context, sid, userId string, req *dto.DraftRequest) (dto.WorkspaceResponse, error) {
	return s.apply(sid, userId, func(m *workspace.Machine) error { return m.UpdateDraft(toDraftPatch(req)) })
}

func (s *workspaceService) SaveDialog(ctx context.Context, sid, userId string) (dto.WorkspaceResponse, error) {
	return s.apply(sid, userId, func(m *workspace.Machine) error {
		if err := m.Save(ctx); err != nil {
			return fmt.Errorf("failed to save: %w", err)
		}
		return nil
	})
}

func (s *workspaceService) Delete(ctx context.Context, sid, userId string, kind entity.RecordKind, id string) (dto.WorkspaceResponse, error) {
	return s.apply(sid, userId, func(m *workspace.Machine) error {
		if err := m.Delete(ctx, kind, id); err != nil {
			return fmt.Errorf("failed to delete: %w", err)
		}
		return nil
	})
}

func (s *workspaceService) SelectAnswer(ctx context.Context, sid, userId string, index int) (quiz.View, error) {
	return s.Open(sid, userId).Machine.SelectAnswer(index)
}

func (s *workspaceService) NextQuestion(ctx context.Context, sid, userId string) (quiz.View, error) {
	return s.Open(sid, userId).Machine.Advance()
}

func (s *workspaceService) Assistant(sid, userId string) chat.Snapshot {
	return s.Open(sid, userId).Chat.Snapshot()
}

// AskAssistant waits for the reply. Endpoint failures end up in the
// snapshot as the error banner and an error message, not as an error.
func (s *workspaceService) AskAssistant(ctx context.Context, sid, userId, message string) chat.Snapshot {
	c := s.Open(sid, userId).Chat
	if err := c.Send(ctx, message); err != nil {
		s.logger.Debug("WORKSPACE", "Assistant request ended with error", map[string]interface{}{"session_id": sid, "error": err.Error()})
	}
	return c.Snapshot()
}

func (s *workspaceService) SwitchAssistantSubject(ctx context.Context, sid, userId, subject string) (chat.Snapshot, error) {
	c := s.Open(sid, userId).Chat
	if err := c.SetSubject(subject); err != nil {
		return c.Snapshot(), err
	}
	return c.Snapshot(), nil
}
