package service

import (
	"context"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/internal/repository/specification"
	"edu-dashboard-be/internal/repository/unitofwork"
	"edu-dashboard-be/pkg/content"
	"edu-dashboard-be/pkg/gate"
	"edu-dashboard-be/pkg/session"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	modulesLoadFailed = "Failed to load modules."
	topicsLoadFailed  = "Failed to load topics."
)

type IDashboardService interface {
	Load(ctx context.Context, snap session.Snapshot) (*dto.DashboardResponse, error)
	SelectSubject(ctx context.Context, snap session.Snapshot, subject string) (*dto.DashboardResponse, error)
	Content(subject, standard string) dto.ContentResponse
	ListModules(ctx context.Context, subject string) ([]dto.ModuleResponse, error)
	ListTopics(ctx context.Context, subject, moduleId string) ([]dto.TopicResponse, error)
}

type dashboardService struct {
	uowFactory unitofwork.RepositoryFactory
	workspaces IWorkspaceService
	resolver   *content.Resolver
	logger     logger.ILogger
}

func NewDashboardService(
	uowFactory unitofwork.RepositoryFactory,
	workspaces IWorkspaceService,
	resolver *content.Resolver,
	log logger.ILogger,
) IDashboardService {
	return &dashboardService{
		uowFactory: uowFactory,
		workspaces: workspaces,
		resolver:   resolver,
		logger:     log,
	}
}

// Load re-validates the profile, picks the first subject when none is
// selected, reloads both collections concurrently and resolves content.
func (s *dashboardService) Load(ctx context.Context, snap session.Snapshot) (*dto.DashboardResponse, error) {
	if err := gate.CheckDashboardProfile(snap.Profile); err != nil {
		return nil, err
	}
	ws := s.workspaces.Open(snap.SessionID, snap.UserID)
	if ws.Machine.View().Selection.Subject == "" {
		ws.Machine.SelectSubject(snap.Profile.Subjects[0])
	}

	var (
		modules    []entity.Module
		topics     []entity.Topic
		modulesErr error
		topicsErr  error
	)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	// the loads are independent: one failing must not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		modules, modulesErr = uow.ModuleRepository().FindAll(ctx, specification.OldestFirst)
		return modulesErr
	})
	g.Go(func() error {
		topics, topicsErr = uow.TopicRepository().FindAll(ctx, specification.OldestFirst)
		return topicsErr
	})
	_ = g.Wait()

	var alert string
	if modulesErr != nil {
		s.logger.Error("DASHBOARD", "Modules load failed", map[string]interface{}{"user_id": snap.UserID, "error": modulesErr})
		alert = modulesLoadFailed
	} else {
		ws.Machine.SetModules(modules)
	}
	if topicsErr != nil {
		s.logger.Error("DASHBOARD", "Topics load failed", map[string]interface{}{"user_id": snap.UserID, "error": topicsErr})
		if alert == "" {
			alert = topicsLoadFailed
		}
	} else {
		ws.Machine.SetTopics(topics)
	}

	res := s.build(snap, ws.Machine.View().Selection.Subject)
	res.Alert = alert
	return res, nil
}

func (s *dashboardService) SelectSubject(ctx context.Context, snap session.Snapshot, subject string) (*dto.DashboardResponse, error) {
	if err := gate.CheckDashboardProfile(snap.Profile); err != nil {
		return nil, err
	}
	if !gate.HasSubject(snap.Profile, subject) {
		return nil, gate.ErrSubjectNotChosen
	}
	s.workspaces.Open(snap.SessionID, snap.UserID).Machine.SelectSubject(subject)
	return s.build(snap, subject), nil
}

func (s *dashboardService) build(snap session.Snapshot, subject string) *dto.DashboardResponse {
	return &dto.DashboardResponse{
		Profile:   *dto.NewProfileResponse(snap.Profile),
		Subjects:  append([]string{}, snap.Profile.Subjects...),
		Content:   s.Content(subject, snap.Profile.Standard),
		Workspace: s.workspaces.View(snap.SessionID, snap.UserID),
	}
}

func (s *dashboardService) Content(subject, standard string) dto.ContentResponse {
	block := s.resolver.Resolve(subject, standard)
	return dto.ContentResponse{
		Subject:  subject,
		Standard: standard,
		Title:    block.Title,
		Topics:   append([]string{}, block.Topics...),
	}
}

func (s *dashboardService) ListModules(ctx context.Context, subject string) ([]dto.ModuleResponse, error) {
	specs := []specification.Specification{specification.OldestFirst}
	if subject != "" {
		specs = append(specs, specification.BySubject{Subject: subject})
	}
	modules, err := s.uowFactory.NewUnitOfWork(ctx).ModuleRepository().FindAll(ctx, specs...)
	if err != nil {
		s.logger.Error("DASHBOARD", "Modules load error", map[string]interface{}{"error": err})
		return nil, err
	}
	return toModuleResponses(modules), nil
}

func (s *dashboardService) ListTopics(ctx context.Context, subject, moduleId string) ([]dto.TopicResponse, error) {
	specs := []specification.Specification{specification.OldestFirst}
	if subject != "" {
		specs = append(specs, specification.BySubject{Subject: subject})
	}
	if moduleId != "" {
		id, err := uuid.Parse(moduleId)
		if err != nil {
			return []dto.TopicResponse{}, nil
		}
		specs = append(specs, specification.ByModuleID{ModuleID: id})
	}
	topics, err := s.uowFactory.NewUnitOfWork(ctx).TopicRepository().FindAll(ctx, specs...)
	if err != nil {
		s.logger.Error("DASHBOARD", "Topics load error", map[string]interface{}{"error": err})
		return nil, err
	}
	return toTopicResponses(topics), nil
}
