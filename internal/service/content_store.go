package service

import (
	"context"
	"fmt"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/repository/specification"
	"edu-dashboard-be/internal/repository/unitofwork"
	"edu-dashboard-be/pkg/workspace"

	"github.com/google/uuid"
)

// contentStore backs a workspace with the modules and topics tables.
type contentStore struct {
	uowFactory unitofwork.RepositoryFactory
	events     IEventPublisher
	userId     string
}

var _ workspace.Store = (*contentStore)(nil)

func newContentStore(uowFactory unitofwork.RepositoryFactory, events IEventPublisher, userId string) *contentStore {
	return &contentStore{uowFactory: uowFactory, events: events, userId: userId}
}

func (s *contentStore) ListModules(ctx context.Context) ([]entity.Module, error) {
	return s.uowFactory.NewUnitOfWork(ctx).ModuleRepository().FindAll(ctx, specification.OldestFirst)
}

func (s *contentStore) ListTopics(ctx context.Context) ([]entity.Topic, error) {
	return s.uowFactory.NewUnitOfWork(ctx).TopicRepository().FindAll(ctx, specification.OldestFirst)
}

func (s *contentStore) CreateModule(ctx context.Context, m *entity.Module) error {
	if err := s.uowFactory.NewUnitOfWork(ctx).ModuleRepository().Create(ctx, m); err != nil {
		return err
	}
	s.events.ModuleCreated(ctx, m)
	return nil
}

func (s *contentStore) CreateTopic(ctx context.Context, t *entity.Topic) error {
	if err := s.uowFactory.NewUnitOfWork(ctx).TopicRepository().Create(ctx, t); err != nil {
		return err
	}
	s.events.TopicCreated(ctx, t)
	return nil
}

func (s *contentStore) DeleteModule(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("module %s: %w", id, workspace.ErrRecordNotFound)
	}
	if err := s.uowFactory.NewUnitOfWork(ctx).ModuleRepository().Delete(ctx, uid); err != nil {
		return err
	}
	s.events.ModuleDeleted(ctx, s.userId, id)
	return nil
}

func (s *contentStore) DeleteTopic(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("topic %s: %w", id, workspace.ErrRecordNotFound)
	}
	if err := s.uowFactory.NewUnitOfWork(ctx).TopicRepository().Delete(ctx, uid); err != nil {
		return err
	}
	s.events.TopicDeleted(ctx, s.userId, id)
	return nil
}
