package unitofwork

import (
	"context"

	"edu-dashboard-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	UserSessionRepository() contract.UserSessionRepository
	ProfileRepository() contract.ProfileRepository
	ModuleRepository() contract.ModuleRepository
	TopicRepository() contract.TopicRepository
}
