package contract

import (
	"context"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type UserSessionRepository interface {
	Create(ctx context.Context, session *entity.UserSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSession, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}
