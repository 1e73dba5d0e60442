package contract

import (
	"context"

	"edu-dashboard-be/internal/entity"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	// FindByUserId returns nil, nil when the user has no profile yet.
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.Profile, error)
	Upsert(ctx context.Context, profile *entity.Profile) error
}
