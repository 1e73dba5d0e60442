package contract

import (
	"context"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ModuleRepository interface {
	Create(ctx context.Context, module *entity.Module) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Module, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type TopicRepository interface {
	Create(ctx context.Context, topic *entity.Topic) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Topic, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
