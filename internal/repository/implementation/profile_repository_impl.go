package implementation

import (
	"context"
	"errors"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/mapper"
	"edu-dashboard-be/internal/model"
	"edu-dashboard-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileMapper
}

func NewProfileRepository(db *gorm.DB) contract.ProfileRepository {
	return &ProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewProfileMapper(),
	}
}

func (r *ProfileRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.Profile, error) {
	var m model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// Upsert writes the whole profile document, replacing any previous one.
func (r *ProfileRepositoryImpl) Upsert(ctx context.Context, profile *entity.Profile) error {
	m, err := r.mapper.ToModel(profile)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "standard", "subjects", "profile_completed", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}
