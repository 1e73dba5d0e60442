package implementation

import (
	"context"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/mapper"
	"edu-dashboard-be/internal/model"
	"edu-dashboard-be/internal/repository/contract"
	"edu-dashboard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewModuleRepository(db *gorm.DB) contract.ModuleRepository {
	return &ModuleRepositoryImpl{db: db, mapper: mapper.NewContentMapper()}
}

func (r *ModuleRepositoryImpl) Create(ctx context.Context, module *entity.Module) error {
	m, err := r.mapper.ModuleToModel(module)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*module = *r.mapper.ModuleToEntity(m)
	return nil
}

func (r *ModuleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Module, error) {
	var rows []*model.Module
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ModulesToEntities(rows), nil
}

func (r *ModuleRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Module{}).Error
}

func (r *ModuleRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Module{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type TopicRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewTopicRepository(db *gorm.DB) contract.TopicRepository {
	return &TopicRepositoryImpl{db: db, mapper: mapper.NewContentMapper()}
}

func (r *TopicRepositoryImpl) Create(ctx context.Context, topic *entity.Topic) error {
	m, err := r.mapper.TopicToModel(topic)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*topic = *r.mapper.TopicToEntity(m)
	return nil
}

func (r *TopicRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Topic, error) {
	var rows []*model.Topic
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.TopicsToEntities(rows), nil
}

func (r *TopicRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Topic{}).Error
}

func (r *TopicRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Topic{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
