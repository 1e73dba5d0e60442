package mapper

import (
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContentMapper struct{}

func NewContentMapper() *ContentMapper {
	return &ContentMapper{}
}

// parseOptionalID maps "" to uuid.Nil so the store assigns the id.
func parseOptionalID(id string) (uuid.UUID, error) {
	if id == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(id)
}

func (m *ContentMapper) ModuleToEntity(mod *model.Module) *entity.Module {
	if mod == nil {
		return nil
	}
	return &entity.Module{
		Id:          mod.Id.String(),
		Name:        mod.Name,
		Description: mod.Description,
		Subject:     mod.Subject,
		CreatedAt:   mod.CreatedAt,
		UpdatedAt:   mod.UpdatedAt,
	}
}

func (m *ContentMapper) ModuleToModel(mod *entity.Module) (*model.Module, error) {
	id, err := parseOptionalID(mod.Id)
	if err != nil {
		return nil, err
	}
	return &model.Module{
		Id:          id,
		Name:        mod.Name,
		Description: mod.Description,
		Subject:     mod.Subject,
		CreatedAt:   mod.CreatedAt,
		UpdatedAt:   mod.UpdatedAt,
	}, nil
}

func (m *ContentMapper) ModulesToEntities(mods []*model.Module) []entity.Module {
	out := make([]entity.Module, 0, len(mods))
	for _, mod := range mods {
		out = append(out, *m.ModuleToEntity(mod))
	}
	return out
}

func (m *ContentMapper) TopicToEntity(t *model.Topic) *entity.Topic {
	if t == nil {
		return nil
	}
	var moduleID *string
	if t.ModuleId != nil {
		id := t.ModuleId.String()
		moduleID = &id
	}
	return &entity.Topic{
		Id:               t.Id.String(),
		Name:             t.Name,
		Description:      t.Description,
		Subject:          t.Subject,
		ModuleId:         moduleID,
		Explanation:      t.Explanation,
		RealWorldExample: t.RealWorldExample,
		Equation:         t.Equation,
		KeyPoints:        append([]string{}, t.KeyPoints...),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func (m *ContentMapper) TopicToModel(t *entity.Topic) (*model.Topic, error) {
	id, err := parseOptionalID(t.Id)
	if err != nil {
		return nil, err
	}
	var moduleID *uuid.UUID
	if t.ModuleId != nil && *t.ModuleId != "" {
		parsed, err := uuid.Parse(*t.ModuleId)
		if err != nil {
			return nil, err
		}
		moduleID = &parsed
	}
	return &model.Topic{
		Id:               id,
		Name:             t.Name,
		Description:      t.Description,
		Subject:          t.Subject,
		ModuleId:         moduleID,
		Explanation:      t.Explanation,
		RealWorldExample: t.RealWorldExample,
		Equation:         t.Equation,
		KeyPoints:        datatypes.JSONSlice[string](append([]string{}, t.KeyPoints...)),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}, nil
}

func (m *ContentMapper) TopicsToEntities(ts []*model.Topic) []entity.Topic {
	out := make([]entity.Topic, 0, len(ts))
	for _, t := range ts {
		out = append(out, *m.TopicToEntity(t))
	}
	return out
}
