package mapper

import (
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) ToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}
	return &entity.Profile{
		UserId:           p.UserId.String(),
		Name:             p.Name,
		Standard:         p.Standard,
		Subjects:         append([]string{}, p.Subjects...),
		ProfileCompleted: p.ProfileCompleted,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToModel fails only when the entity carries a malformed user id.
func (m *ProfileMapper) ToModel(p *entity.Profile) (*model.Profile, error) {
	if p == nil {
		return nil, nil
	}
	userID, err := uuid.Parse(p.UserId)
	if err != nil {
		return nil, err
	}
	return &model.Profile{
		UserId:           userID,
		Name:             p.Name,
		Standard:         p.Standard,
		Subjects:         datatypes.JSONSlice[string](append([]string{}, p.Subjects...)),
		ProfileCompleted: p.ProfileCompleted,
		UpdatedAt:        p.UpdatedAt,
	}, nil
}
