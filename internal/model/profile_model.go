package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile is keyed by the owning user's id, one document per user.
type Profile struct {
	UserId           uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Name             string                      `gorm:"type:varchar(255)"`
	Standard         string                      `gorm:"type:varchar(8)"`
	Subjects         datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ProfileCompleted bool                        `gorm:"default:false"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt        *time.Time                  `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
