package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Module struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Subject     string    `gorm:"type:varchar(64);index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Module) TableName() string {
	return "modules"
}

type Topic struct {
	Id               uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string                      `gorm:"type:varchar(255);not null"`
	Description      string                      `gorm:"type:text"`
	Subject          string                      `gorm:"type:varchar(64);index"`
	ModuleId         *uuid.UUID                  `gorm:"type:uuid;index"`
	Explanation      string                      `gorm:"type:text"`
	RealWorldExample string                      `gorm:"type:text"`
	Equation         string                      `gorm:"type:text"`
	KeyPoints        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Topic) TableName() string {
	return "topics"
}
