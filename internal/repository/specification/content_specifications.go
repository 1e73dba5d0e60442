package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySubject struct {
	Subject string
}

func (s BySubject) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subject = ?", s.Subject)
}

type ByModuleID struct {
	ModuleID uuid.UUID
}

func (s ByModuleID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("module_id = ?", s.ModuleID)
}
