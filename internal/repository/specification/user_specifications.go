package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ActiveSessions keeps sessions that are neither revoked nor expired at Now.
type ActiveSessions struct {
	Now time.Time
}

func (s ActiveSessions) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("revoked = ? AND expires_at > ?", false, s.Now)
}
