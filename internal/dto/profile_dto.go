package dto

import "time"

type ProfileRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Standard string   `json:"standard" validate:"required,oneof=9 10 11 12"`
	Subjects []string `json:"subjects" validate:"required,min=1,dive,required"`
}

type ProfileResponse struct {
	Name             string     `json:"name"`
	Standard         string     `json:"standard"`
	Subjects         []string   `json:"subjects"`
	ProfileCompleted bool       `json:"profile_completed"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}
