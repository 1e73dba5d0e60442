package mapper

import (
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) SessionToEntity(s *model.UserSession) *entity.UserSession {
	if s == nil {
		return nil
	}
	return &entity.UserSession{
		Id:        s.Id,
		UserId:    s.UserId,
		ExpiresAt: s.ExpiresAt,
		Revoked:   s.Revoked,
		IpAddress: s.IpAddress,
		UserAgent: s.UserAgent,
		CreatedAt: s.CreatedAt,
	}
}

func (m *UserMapper) SessionToModel(s *entity.UserSession) *model.UserSession {
	if s == nil {
		return nil
	}
	return &model.UserSession{
		Id:        s.Id,
		UserId:    s.UserId,
		ExpiresAt: s.ExpiresAt,
		Revoked:   s.Revoked,
		IpAddress: s.IpAddress,
		UserAgent: s.UserAgent,
		CreatedAt: s.CreatedAt,
	}
}
