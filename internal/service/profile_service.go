package service

import (
	"context"
	"fmt"
	"time"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/internal/repository/unitofwork"
	"edu-dashboard-be/pkg/gate"
	"edu-dashboard-be/pkg/session"

	"github.com/google/uuid"
)

// ProfileFetcher reads profiles for the session store.
type ProfileFetcher struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ session.ProfileFetcher = (*ProfileFetcher)(nil)

func NewProfileFetcher(uowFactory unitofwork.RepositoryFactory) *ProfileFetcher {
	return &ProfileFetcher{uowFactory: uowFactory}
}

func (f *ProfileFetcher) FetchProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	p, err := f.uowFactory.NewUnitOfWork(ctx).ProfileRepository().FindByUserId(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, session.ErrProfileNotFound
	}
	return p, nil
}

// ProfileSink receives profiles that changed outside the auth flow.
type ProfileSink interface {
	SetProfile(ctx context.Context, userID string, p *entity.Profile)
}

type IProfileService interface {
	Get(ctx context.Context, snap session.Snapshot) *dto.ProfileResponse
	Setup(ctx context.Context, userId string, req *dto.ProfileRequest) (*dto.ProfileResponse, error)
	Refresh(ctx context.Context, userId string) (*dto.ProfileResponse, error)
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
	fetcher    session.ProfileFetcher
	sessions   ProfileSink
	events     IEventPublisher
	logger     logger.ILogger
}

func NewProfileService(
	uowFactory unitofwork.RepositoryFactory,
	fetcher session.ProfileFetcher,
	sessions ProfileSink,
	events IEventPublisher,
	log logger.ILogger,
) IProfileService {
	return &profileService{
		uowFactory: uowFactory,
		fetcher:    fetcher,
		sessions:   sessions,
		events:     events,
		logger:     log,
	}
}

func (s *profileService) Get(ctx context.Context, snap session.Snapshot) *dto.ProfileResponse {
	return dto.NewProfileResponse(snap.Profile)
}

func (s *profileService) Setup(ctx context.Context, userId string, req *dto.ProfileRequest) (*dto.ProfileResponse, error) {
	if !gate.ValidStandard(req.Standard) {
		return nil, gate.ErrInvalidStandard
	}

	now := time.Now().UTC()
	p := &entity.Profile{
		UserId:           userId,
		Name:             req.Name,
		Standard:         req.Standard,
		Subjects:         append([]string{}, req.Subjects...),
		ProfileCompleted: true,
		UpdatedAt:        &now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProfileRepository().Upsert(ctx, p); err != nil {
		s.logger.Error("PROFILE", "Profile save failed", map[string]interface{}{"user_id": userId, "error": err})
		return nil, err
	}

	s.sessions.SetProfile(ctx, userId, p)
	s.events.ProfileCompleted(ctx, p)
	s.logger.Info("PROFILE", "Profile completed", map[string]interface{}{"user_id": userId, "standard": p.Standard})
	return dto.NewProfileResponse(p), nil
}

// Refresh re-reads the stored profile. A missing or incomplete profile is
// reported through the gate errors so the caller is sent to profile setup.
func (s *profileService) Refresh(ctx context.Context, userId string) (*dto.ProfileResponse, error) {
	p, err := s.fetcher.FetchProfile(ctx, userId)
	if err != nil {
		return nil, err
	}
	if err := gate.CheckDashboardProfile(p); err != nil {
		return nil, err
	}
	s.sessions.SetProfile(ctx, userId, p)
	return dto.NewProfileResponse(p), nil
}
