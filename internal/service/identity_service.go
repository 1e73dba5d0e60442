package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/internal/pkg/mailer"
	"edu-dashboard-be/internal/repository/specification"
	"edu-dashboard-be/internal/repository/unitofwork"
	"edu-dashboard-be/pkg/identity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

const uniqueViolation = "23505"

type IIdentityService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest, ipAddress, userAgent string) (*dto.AuthResponse, error)
	SignIn(ctx context.Context, req *dto.SignInRequest, ipAddress, userAgent string) (*dto.AuthResponse, error)
	SignOut(ctx context.Context, userId, sessionId string) error
	Verify(ctx context.Context, token string) (*identity.Claims, error)
}

type identityService struct {
	uowFactory   unitofwork.RepositoryFactory
	tokens       *identity.Tokens
	authEvents   identity.Publisher
	events       IEventPublisher
	emailService mailer.IEmailService
	logger       logger.ILogger
	// live remembers recently verified sessions so every request does not
	// hit user_sessions.
	live *cache.Cache
}

func NewIdentityService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *identity.Tokens,
	authEvents identity.Publisher,
	events IEventPublisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IIdentityService {
	return &identityService{
		uowFactory:   uowFactory,
		tokens:       tokens,
		authEvents:   authEvents,
		events:       events,
		emailService: emailService,
		logger:       log,
		live:         cache.New(time.Minute, 5*time.Minute),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *identityService) SignUp(ctx context.Context, req *dto.SignUpRequest, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, identity.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, identity.ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("IDENTITY", "User signed up", map[string]interface{}{"user_id": user.Id.String()})
	s.events.UserSignedUp(ctx, user.Id.String(), user.Email)

	go func() {
		if err := s.emailService.SendWelcome(user.Email); err != nil {
			s.logger.Warn("IDENTITY", "Welcome email failed", map[string]interface{}{"user_id": user.Id.String(), "error": err.Error()})
		}
	}()

	// a fresh account is signed in right away and has no profile yet
	res, err := s.startSession(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	res.Redirect = "/profile-setup"
	return res, nil
}

func (s *identityService) SignIn(ctx context.Context, req *dto.SignInRequest, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, identity.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, identity.ErrInvalidCredentials
	}

	res, err := s.startSession(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	res.Redirect = "/dashboard"
	return res, nil
}

func (s *identityService) startSession(ctx context.Context, user *entity.User, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	now := time.Now()
	sess := &entity.UserSession{
		Id:        uuid.New(),
		UserId:    user.Id,
		ExpiresAt: now.Add(s.tokens.TTL()),
		IpAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserSessionRepository().Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, exp, err := s.tokens.Issue(user.Id.String(), sess.Id.String(), now)
	if err != nil {
		return nil, err
	}
	s.live.Set(sess.Id.String(), user.Id.String(), cache.DefaultExpiration)

	// Publish blocks until the session store took the new state, so the
	// next request already sees this session.
	if err := s.authEvents.Publish(identity.AuthEvent{SessionID: sess.Id.String(), UserID: user.Id.String(), At: now}); err != nil {
		s.logger.Error("IDENTITY", "Failed to publish auth state", map[string]interface{}{"session_id": sess.Id.String(), "error": err})
	}
	s.events.UserSignedIn(ctx, user.Id.String(), sess.Id.String())

	return &dto.AuthResponse{
		UserId:      user.Id.String(),
		SessionId:   sess.Id.String(),
		Email:       user.Email,
		AccessToken: token,
		ExpiresAt:   exp,
	}, nil
}

func (s *identityService) SignOut(ctx context.Context, userId, sessionId string) error {
	sid, err := uuid.Parse(sessionId)
	if err != nil {
		return identity.ErrInvalidToken
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserSessionRepository().Revoke(ctx, sid); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.live.Delete(sessionId)

	if err := s.authEvents.Publish(identity.AuthEvent{SessionID: sessionId, At: time.Now()}); err != nil {
		s.logger.Error("IDENTITY", "Failed to publish auth state", map[string]interface{}{"session_id": sessionId, "error": err})
	}
	s.events.UserSignedOut(ctx, userId, sessionId)
	return nil
}

func (s *identityService) Verify(ctx context.Context, token string) (*identity.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	if uid, ok := s.live.Get(claims.SessionID); ok && uid.(string) == claims.UserID {
		return claims, nil
	}

	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, identity.ErrInvalidToken
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, identity.ErrInvalidToken
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sess, err := uow.UserSessionRepository().FindOne(ctx,
		specification.ByID{ID: sid},
		specification.UserOwnedBy{UserID: uid},
		specification.ActiveSessions{Now: time.Now()},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, identity.ErrSessionRevoked
	}
	s.live.Set(claims.SessionID, claims.UserID, cache.DefaultExpiration)
	return claims, nil
}
