package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/pkg/events"
	"edu-dashboard-be/pkg/identity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identityFixture struct {
	uow  *fakeUnitOfWork
	auth *recordingAuthStream
	sink *memorySink
	svc  IIdentityService
}

func newIdentityFixture() *identityFixture {
	f := &identityFixture{
		uow:  newFakeUnitOfWork(),
		auth: &recordingAuthStream{},
		sink: &memorySink{},
	}
	f.svc = NewIdentityService(
		&fakeRepositoryFactory{uow: f.uow},
		identity.NewTokens("test-secret", time.Hour),
		f.auth,
		NewEventPublisher(f.sink, logger.NewNopLogger()),
		nopMailer{},
		logger.NewNopLogger(),
	)
	return f
}

func eventTypes(sink *memorySink) []string {
	types := make([]string, 0, len(sink.events))
	for _, e := range sink.events {
		types = append(types, e.EventType())
	}
	return types
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *identityFixture)
		wantErr error
	}{
		{
			name: "new account",
		},
		{
			name: "email already registered",
			setup: func(f *identityFixture) {
				_, err := f.svc.SignUp(context.Background(), &dto.SignUpRequest{Email: "ada@example.com", Password: "secret1"}, "", "")
				require.NoError(t, err)
			},
			wantErr: identity.ErrEmailTaken,
		},
		{
			name: "unique violation on insert",
			setup: func(f *identityFixture) {
				f.uow.users.createErr = &pgconn.PgError{Code: uniqueViolation}
			},
			wantErr: identity.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIdentityFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			before := len(f.auth.Events())

			res, err := f.svc.SignUp(context.Background(), &dto.SignUpRequest{Email: " Ada@Example.com ", Password: "secret1"}, "127.0.0.1", "test")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				assert.Len(t, f.auth.Events(), before)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "/profile-setup", res.Redirect)
			assert.Equal(t, "ada@example.com", res.Email)
			assert.NotEmpty(t, res.AccessToken)

			sid, err := uuid.Parse(res.SessionId)
			require.NoError(t, err)
			assert.Contains(t, f.uow.sessions.sessions, sid)

			authEvents := f.auth.Events()
			require.Len(t, authEvents, 1)
			assert.Equal(t, res.SessionId, authEvents[0].SessionID)
			assert.Equal(t, res.UserId, authEvents[0].UserID)
			assert.Equal(t, []string{events.UserSignedUp, events.UserSignedIn}, eventTypes(f.sink))
		})
	}
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()
	_, err := f.svc.SignUp(ctx, &dto.SignUpRequest{Email: "ada@example.com", Password: "secret1"}, "", "")
	require.NoError(t, err)

	_, err = f.svc.SignIn(ctx, &dto.SignInRequest{Email: "ada@example.com", Password: "wrong"}, "", "")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = f.svc.SignIn(ctx, &dto.SignInRequest{Email: "nobody@example.com", Password: "secret1"}, "", "")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	res, err := f.svc.SignIn(ctx, &dto.SignInRequest{Email: "ADA@example.com", Password: "secret1"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", res.Redirect)
}

func TestSignOutRevokesSessionAndPublishes(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()
	res, err := f.svc.SignUp(ctx, &dto.SignUpRequest{Email: "ada@example.com", Password: "secret1"}, "", "")
	require.NoError(t, err)

	claims, err := f.svc.Verify(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.SessionId, claims.SessionID)

	require.NoError(t, f.svc.SignOut(ctx, res.UserId, res.SessionId))

	assert.Equal(t, []uuid.UUID{uuid.MustParse(res.SessionId)}, f.uow.sessions.revoked)
	authEvents := f.auth.Events()
	require.Len(t, authEvents, 2)
	last := authEvents[1]
	assert.Equal(t, res.SessionId, last.SessionID)
	assert.False(t, last.SignedIn())
	assert.Contains(t, eventTypes(f.sink), events.UserSignedOut)

	_, err = f.svc.Verify(ctx, res.AccessToken)
	assert.ErrorIs(t, err, identity.ErrSessionRevoked)
}

func TestSignOutErrors(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	err := f.svc.SignOut(ctx, "u1", "not-a-uuid")
	assert.ErrorIs(t, err, identity.ErrInvalidToken)

	storeErr := errors.New("connection reset")
	f.uow.sessions.revokeErr = storeErr
	err = f.svc.SignOut(ctx, "u1", uuid.NewString())
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, f.auth.Events())
}
