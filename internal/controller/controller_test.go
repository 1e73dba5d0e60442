package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/internal/pkg/serverutils"
	"edu-dashboard-be/internal/service"
	"edu-dashboard-be/pkg/identity"
	"edu-dashboard-be/pkg/quiz"
	"edu-dashboard-be/pkg/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier map[string]*identity.Claims

func (f fakeVerifier) Verify(ctx context.Context, token string) (*identity.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, identity.ErrInvalidToken
}

type fakeSessions map[string]session.Snapshot

func (f fakeSessions) Known(sid string) bool { return true }

func (f fakeSessions) Restore(ctx context.Context, sid, userID string) session.Snapshot {
	return f.Snapshot(sid)
}

func (f fakeSessions) Snapshot(sid string) session.Snapshot { return f[sid] }

type fakeIdentity struct {
	service.IIdentityService
	signOutErr error
}

func (f *fakeIdentity) SignOut(ctx context.Context, userId, sessionId string) error {
	return f.signOutErr
}

type fakeProfiles struct {
	service.IProfileService
	refreshErr error
}

func (f *fakeProfiles) Refresh(ctx context.Context, userId string) (*dto.ProfileResponse, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &dto.ProfileResponse{Name: "Ana", ProfileCompleted: true}, nil
}

type fakeDashboard struct {
	service.IDashboardService
}

func (f *fakeDashboard) Load(ctx context.Context, snap session.Snapshot) (*dto.DashboardResponse, error) {
	return &dto.DashboardResponse{Subjects: snap.Profile.Subjects}, nil
}

type fakeWorkspaces struct {
	service.IWorkspaceService
	answered []int
}

func (f *fakeWorkspaces) View(sid, userId string) dto.WorkspaceResponse {
	return dto.WorkspaceResponse{Selection: dto.SelectionResponse{Subject: "physics"}}
}

func (f *fakeWorkspaces) SelectAnswer(ctx context.Context, sid, userId string, index int) (quiz.View, error) {
	f.answered = append(f.answered, index)
	return quiz.View{Available: true, SelectedAnswer: &index}, nil
}

type fakeInference struct{}

func (fakeInference) Answer(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if req.Message == "" {
		return nil, &service.InferenceError{Status: fiber.StatusBadRequest, Message: "No message provided"}
	}
	return &dto.ChatResponse{Response: "echo: " + req.Message, Subject: "chemistry"}, nil
}

type fixture struct {
	app        *fiber.App
	identity   *fakeIdentity
	profiles   *fakeProfiles
	workspaces *fakeWorkspaces
}

func newFixture() *fixture {
	complete := &entity.Profile{Name: "Ana", Standard: "10", Subjects: []string{"physics"}, ProfileCompleted: true}
	sessions := fakeSessions{
		"s-ready": {SessionID: "s-ready", UserID: "u1", Initialized: true, Profile: complete},
		"s-new":   {SessionID: "s-new", UserID: "u2", Initialized: true},
	}
	verifier := fakeVerifier{
		"tok-ready": {UserID: "u1", SessionID: "s-ready"},
		"tok-new":   {UserID: "u2", SessionID: "s-new"},
	}
	f := &fixture{
		app:        fiber.New(),
		identity:   &fakeIdentity{},
		profiles:   &fakeProfiles{},
		workspaces: &fakeWorkspaces{},
	}
	f.app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNopLogger()))
	g := NewGuards(verifier, sessions)
	api := f.app.Group("/api")
	NewAuthController(f.identity).RegisterRoutes(api, g)
	NewProfileController(f.profiles).RegisterRoutes(api, g)
	NewDashboardController(&fakeDashboard{}, f.workspaces).RegisterRoutes(api, g)
	NewWorkspaceController(f.workspaces).RegisterRoutes(api, g)
	NewChatController(fakeInference{}).RegisterRoutes(api)
	return f
}

func (f *fixture) do(t *testing.T, method, path, token, body string) (int, map[string]interface{}) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func redirectOf(body map[string]interface{}) string {
	data, _ := body["data"].(map[string]interface{})
	r, _ := data["redirect"].(string)
	return r
}

func TestDashboardRoutesAreGated(t *testing.T) {
	f := newFixture()

	code, body := f.do(t, fiber.MethodGet, "/api/dashboard", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "/login", redirectOf(body))

	code, body = f.do(t, fiber.MethodGet, "/api/dashboard", "tok-new", "")
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "/profile-setup", redirectOf(body))

	code, body = f.do(t, fiber.MethodGet, "/api/dashboard", "tok-ready", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["success"])
}

func TestProfileSetupRedirectsCompletedUsers(t *testing.T) {
	f := newFixture()

	code, body := f.do(t, fiber.MethodPut, "/api/profile", "tok-ready", `{"name":"Ana","standard":"10","subjects":["physics"]}`)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "/dashboard", redirectOf(body))
}

func TestRefreshErrors(t *testing.T) {
	f := newFixture()

	f.profiles.refreshErr = session.ErrProfileNotFound
	code, body := f.do(t, fiber.MethodPost, "/api/profile/refresh", "tok-new", "")
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "/profile-setup", redirectOf(body))

	f.profiles.refreshErr = errors.New("connection reset")
	code, body = f.do(t, fiber.MethodPost, "/api/profile/refresh", "tok-new", "")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Failed to refresh data: connection reset", body["message"])
}

func TestLogoutFailureMessage(t *testing.T) {
	f := newFixture()
	f.identity.signOutErr = errors.New("store unavailable")

	code, body := f.do(t, fiber.MethodPost, "/api/auth/logout", "tok-ready", "")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Failed to log out: store unavailable", body["message"])

	f.identity.signOutErr = nil
	code, body = f.do(t, fiber.MethodPost, "/api/auth/logout", "tok-ready", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "/login", redirectOf(body))
}

func TestSelectAnswerValidatesIndex(t *testing.T) {
	f := newFixture()

	code, _ := f.do(t, fiber.MethodPost, "/api/quiz/answer", "tok-ready", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Empty(t, f.workspaces.answered)

	code, _ = f.do(t, fiber.MethodPost, "/api/quiz/answer", "tok-ready", `{"index":0}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, []int{0}, f.workspaces.answered)
}

func TestChatBodies(t *testing.T) {
	f := newFixture()

	code, body := f.do(t, fiber.MethodPost, "/api/chat", "", `{"message":""}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "No message provided", body["error"])

	code, body = f.do(t, fiber.MethodPost, "/api/chat", "", `{"message":"hi"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "echo: hi", body["response"])
	assert.NotContains(t, body, "success")

	code, body = f.do(t, fiber.MethodPost, "/api/chat", "", `{"message":`)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.NotEmpty(t, body["error"])
	assert.NotContains(t, body, "success")
}
