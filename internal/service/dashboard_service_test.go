package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/internal/repository/memory"
	"edu-dashboard-be/pkg/chat"
	"edu-dashboard-be/pkg/content"
	"edu-dashboard-be/pkg/gate"
	"edu-dashboard-be/pkg/quiz"
	"edu-dashboard-be/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionsFunc serves snapshots straight from a function.
type sessionsFunc func(sid string) session.Snapshot

func (f sessionsFunc) Snapshot(sid string) session.Snapshot { return f(sid) }

func signedIn(userID string) sessionsFunc {
	return func(sid string) session.Snapshot {
		return session.Snapshot{SessionID: sid, UserID: userID, Initialized: true}
	}
}

var testBank = quiz.Bank{
	"physics": {
		"Motion": {
			{Question: "Unit of velocity?", Options: []string{"m/s", "kg"}, CorrectAnswer: 0},
			{Question: "Unit of force?", Options: []string{"J", "N"}, CorrectAnswer: 1},
		},
	},
}

func newTestWorkspaceService(uow *fakeUnitOfWork, sessions SessionReader, sink *memorySink) IWorkspaceService {
	endpoint := chat.EndpointFunc(func(ctx context.Context, req chat.Request) (chat.Reply, error) {
		return chat.Reply{Response: "ok", Subject: req.Subject}, nil
	})
	return NewWorkspaceService(
		memory.NewWorkspaceRepository(time.Hour),
		&fakeRepositoryFactory{uow: uow},
		sessions,
		testBank,
		endpoint,
		NewEventPublisher(sink, logger.NewNopLogger()),
		logger.NewNopLogger(),
	)
}

func newTestDashboardService(uow *fakeUnitOfWork) IDashboardService {
	catalog := content.Catalog{
		"biology": {"class10": {Title: "Biology - Class 10", Topics: []string{"Life Processes", "Heredity"}}},
	}
	return NewDashboardService(
		&fakeRepositoryFactory{uow: uow},
		newTestWorkspaceService(uow, signedIn("u1"), &memorySink{}),
		content.NewResolver(catalog, nil),
		logger.NewNopLogger(),
	)
}

func completeProfile() *entity.Profile {
	return &entity.Profile{
		UserId:           "u1",
		Name:             "Ada",
		Standard:         "10",
		Subjects:         []string{"biology", "chemistry"},
		ProfileCompleted: true,
	}
}

func TestDashboardLoadRevalidatesProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile func() *entity.Profile
		wantErr error
	}{
		{
			name:    "no profile",
			profile: func() *entity.Profile { return nil },
			wantErr: gate.ErrIncompleteProfile,
		},
		{
			name: "not completed",
			profile: func() *entity.Profile {
				p := completeProfile()
				p.ProfileCompleted = false
				return p
			},
			wantErr: gate.ErrIncompleteProfile,
		},
		{
			name: "completed without name",
			profile: func() *entity.Profile {
				p := completeProfile()
				p.Name = ""
				return p
			},
			wantErr: gate.ErrIncompleteProfile,
		},
		{
			name: "completed without subjects",
			profile: func() *entity.Profile {
				p := completeProfile()
				p.Subjects = nil
				return p
			},
			wantErr: gate.ErrIncompleteProfile,
		},
		{
			name: "class outside 9 to 12",
			profile: func() *entity.Profile {
				p := completeProfile()
				p.Standard = "13"
				return p
			},
			wantErr: gate.ErrInvalidStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := newFakeUnitOfWork()
			svc := newTestDashboardService(uow)
			snap := session.Snapshot{SessionID: "s1", UserID: "u1", Initialized: true, Profile: tt.profile()}

			res, err := svc.Load(context.Background(), snap)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
		})
	}
}

func TestDashboardLoadDefaultsToFirstSubject(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.modules.modules = []entity.Module{{Id: "m1", Name: "Cells", Subject: "biology"}}
	uow.topics.topics = []entity.Topic{{Id: "t1", Name: "Mitosis", Subject: "biology"}}
	svc := newTestDashboardService(uow)

	res, err := svc.Load(context.Background(), session.Snapshot{SessionID: "s1", UserID: "u1", Initialized: true, Profile: completeProfile()})

	require.NoError(t, err)
	assert.Empty(t, res.Alert)
	assert.Equal(t, "biology", res.Workspace.Selection.Subject)
	assert.Equal(t, "Biology - Class 10", res.Content.Title)
	assert.Equal(t, []string{"Life Processes", "Heredity"}, res.Content.Topics)
	assert.Equal(t, []string{"biology", "chemistry"}, res.Subjects)
	require.Len(t, res.Workspace.Modules, 1)
	require.Len(t, res.Workspace.Topics, 1)
}

func TestDashboardLoadReportsTheFailedCollection(t *testing.T) {
	loadErr := errors.New("connection refused")
	tests := []struct {
		name        string
		setup       func(uow *fakeUnitOfWork)
		wantAlert   string
		wantModules int
		wantTopics  int
	}{
		{
			name: "topics fail while modules are still loading",
			setup: func(uow *fakeUnitOfWork) {
				uow.modules.delay = 50 * time.Millisecond
				uow.topics.findErr = loadErr
			},
			wantAlert:   topicsLoadFailed,
			wantModules: 1,
		},
		{
			name: "modules fail while topics are still loading",
			setup: func(uow *fakeUnitOfWork) {
				uow.topics.delay = 50 * time.Millisecond
				uow.modules.findErr = loadErr
			},
			wantAlert:  modulesLoadFailed,
			wantTopics: 1,
		},
		{
			name: "both fail",
			setup: func(uow *fakeUnitOfWork) {
				uow.modules.findErr = loadErr
				uow.topics.findErr = loadErr
			},
			wantAlert: modulesLoadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := newFakeUnitOfWork()
			uow.modules.modules = []entity.Module{{Id: "m1", Name: "Cells", Subject: "biology"}}
			uow.topics.topics = []entity.Topic{{Id: "t1", Name: "Mitosis", Subject: "biology"}}
			tt.setup(uow)
			svc := newTestDashboardService(uow)

			res, err := svc.Load(context.Background(), session.Snapshot{SessionID: "s1", UserID: "u1", Initialized: true, Profile: completeProfile()})

			require.NoError(t, err)
			assert.Equal(t, tt.wantAlert, res.Alert)
			assert.Len(t, res.Workspace.Modules, tt.wantModules)
			assert.Len(t, res.Workspace.Topics, tt.wantTopics)
			assert.Equal(t, "Biology - Class 10", res.Content.Title)
		})
	}
}

func TestDashboardSelectSubject(t *testing.T) {
	svc := newTestDashboardService(newFakeUnitOfWork())
	snap := session.Snapshot{SessionID: "s1", UserID: "u1", Initialized: true, Profile: completeProfile()}

	res, err := svc.SelectSubject(context.Background(), snap, "chemistry")
	require.NoError(t, err)
	assert.Equal(t, "chemistry", res.Workspace.Selection.Subject)
	// no catalog entry for chemistry class 10
	assert.Empty(t, res.Content.Topics)

	_, err = svc.SelectSubject(context.Background(), snap, "physics")
	assert.ErrorIs(t, err, gate.ErrSubjectNotChosen)
}
