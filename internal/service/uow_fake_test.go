package service

import (
	"context"
	"sync"
	"time"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/repository/contract"
	"edu-dashboard-be/internal/repository/specification"
	"edu-dashboard-be/internal/repository/unitofwork"
	"edu-dashboard-be/pkg/identity"

	"github.com/google/uuid"
)

// In-memory repositories behind a shared unit of work. Every repository
// guards its own state since the dashboard loads collections concurrently.

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	createErr error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	u := *user
	r.users[user.Email] = &u
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if byEmail, ok := s.(specification.ByEmail); ok {
			if u, ok := r.users[byEmail.Email]; ok {
				c := *u
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*entity.UserSession
	revoked   []uuid.UUID
	revokeErr error
}

func (r *fakeSessionRepo) Create(ctx context.Context, sess *entity.UserSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *sess
	r.sessions[sess.Id] = &s
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			if sess, ok := r.sessions[byID.ID]; ok && sess.Active(time.Now()) {
				c := *sess
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revokeErr != nil {
		return r.revokeErr
	}
	r.revoked = append(r.revoked, id)
	if sess, ok := r.sessions[id]; ok {
		sess.Revoked = true
	}
	return nil
}

type fakeProfileRepo struct {
	mu        sync.Mutex
	profiles  map[string]*entity.Profile
	upserts   int
	upsertErr error
}

func (r *fakeProfileRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[userId.String()].Clone(), nil
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts++
	r.profiles[profile.UserId] = profile.Clone()
	return nil
}

type fakeModuleRepo struct {
	mu      sync.Mutex
	modules []entity.Module
	deleted []uuid.UUID
	findErr error
	delay   time.Duration
	calls   int
}

func (r *fakeModuleRepo) Create(ctx context.Context, module *entity.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if module.Id == "" {
		module.Id = uuid.NewString()
	}
	r.modules = append(r.modules, *module)
	return nil
}

func (r *fakeModuleRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Module, error) {
	if err := wait(ctx, r.delay); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return append([]entity.Module{}, r.modules...), nil
}

func (r *fakeModuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.deleted = append(r.deleted, id)
	kept := r.modules[:0]
	for _, m := range r.modules {
		if m.Id != id.String() {
			kept = append(kept, m)
		}
	}
	r.modules = kept
	return nil
}

func (r *fakeModuleRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.modules)), nil
}

type fakeTopicRepo struct {
	mu      sync.Mutex
	topics  []entity.Topic
	deleted []uuid.UUID
	findErr error
	delay   time.Duration
	calls   int
}

func (r *fakeTopicRepo) Create(ctx context.Context, topic *entity.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if topic.Id == "" {
		topic.Id = uuid.NewString()
	}
	r.topics = append(r.topics, *topic)
	return nil
}

func (r *fakeTopicRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Topic, error) {
	if err := wait(ctx, r.delay); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return append([]entity.Topic{}, r.topics...), nil
}

func (r *fakeTopicRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeTopicRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.topics)), nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type fakeUnitOfWork struct {
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	profiles *fakeProfileRepo
	modules  *fakeModuleRepo
	topics   *fakeTopicRepo
}

var _ unitofwork.UnitOfWork = (*fakeUnitOfWork)(nil)

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:    &fakeUserRepo{users: map[string]*entity.User{}},
		sessions: &fakeSessionRepo{sessions: map[uuid.UUID]*entity.UserSession{}},
		profiles: &fakeProfileRepo{profiles: map[string]*entity.Profile{}},
		modules:  &fakeModuleRepo{},
		topics:   &fakeTopicRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return u.users }
func (u *fakeUnitOfWork) UserSessionRepository() contract.UserSessionRepository {
	return u.sessions
}
func (u *fakeUnitOfWork) ProfileRepository() contract.ProfileRepository { return u.profiles }
func (u *fakeUnitOfWork) ModuleRepository() contract.ModuleRepository   { return u.modules }
func (u *fakeUnitOfWork) TopicRepository() contract.TopicRepository     { return u.topics }

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type recordingAuthStream struct {
	mu     sync.Mutex
	events []identity.AuthEvent
}

func (r *recordingAuthStream) Publish(ev identity.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingAuthStream) Events() []identity.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]identity.AuthEvent{}, r.events...)
}

type nopMailer struct{}

func (nopMailer) SendWelcome(toEmail string) error { return nil }
