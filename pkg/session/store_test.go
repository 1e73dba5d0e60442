package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/pkg/gate"
	"edu-dashboard-be/pkg/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type chanSubscriber struct {
	ch    chan identity.AuthEvent
	calls int
}

func (c *chanSubscriber) Subscribe(ctx context.Context) (<-chan identity.AuthEvent, error) {
	c.calls++
	return c.ch, nil
}

type fetchResult struct {
	profile *entity.Profile
	err     error
}

// fakeFetcher answers from a map; users listed in block wait until released
// or the context ends, then signal on returned if set.
type fakeFetcher struct {
	mu       sync.Mutex
	results  map[string]fetchResult
	block    map[string]chan struct{}
	calls    int
	returned chan string
}

func (f *fakeFetcher) FetchProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	f.mu.Lock()
	f.calls++
	r, ok := f.results[userID]
	wait := f.block[userID]
	f.mu.Unlock()

	if wait != nil {
		if f.returned != nil {
			defer func() { f.returned <- userID }()
		}
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, ErrProfileNotFound
	}
	return r.profile.Clone(), r.err
}

func (f *fakeFetcher) set(userID string, r fetchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[userID] = r
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{results: map[string]fetchResult{}, block: map[string]chan struct{}{}}
}

// go-cache runs a janitor per cache until it is garbage collected.
func verifyNoLeaks(t *testing.T) {
	goleak.VerifyNone(t, goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

func completeProfile(userID string) *entity.Profile {
	return &entity.Profile{UserId: userID, Name: "Asha", Standard: "11", Subjects: []string{"physics"}, ProfileCompleted: true}
}

func startStore(t *testing.T, f *fakeFetcher, cache ProfileCache) (*Store, *chanSubscriber) {
	t.Helper()
	sub := &chanSubscriber{ch: make(chan identity.AuthEvent)}
	s := NewStore(sub, f, cache, nil)
	require.NoError(t, s.Start(context.Background()))
	return s, sub
}

// waitFor reads snapshots until cond holds.
func waitFor(t *testing.T, ch <-chan Snapshot, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if cond(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
			return Snapshot{}
		}
	}
}

func TestSignInLoadsProfile(t *testing.T) {
	defer verifyNoLeaks(t)

	f := newFetcher()
	f.set("u1", fetchResult{profile: completeProfile("u1")})
	cache := NewMemoryProfileCache(0)
	s, sub := startStore(t, f, cache)
	defer s.Close()

	updates, stop := s.Subscribe("s1")
	defer stop()

	sub.ch <- identity.AuthEvent{SessionID: "s1", UserID: "u1"}
	snap := waitFor(t, updates, func(s Snapshot) bool { return s.Initialized })

	assert.Equal(t, "u1", snap.UserID)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Asha", snap.Profile.Name)
	assert.Equal(t, gate.Allow, gate.Decide(snap.GateState(), gate.Dashboard))

	require.Eventually(t, func() bool {
		cached, ok, err := cache.Get(context.Background(), "u1")
		return err == nil && ok && cached.Standard == "11"
	}, time.Second, 10*time.Millisecond)
}

func TestSignInWithoutProfile(t *testing.T) {
	defer verifyNoLeaks(t)

	s, sub := startStore(t, newFetcher(), NewMemoryProfileCache(0))
	defer s.Close()
	updates, stop := s.Subscribe("s1")
	defer stop()

	sub.ch <- identity.AuthEvent{SessionID: "s1", UserID: "u1"}
	snap := waitFor(t, updates, func(s Snapshot) bool { return s.Initialized })

	assert.Nil(t, snap.Profile)
	assert.Equal(t, gate.RedirectProfileSetup, gate.Decide(snap.GateState(), gate.Dashboard))
	assert.Equal(t, gate.Allow, gate.Decide(snap.GateState(), gate.ProfileSetup))
}

func TestFetchErrorKeepsLastKnownProfile(t *testing.T) {
	defer verifyNoLeaks(t)

	f := newFetcher()
	cache := NewMemoryProfileCache(0)
	require.NoError(t, cache.Set(context.Background(), "u1", completeProfile("u1")))
	f.set("u1", fetchResult{err: errors.New("store unavailable")})

	s, sub := startStore(t, f, cache)
	defer s.Close()
	updates, stop := s.Subscribe("s1")
	defer stop()

	sub.ch <- identity.AuthEvent{SessionID: "s1", UserID: "u1"}
	snap := waitFor(t, updates, func(s Snapshot) bool { return s.Initialized })

	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Asha", snap.Profile.Name)
	assert.Equal(t, "store unavailable", snap.Error)
}

func TestSignOutClearsProfileAndCache(t *testing.T) {
	defer verifyNoLeaks(t)

	f := newFetcher()
	f.set("u1", fetchResult{profile: completeProfile("u1")})
	cache := NewMemoryProfileCache(0)
	s, sub := startStore(t, f, cache)
	defer s.Close()
	updates, stop := s.Subscribe("s1")
	defer stop()

	sub.ch <- identity.AuthEvent{SessionID: "s1", UserID: "u1"}
	waitFor(t, updates, func(s Snapshot) bool { return s.Initialized && s.Profile != nil })

	sub.ch <- identity.AuthEvent{SessionID: "s1"}
	snap := waitFor(t, updates, func(s Snapshot) bool { return s.UserID == "" })

	assert.True(t, snap.Initialized)
	assert.Nil(t, snap.Profile)
	assert.Equal(t, gate.RedirectLogin, gate.Decide(snap.GateState(), gate.Dashboard))
	assert.False(t, s.Known("s1"))

	_, ok, err := cache.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLateFetchAfterSignOutIsDiscarded(t *testing.T) {
	defer verifyNoLeaks(t)

	f := newFetcher()
	release := make(chan struct{})
	f.set("u1", fetchResult{profile: completeProfile("u1")})
	f.block["u1"] = release
	f.returned = make(chan string, 1)

	s, sub := startStore(t, f, NewMemoryProfileCache(0))
	defer s.Close()
	updates, stop := s.Subscribe("s1")
	defer stop()

	sub.ch <- identity.AuthEvent{SessionID: "s1", UserID: "u1"}
	first := waitFor(t, updates, func(s Snapshot) bool { return s.UserID == "u1" })
	assert.False(t, first.Initialized)
	assert.Equal(t, gate.Loading, gate.Decide(first.GateState(), gate.Dashboard))

	sub.ch <- identity.AuthEvent{SessionID: "s1"}
	waitFor(t, updates, func(s Snapshot) bool { return s.UserID == "" })

	close(release)
	<-f.returned

	assert.Never(t, func() bool {
		select {
		case snap := <-updates:
			return snap.UserID == "u1"
		default:
			return false
		}
	}, 200*time.Millisecond, 10*time.Millisecond)

	snap := s.Snapshot("s1")
	assert.Empty(t, snap.UserID)
	assert.Nil(t, snap.Profile)
}

func TestSetProfileUpdatesAllSessionsOfUser(t *testing.T) {
	defer verifyNoLeaks(t)

	f := newFetcher()
	s, sub := startStore(t, f, NewMemoryProfileCache(0))
	defer s.Close()
	u1, stop1 := s.Subscribe("s1")
	defer stop1()
	u2, stop2 := s.Subscribe("s2")
	defer stop2()

	sub.ch <- identity.AuthEvent{SessionID: "s1", UserID: "u1"}
	sub.ch <- identity.AuthEvent{SessionID: "s2", UserID: "u1"}
	waitFor(t, u1, func(s Snapshot) bool { return s.Initialized })
	waitFor(t, u2, func(s Snapshot) bool { return s.Initialized })

	s.SetProfile(context.Background(), "u1", completeProfile("u1"))

	for _, sid := range []string{"s1", "s2"} {
		snap := s.Snapshot(sid)
		require.NotNil(t, snap.Profile, sid)
		assert.True(t, snap.Profile.ProfileCompleted)
	}
}

func TestRestoreUnknownSession(t *testing.T) {
	defer verifyNoLeaks(t)

	f := newFetcher()
	f.set("u1", fetchResult{profile: completeProfile("u1")})
	s := NewStore(&chanSubscriber{ch: make(chan identity.AuthEvent)}, f, NewMemoryProfileCache(0), nil)
	defer s.Close()

	assert.False(t, s.Known("s9"))
	snap := s.Restore(context.Background(), "s9", "u1")

	assert.True(t, snap.Initialized)
	assert.Equal(t, "u1", snap.UserID)
	require.NotNil(t, snap.Profile)
	assert.True(t, s.Known("s9"))

	s.Restore(context.Background(), "s9", "u1")
	assert.Equal(t, 1, f.calls)
}

func TestUnknownSnapshotIsSignedOut(t *testing.T) {
	s := NewStore(&chanSubscriber{}, newFetcher(), NewMemoryProfileCache(0), nil)
	defer s.Close()

	snap := s.Snapshot("nope")
	assert.True(t, snap.Initialized)
	assert.Equal(t, gate.RedirectLogin, gate.Decide(snap.GateState(), gate.Dashboard))
}

func TestStartOnlyOnce(t *testing.T) {
	defer verifyNoLeaks(t)

	sub := &chanSubscriber{ch: make(chan identity.AuthEvent)}
	s := NewStore(sub, newFetcher(), NewMemoryProfileCache(0), nil)
	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
	assert.Equal(t, 1, sub.calls)
	s.Close()
}

func TestSnapshotProfileIsCopy(t *testing.T) {
	f := newFetcher()
	f.set("u1", fetchResult{profile: completeProfile("u1")})
	s := NewStore(&chanSubscriber{}, f, NewMemoryProfileCache(0), nil)
	defer s.Close()

	snap := s.Restore(context.Background(), "s1", "u1")
	snap.Profile.Subjects[0] = "changed"

	assert.Equal(t, "physics", s.Snapshot("s1").Profile.Subjects[0])
}

type recordingNotifier struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recordingNotifier) Notify(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func TestNotifierSeesChanges(t *testing.T) {
	defer verifyNoLeaks(t)

	n := &recordingNotifier{}
	sub := &chanSubscriber{ch: make(chan identity.AuthEvent)}
	s := NewStore(sub, newFetcher(), NewMemoryProfileCache(0), nil)
	s.SetNotifier(n)
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	sub.ch <- identity.AuthEvent{SessionID: "s1", UserID: "u1"}
	require.Eventually(t, func() bool { return n.count() >= 2 }, time.Second, 10*time.Millisecond)
}
