// Package session tracks, per browser session, who is signed in and the
// profile the dashboard renders from. Consumers get immutable snapshots.
package session

import (
	"context"
	"errors"
	"sync"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/pkg/gate"
	"edu-dashboard-be/pkg/identity"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrAlreadyStarted  = errors.New("session store already started")
)

// ProfileFetcher loads the stored profile document for a user. A missing
// document is reported as ErrProfileNotFound.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, userID string) (*entity.Profile, error)
}

// Notifier is told about every snapshot change, e.g. to push it to
// websocket clients.
type Notifier interface {
	Notify(s Snapshot)
}

// Snapshot is a value copy of one session. Profile is never shared with
// the store.
type Snapshot struct {
	SessionID   string          `json:"session_id"`
	UserID      string          `json:"user_id,omitempty"`
	Initialized bool            `json:"initialized"`
	Profile     *entity.Profile `json:"-"`
	Error       string          `json:"error,omitempty"`
}

func (s Snapshot) GateState() gate.State {
	return gate.State{Initialized: s.Initialized, UserID: s.UserID, Profile: s.Profile}
}

type entry struct {
	userID      string
	initialized bool
	profile     *entity.Profile
	lastErr     string
	// generation invalidates fetches started for an older auth state.
	generation uint64
}

func (e *entry) snapshot(sid string) Snapshot {
	return Snapshot{
		SessionID:   sid,
		UserID:      e.userID,
		Initialized: e.initialized,
		Profile:     e.profile.Clone(),
		Error:       e.lastErr,
	}
}

type Store struct {
	subscriber identity.Subscriber
	profiles   ProfileFetcher
	cache      ProfileCache
	logger     logger.ILogger
	notifier   Notifier

	mu       sync.Mutex
	sessions map[string]*entry
	watchers map[string]map[uint64]chan Snapshot
	nextID   uint64

	startOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewStore(subscriber identity.Subscriber, profiles ProfileFetcher, cache ProfileCache, log logger.ILogger) *Store {
	if log == nil {
		log = logger.NewNopLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		subscriber: subscriber,
		profiles:   profiles,
		cache:      cache,
		logger:     log,
		sessions:   map[string]*entry{},
		watchers:   map[string]map[uint64]chan Snapshot{},
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetNotifier must be called before Start.
func (s *Store) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start subscribes to the auth-state stream. It may only succeed once; the
// loop runs until ctx is cancelled or Close is called.
func (s *Store) Start(ctx context.Context) error {
	err := ErrAlreadyStarted
	s.startOnce.Do(func() {
		err = nil
		events, subErr := s.subscriber.Subscribe(s.ctx)
		if subErr != nil {
			err = subErr
			return
		}
		s.wg.Add(1)
		go s.loop(ctx, events)
	})
	return err
}

func (s *Store) loop(ctx context.Context, events <-chan identity.AuthEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			s.cancel()
			return
		case <-s.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handle(ev)
		}
	}
}

// handle updates the current user synchronously and fetches the profile in
// the background.
func (s *Store) handle(ev identity.AuthEvent) {
	if ev.SessionID == "" {
		s.logger.Warn("SessionStore", "Auth event without session id", map[string]interface{}{"user_id": ev.UserID})
		return
	}

	s.mu.Lock()
	e, ok := s.sessions[ev.SessionID]
	if !ok {
		e = &entry{}
		s.sessions[ev.SessionID] = e
	}
	e.generation++
	gen := e.generation

	if !ev.SignedIn() {
		prev := e.userID
		e.userID = ""
		e.profile = nil
		e.lastErr = ""
		e.initialized = true
		snap := e.snapshot(ev.SessionID)
		delete(s.sessions, ev.SessionID)
		s.deliverLocked(snap)
		s.mu.Unlock()

		if prev != "" {
			if err := s.cache.Delete(s.ctx, prev); err != nil {
				s.logger.Warn("SessionStore", "Failed to clear cached profile", map[string]interface{}{"user_id": prev, "error": err.Error()})
			}
		}
		s.notify(snap)
		return
	}

	if e.userID != ev.UserID {
		e.userID = ev.UserID
		e.profile = nil
		e.initialized = false
	}
	e.lastErr = ""
	snap := e.snapshot(ev.SessionID)
	s.deliverLocked(snap)
	s.wg.Add(1)
	s.mu.Unlock()

	s.notify(snap)
	go s.fetch(ev.SessionID, ev.UserID, gen)
}

func (s *Store) fetch(sid, userID string, gen uint64) {
	defer s.wg.Done()

	p, err := s.profiles.FetchProfile(s.ctx, userID)
	if err == nil && p == nil {
		err = ErrProfileNotFound
	}
	var cached *entity.Profile
	if err != nil && !errors.Is(err, ErrProfileNotFound) && s.ctx.Err() == nil {
		if c, ok, cerr := s.cache.Get(s.ctx, userID); cerr == nil && ok {
			cached = c
		}
	}

	s.mu.Lock()
	e, ok := s.sessions[sid]
	if !ok || e.generation != gen || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	switch {
	case err == nil:
		e.profile = p.Clone()
	case errors.Is(err, ErrProfileNotFound):
		e.profile = nil
	default:
		// keep the last known profile
		if e.profile == nil && cached != nil {
			e.profile = cached
		}
		e.lastErr = err.Error()
	}
	e.initialized = true
	snap := e.snapshot(sid)
	s.deliverLocked(snap)
	s.mu.Unlock()

	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		s.logger.Error("SessionStore", "Profile fetch failed", map[string]interface{}{
			"user_id": userID,
			"error":   err,
		})
	}
	if err == nil {
		if cerr := s.cache.Set(s.ctx, userID, p); cerr != nil {
			s.logger.Warn("SessionStore", "Failed to cache profile", map[string]interface{}{"user_id": userID, "error": cerr.Error()})
		}
	}
	s.notify(snap)
}

// Restore loads a session this process has not seen yet, typically after a
// restart, for a user whose token was already verified.
func (s *Store) Restore(ctx context.Context, sid, userID string) Snapshot {
	s.mu.Lock()
	if e, ok := s.sessions[sid]; ok && e.userID == userID {
		snap := e.snapshot(sid)
		s.mu.Unlock()
		return snap
	}
	s.mu.Unlock()

	e := &entry{userID: userID, initialized: true}
	p, err := s.profiles.FetchProfile(ctx, userID)
	if err == nil && p == nil {
		err = ErrProfileNotFound
	}
	switch {
	case err == nil:
		e.profile = p.Clone()
		if cerr := s.cache.Set(ctx, userID, p); cerr != nil {
			s.logger.Warn("SessionStore", "Failed to cache profile", map[string]interface{}{"user_id": userID, "error": cerr.Error()})
		}
	case errors.Is(err, ErrProfileNotFound):
	default:
		s.logger.Error("SessionStore", "Profile fetch failed on restore", map[string]interface{}{"user_id": userID, "error": err})
		if c, ok, cerr := s.cache.Get(ctx, userID); cerr == nil && ok {
			e.profile = c
		}
		e.lastErr = err.Error()
	}

	s.mu.Lock()
	// a concurrent auth event wins over the restored state
	if cur, ok := s.sessions[sid]; ok && cur.userID == userID {
		snap := cur.snapshot(sid)
		s.mu.Unlock()
		return snap
	}
	s.sessions[sid] = e
	snap := e.snapshot(sid)
	s.deliverLocked(snap)
	s.mu.Unlock()
	return snap
}

// Snapshot returns the state of sid. Unknown sessions read as initialized
// and signed out.
func (s *Store) Snapshot(sid string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[sid]; ok {
		return e.snapshot(sid)
	}
	return Snapshot{SessionID: sid, Initialized: true}
}

func (s *Store) Known(sid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sid]
	return ok
}

// SetProfile replaces the profile of every session of userID, e.g. after
// profile setup or a manual refresh. Background fetches still in flight for
// those sessions are discarded.
func (s *Store) SetProfile(ctx context.Context, userID string, p *entity.Profile) {
	var snaps []Snapshot
	s.mu.Lock()
	for sid, e := range s.sessions {
		if e.userID != userID {
			continue
		}
		e.generation++
		e.profile = p.Clone()
		e.initialized = true
		e.lastErr = ""
		snap := e.snapshot(sid)
		s.deliverLocked(snap)
		snaps = append(snaps, snap)
	}
	s.mu.Unlock()

	if p != nil {
		if err := s.cache.Set(ctx, userID, p); err != nil {
			s.logger.Warn("SessionStore", "Failed to cache profile", map[string]interface{}{"user_id": userID, "error": err.Error()})
		}
	}
	for _, snap := range snaps {
		s.notify(snap)
	}
}

// Subscribe returns a channel that always holds the latest snapshot of sid
// and a func to stop watching. Slow readers only miss intermediate states.
func (s *Store) Subscribe(sid string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if s.watchers[sid] == nil {
		s.watchers[sid] = map[uint64]chan Snapshot{}
	}
	s.watchers[sid][id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if w, ok := s.watchers[sid]; ok {
				if _, ok := w[id]; ok {
					delete(w, id)
					close(ch)
				}
				if len(w) == 0 {
					delete(s.watchers, sid)
				}
			}
		})
	}
}

// deliverLocked runs under mu so watchers observe changes in order.
func (s *Store) deliverLocked(snap Snapshot) {
	for _, ch := range s.watchers[snap.SessionID] {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *Store) notify(snap Snapshot) {
	if s.notifier != nil {
		s.notifier.Notify(snap)
	}
}

// Close stops the loop, waits for background fetches and closes every
// subscription channel.
func (s *Store) Close() {
	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, w := range s.watchers {
		for id, ch := range w {
			close(ch)
			delete(w, id)
		}
		delete(s.watchers, sid)
	}
}
