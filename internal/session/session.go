// Package session holds the current-user context. A Session is the only
// writer of its user record: Login, Update and Logout persist through the
// Store before the in-memory copy changes, and readers always get a copy.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/honeynil/bankfront/internal/infrastructure/observability"
	"github.com/honeynil/bankfront/internal/models"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
)

type Session struct {
	id    string
	store Store

	mu   sync.RWMutex
	user *models.User
}

// Restore opens a session over store, picking up a previously saved user.
func Restore(ctx context.Context, id string, store Store) (*Session, error) {
	u, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{id: id, store: store, user: u}, nil
}

func (s *Session) ID() string {
	return s.id
}

// Current returns a copy of the logged-in user.
func (s *Session) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return s.user.Clone(), true
}

// RequireUser is Current that fails with ErrNotAuthenticated.
func (s *Session) RequireUser() (models.User, error) {
	u, ok := s.Current()
	if !ok {
		return models.User{}, pkgerrors.ErrNotAuthenticated
	}
	return u, nil
}

// Login replaces the current user wholesale.
func (s *Session) Login(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, u); err != nil {
		return err
	}
	u = u.Clone()
	s.user = &u
	slog.Info("session user set", "session", s.id, observability.UserAttrs(u.Phone))
	return nil
}

// Update applies fn to a copy of the current user and persists the result.
func (s *Session) Update(ctx context.Context, fn func(u *models.User)) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, pkgerrors.ErrNotAuthenticated
	}
	next := s.user.Clone()
	fn(&next)
	if err := s.store.Save(ctx, next); err != nil {
		return models.User{}, err
	}
	s.user = &next
	return next.Clone(), nil
}

func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.user = nil
	slog.Info("session cleared", "session", s.id)
	return nil
}

// StoreFactory returns the store backing one browser session.
type StoreFactory func(sessionID string) Store

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// Manager keeps the sessions of a multi-user server. Sessions idle for longer
// than ttl are dropped from memory; their stores expire on their own.
type Manager struct {
	stores  StoreFactory
	ttl     time.Duration
	now     func() time.Time
	onEvict func(id string)

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager(stores StoreFactory, ttl time.Duration) *Manager {
	return &Manager{
		stores:   stores,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// OnEvict registers fn to run for every session dropped from memory, by
// Forget or for being idle.
func (m *Manager) OnEvict(fn func(id string)) {
	m.mu.Lock()
	m.onEvict = fn
	m.mu.Unlock()
}

// Create opens a fresh, unauthenticated session with a new id.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	return m.Get(ctx, uuid.NewString())
}

// Get returns the session for id, restoring it from its store when this
// process has not seen it yet.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.pruneLocked(now)

	if e, ok := m.sessions[id]; ok {
		e.lastSeen = now
		return e.sess, nil
	}
	sess, err := Restore(ctx, id, m.stores(id))
	if err != nil {
		return nil, err
	}
	m.sessions[id] = &entry{sess: sess, lastSeen: now}
	return sess, nil
}

func (m *Manager) Forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(id)
}

func (m *Manager) evictLocked(id string) {
	delete(m.sessions, id)
	if m.onEvict != nil {
		m.onEvict(id)
	}
}

func (m *Manager) pruneLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			m.evictLocked(id)
		}
	}
}
