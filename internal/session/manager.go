package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "github.com/diogo/offsum/internal/errors"
)

// Manager keeps the sessions of the web surface keyed by session ID.
// Sessions never share state; the map is the only shared structure.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	options  []Option
	ttl      time.Duration
	logger   *zap.Logger
}

// NewManager creates a registry. opts are applied to every new session.
func NewManager(ttl time.Duration, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		options:  opts,
		ttl:      ttl,
		logger:   logger,
	}
}

// Create registers a new session with a random ID
func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.options...)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("session", s.ID))
	return s
}

// Get returns the session with id
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, apierrors.NewSessionError(id)
	}
	return s, nil
}

// GetOrCreate returns the session with id, or a new one if id is unknown.
// The bool reports whether a new session was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		s, err := m.Get(id)
		if err == nil {
			return s, false
		}
		if apierrors.IsSessionNotFound(err) {
			m.logger.Debug("unknown session, issuing a new one", zap.String("stale", id))
		}
	}
	return m.Create(), true
}

// Delete drops a session
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastActive()) > m.ttl {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Info("evicted idle sessions",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(m.sessions)))
	}
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}
