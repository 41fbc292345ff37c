package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"go-csv-aggregator/internal/dataset"
	"go-csv-aggregator/pkg/logger"
)

// Registry records session lifetimes.
type Registry interface {
	SaveSession(ctx context.Context, sessionID string) error
	TouchSession(ctx context.Context, sessionID string) error
}

// Manager owns the live sessions. Sessions expire after ttl without use.
type Manager struct {
	cache    *cache.Cache
	initial  dataset.Dataset
	registry Registry
	logger   logger.Logger
}

// NewManager creates a manager whose sessions start from initial. Expired
// sessions are purged every cleanup interval.
func NewManager(initial dataset.Dataset, ttl, cleanup time.Duration, registry Registry, l logger.Logger) *Manager {
	c := cache.New(ttl, cleanup)
	c.OnEvicted(func(id string, _ interface{}) {
		l.Debug("session", "Session evicted", map[string]interface{}{"session_id": id})
	})
	return &Manager{
		cache:    c,
		initial:  initial,
		registry: registry,
		logger:   l,
	}
}

// Create starts a new session with a fresh copy of the initial dataset.
func (m *Manager) Create(ctx context.Context) *Session {
	s := New(uuid.New().String(), m.initial)
	m.cache.Set(s.ID, s, cache.DefaultExpiration)

	if m.registry != nil {
		if err := m.registry.SaveSession(ctx, s.ID); err != nil {
			m.logger.Warn("session", "Failed to register session", map[string]interface{}{
				"session_id": s.ID,
				"error":      err.Error(),
			})
		}
	}
	m.logger.Info("session", "Session created", map[string]interface{}{"session_id": s.ID})
	return s
}

// Get returns a live session and extends its lifetime.
func (m *Manager) Get(ctx context.Context, id string) (*Session, bool) {
	x, found := m.cache.Get(id)
	if !found {
		return nil, false
	}
	s := x.(*Session)
	m.cache.Set(id, s, cache.DefaultExpiration)

	if m.registry != nil {
		if err := m.registry.TouchSession(ctx, id); err != nil {
			m.logger.Debug("session", "Failed to touch session", map[string]interface{}{
				"session_id": id,
				"error":      err.Error(),
			})
		}
	}
	return s, true
}

// GetOrCreate returns the session for id, creating a new one when id is
// unknown or expired. created reports whether a new session was made.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := m.Get(ctx, id); ok {
			return s, false
		}
	}
	return m.Create(ctx), true
}

// Delete ends a session.
func (m *Manager) Delete(id string) {
	m.cache.Delete(id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.cache.ItemCount()
}
