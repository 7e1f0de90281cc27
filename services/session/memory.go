package session

import (
	"context"
	"sync"
	"time"

	"villagestay/models"
	"villagestay/utils"
)

// MemoryStore is the default in-process Store for single-instance
// deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	clock    utils.Clock
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(clock utils.Clock) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		clock:    clock,
	}
}

// GetOrCreate returns the session for an identity, creating one if needed.
func (m *MemoryStore) GetOrCreate(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s := models.NewSession(id, m.clock.Now())
	m.sessions[id] = s
	return s, nil
}

// Save persists the session.
func (m *MemoryStore) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = s
	return nil
}

// EvictIdleOlderThan removes sessions idle beyond maxIdle.
func (m *MemoryStore) EvictIdleOlderThan(_ context.Context, maxIdle time.Duration) (int, error) {
	cutoff := m.clock.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if s.LastActivityAt.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted, nil
}

// Len reports the number of stored sessions (for monitoring).
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
