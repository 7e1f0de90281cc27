package session

import (
	"context"
	"time"

	"villagestay/models"
)

// Store holds one conversation-state record per channel identity. The
// dispatcher is the only writer: every inbound message runs a full
// load-mutate-save cycle under a per-identity lock, so implementations need
// no per-record locking of their own.
type Store interface {
	// GetOrCreate returns the session for an identity, creating the initial
	// greeting-state session if none exists.
	GetOrCreate(ctx context.Context, id string) (*models.Session, error)
	// Save persists the session after a handler ran.
	Save(ctx context.Context, s *models.Session) error
	// EvictIdleOlderThan removes sessions whose last activity is older than
	// maxIdle, returning the number evicted.
	EvictIdleOlderThan(ctx context.Context, maxIdle time.Duration) (int, error)
}
