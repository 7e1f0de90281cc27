package session

import (
	"context"
	"testing"
	"time"

	"villagestay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestMemoryStoreGetOrCreate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(clock)
	ctx := context.Background()

	s, err := store.GetOrCreate(ctx, "919876543210@c.us")
	require.NoError(t, err)
	assert.Equal(t, models.StepGreeting, s.Step)
	assert.Equal(t, clock.now, s.LastActivityAt)

	s.Step = models.StepMainMenu
	require.NoError(t, store.Save(ctx, s))

	again, err := store.GetOrCreate(ctx, "919876543210@c.us")
	require.NoError(t, err)
	assert.Equal(t, models.StepMainMenu, again.Step)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreEvictIdleOlderThan(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(clock)
	ctx := context.Background()

	stale, err := store.GetOrCreate(ctx, "stale@c.us")
	require.NoError(t, err)

	clock.now = clock.now.Add(25 * time.Hour)
	fresh, err := store.GetOrCreate(ctx, "fresh@c.us")
	require.NoError(t, err)

	evicted, err := store.EvictIdleOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, store.Len())

	// The stale identity starts over; the fresh one keeps its state.
	replacement, err := store.GetOrCreate(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StepGreeting, replacement.Step)

	kept, err := store.GetOrCreate(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Same(t, fresh, kept)
}
