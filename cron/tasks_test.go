package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"villagestay/models"
	"villagestay/services/booking"
	"villagestay/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeEngine struct {
	booking.Engine

	bookings []models.Booking
	from, to time.Time
}

func (e *fakeEngine) UpcomingCheckIns(from, to time.Time) ([]models.Booking, error) {
	e.from, e.to = from, to
	return e.bookings, nil
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent map[string]string
}

func (m *fakeMessenger) Send(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = make(map[string]string)
	}
	m.sent[to] = body
	return nil
}

func TestRunDailyReminders(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 8, 10, 9, 0, 0, 0, time.UTC)}
	engine := &fakeEngine{bookings: []models.Booking{
		{
			BookingReference: "VS202408051234",
			GuestName:        "Asha Patel",
			TouristPhone:     "919876543210@c.us",
			CheckIn:          time.Date(2024, 8, 11, 0, 0, 0, 0, time.UTC),
			Guests:           2,
			Status:           models.BookingStatusConfirmed,
		},
		// No channel identity on record; skipped, not fatal.
		{BookingReference: "VS202408059999", GuestName: "Ravi"},
	}}
	messenger := &fakeMessenger{}

	h := &Hooks{Engine: engine, Messenger: messenger, Clock: clock}
	require.NoError(t, h.RunDailyReminders(context.Background()))

	// The sweep covers exactly tomorrow's calendar day.
	assert.Equal(t, time.Date(2024, 8, 11, 0, 0, 0, 0, time.UTC), engine.from)
	assert.Equal(t, time.Date(2024, 8, 11, 0, 0, 0, 0, time.UTC).Add(24*time.Hour-time.Nanosecond), engine.to)

	require.Len(t, messenger.sent, 1)
	body := messenger.sent["919876543210@c.us"]
	assert.Contains(t, body, "Booking Reminder")
	assert.Contains(t, body, "Asha Patel")
	assert.Contains(t, body, "11/08/2024")
	assert.Contains(t, body, "VS202408051234")
}

func TestEvictIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 8, 10, 9, 0, 0, 0, time.UTC)}
	store := session.NewMemoryStore(clock)
	ctx := context.Background()

	_, err := store.GetOrCreate(ctx, "stale@c.us")
	require.NoError(t, err)

	clock.now = clock.now.Add(25 * time.Hour)
	_, err = store.GetOrCreate(ctx, "fresh@c.us")
	require.NoError(t, err)

	h := &Hooks{Sessions: store, Clock: clock, SessionTTL: 24 * time.Hour}
	require.NoError(t, h.EvictIdleSessions(ctx))
	assert.Equal(t, 1, store.Len())
}
