package cron

import (
	"context"
	"fmt"
	"time"

	"villagestay/messaging"
	"villagestay/models"
	"villagestay/services/booking"
	"villagestay/services/session"
	"villagestay/utils"

	"go.uber.org/zap"
)

// Hooks bundles the scheduled maintenance entry points: the daily check-in
// reminder sweep and the hourly idle-session cleanup.
type Hooks struct {
	Sessions   session.Store
	Engine     booking.Engine
	Messenger  messaging.Messenger
	Clock      utils.Clock
	SessionTTL time.Duration
}

// RunDailyReminders messages every guest whose confirmed stay starts
// tomorrow. A failed send is logged and skipped; one unreachable guest must
// not starve the rest of the sweep.
func (h *Hooks) RunDailyReminders(ctx context.Context) error {
	tomorrow := h.Clock.Now().AddDate(0, 0, 1)
	from := utils.StartOfDay(tomorrow)
	to := utils.EndOfDay(tomorrow)

	bookings, err := h.Engine.UpcomingCheckIns(from, to)
	if err != nil {
		return fmt.Errorf("failed to fetch upcoming check-ins: %w", err)
	}

	sent := 0
	for _, b := range bookings {
		if b.TouristPhone == "" {
			continue
		}
		if err := h.Messenger.Send(ctx, b.TouristPhone, reminderText(b)); err != nil {
			utils.GetLogger().Error("RunDailyReminders: send failed",
				zap.String("reference", b.BookingReference),
				zap.String("to", b.TouristPhone), zap.Error(err))
			continue
		}
		sent++
	}

	utils.GetLogger().Info("booking reminders sent",
		zap.Int("sent", sent), zap.Int("due", len(bookings)))
	return nil
}

// EvictIdleSessions drops conversations idle past the session TTL.
func (h *Hooks) EvictIdleSessions(ctx context.Context) error {
	evicted, err := h.Sessions.EvictIdleOlderThan(ctx, h.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to evict idle sessions: %w", err)
	}
	if evicted > 0 {
		utils.GetLogger().Info("idle sessions evicted", zap.Int("count", evicted))
	}
	return nil
}

func reminderText(b models.Booking) string {
	return fmt.Sprintf(`🔔 *Booking Reminder*

Your village experience starts tomorrow!

🏡 *%s*, your booking is confirmed for tomorrow.

📋 *Details:*
- Check-in: %s
- Guests: %d
- Reference: %s

💡 *Remember to:*
- Carry valid government ID
- Arrive on time for check-in
- Respect local customs

Safe travels! 🙏`, b.GuestName, b.CheckIn.Format("02/01/2006"), b.Guests, b.BookingReference)
}
