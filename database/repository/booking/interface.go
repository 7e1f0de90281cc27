package bookingRepo

import (
	"time"

	"villagestay/models"
)

// BookingRepository defines booking persistence for the reservation engine.
type BookingRepository interface {
	// Insert persists a new booking as a single atomic write.
	Insert(b *models.Booking) error
	// HasOverlap reports whether any confirmed or pending booking for the
	// listing overlaps the [dayStart, dayEnd] window.
	HasOverlap(listingID string, dayStart, dayEnd time.Time) (bool, error)
	// GetByReference retrieves a booking by its reference code; nil when absent.
	GetByReference(ref string) (*models.Booking, error)
	// FindByTourist retrieves a tourist's bookings, newest first.
	FindByTourist(touristID string, limit int64) ([]models.Booking, error)
	// CountByTourist counts a tourist's bookings.
	CountByTourist(touristID string) (int64, error)
	// FindUpcomingCheckIns retrieves confirmed bookings checking in within
	// [from, to].
	FindUpcomingCheckIns(from, to time.Time) ([]models.Booking, error)
	// ReparentByPhone attaches bookings recorded under a bare channel
	// identity to a user, returning the number updated.
	ReparentByPhone(touristPhone, touristID string) (int64, error)
	// UpdateGuestDetails refreshes the guest snapshot on a tourist's bookings.
	UpdateGuestDetails(touristID, name, email string) error
}
