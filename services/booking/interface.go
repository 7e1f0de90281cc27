package booking

import (
	"errors"
	"time"

	"villagestay/models"
)

var (
	// ErrInvalidDateFormat signals input that does not parse as DD/MM/YYYY.
	ErrInvalidDateFormat = errors.New("invalid date format")
	// ErrCheckInTooSoon signals a check-in less than 24 hours away.
	ErrCheckInTooSoon = errors.New("check-in must be at least 24 hours from now")
	// ErrCheckOutNotAfter signals a check-out on or before check-in.
	ErrCheckOutNotAfter = errors.New("check-out must be after check-in")
	// ErrUnavailable signals the listing is booked over the requested dates.
	ErrUnavailable = errors.New("listing unavailable for the requested dates")
)

// Engine owns reservation validation, pricing and persistence.
type Engine interface {
	// ValidateCheckIn parses a DD/MM/YYYY check-in date and enforces the
	// 24-hour lead time.
	ValidateCheckIn(input string) (time.Time, error)
	// ValidateCheckOut parses a DD/MM/YYYY check-out date, enforces ordering
	// against check-in and returns the stay length in nights.
	ValidateCheckOut(input string, checkIn time.Time) (time.Time, int, error)
	// CheckAvailability reports whether the listing is free over the range.
	CheckAvailability(listingID string, checkIn, checkOut time.Time) bool
	// Quote computes the price breakdown for a stay.
	Quote(pricePerNight float64, nights int) models.Pricing
	// Commit re-checks availability and persists the reservation, returning
	// the stored booking with its unique reference.
	Commit(draft *models.BookingDraft, user *models.User, identity string) (*models.Booking, error)
	// ForTourist returns a tourist's bookings, newest first.
	ForTourist(touristID string, limit int) ([]models.Booking, error)
	// CountForTourist returns a tourist's total booking count.
	CountForTourist(touristID string) (int64, error)
	// UpcomingCheckIns returns confirmed bookings checking in inside the window.
	UpcomingCheckIns(from, to time.Time) ([]models.Booking, error)
}
