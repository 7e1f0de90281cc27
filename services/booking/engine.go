package booking

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	bookingRepo "villagestay/database/repository/booking"
	"villagestay/models"
	"villagestay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout = "02/01/2006"

	platformFeeRate           = 0.05
	communityContributionRate = 0.02

	minCheckInLead = 24 * time.Hour

	// Attempts before giving up on generating an unused booking reference.
	maxReferenceAttempts = 5
)

// DefaultBookingEngine implements Engine over the booking repository.
type DefaultBookingEngine struct {
	Repo  bookingRepo.BookingRepository
	Clock utils.Clock
}

// ValidateCheckIn parses a DD/MM/YYYY date and enforces the 24-hour lead time.
func (e *DefaultBookingEngine) ValidateCheckIn(input string) (time.Time, error) {
	date, err := time.Parse(dateLayout, input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	if !date.After(e.Clock.Now().Add(minCheckInLead)) {
		return time.Time{}, ErrCheckInTooSoon
	}
	return date, nil
}

// ValidateCheckOut parses a DD/MM/YYYY date, enforces ordering against
// check-in and returns the stay length in nights.
func (e *DefaultBookingEngine) ValidateCheckOut(input string, checkIn time.Time) (time.Time, int, error) {
	date, err := time.Parse(dateLayout, input)
	if err != nil {
		return time.Time{}, 0, ErrInvalidDateFormat
	}
	if !date.After(checkIn) {
		return time.Time{}, 0, ErrCheckOutNotAfter
	}
	return date, utils.DaysBetween(checkIn, date), nil
}

// CheckAvailability probes for overlapping confirmed or pending bookings.
// A probe failure reports the listing as available so a transient database
// error never blocks a sale; Commit re-checks before persisting.
func (e *DefaultBookingEngine) CheckAvailability(listingID string, checkIn, checkOut time.Time) bool {
	overlap, err := e.Repo.HasOverlap(listingID, utils.StartOfDay(checkIn), utils.EndOfDay(checkOut))
	if err != nil {
		utils.GetLogger().Error("CheckAvailability: overlap probe failed",
			zap.String("listing", listingID), zap.Error(err))
		return true
	}
	return !overlap
}

// Quote computes the price breakdown for a stay. The platform fee and the
// community contribution are each rounded from the base amount before the
// total and host earnings are derived.
func (e *DefaultBookingEngine) Quote(pricePerNight float64, nights int) models.Pricing {
	base := pricePerNight * float64(nights)
	fee := math.Round(base * platformFeeRate)
	contribution := math.Round(base * communityContributionRate)
	return models.Pricing{
		BaseAmount:            base,
		PlatformFee:           fee,
		CommunityContribution: contribution,
		HostEarnings:          base - fee - contribution,
		TotalAmount:           base + fee,
	}
}

// newReference generates a reference unused by any stored booking. The
// collection also carries a unique index on booking_reference, so a race
// between two commits surfaces as an insert error rather than a duplicate.
func (e *DefaultBookingEngine) newReference() (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref := fmt.Sprintf("VS%s%04d", e.Clock.Now().Format("20060102"), rand.Intn(10000))
		existing, err := e.Repo.GetByReference(ref)
		if err != nil {
			return "", fmt.Errorf("failed to probe booking reference: %w", err)
		}
		if existing == nil {
			return ref, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique booking reference after %d attempts", maxReferenceAttempts)
}

// Commit re-checks availability and persists the reservation. The user may be
// nil for anonymous guests; their bookings carry only the channel identity
// until an account links and re-parents them.
func (e *DefaultBookingEngine) Commit(draft *models.BookingDraft, user *models.User, identity string) (*models.Booking, error) {
	overlap, err := e.Repo.HasOverlap(draft.ListingID, utils.StartOfDay(draft.CheckIn), utils.EndOfDay(draft.CheckOut))
	if err != nil {
		utils.GetLogger().Error("Commit: availability re-check failed",
			zap.String("listing", draft.ListingID), zap.Error(err))
	} else if overlap {
		return nil, ErrUnavailable
	}

	ref, err := e.newReference()
	if err != nil {
		return nil, err
	}

	now := e.Clock.Now()
	b := &models.Booking{
		ID:               uuid.New().String(),
		ListingID:        draft.ListingID,
		HostID:           draft.HostID,
		CheckIn:          draft.CheckIn,
		CheckOut:         draft.CheckOut,
		Nights:           draft.Nights,
		Guests:           draft.Guests,
		Pricing:          draft.Pricing,
		SpecialRequests:  draft.SpecialRequests,
		BookingReference: ref,
		Status:           models.BookingStatusConfirmed,
		PaymentStatus:    models.PaymentStatusPending,
		TouristPhone:     identity,
		GuestPhone:       identity,
		BookingSource:    models.BookingSourceWhatsApp,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if user != nil {
		b.TouristID = user.ID
		b.GuestName = user.FullName
		b.GuestEmail = user.Email
	}

	if err := e.Repo.Insert(b); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	utils.GetLogger().Info("booking committed",
		zap.String("reference", ref),
		zap.String("listing", draft.ListingID),
		zap.Float64("total", b.TotalAmount))
	return b, nil
}

// ForTourist returns a tourist's bookings, newest first.
func (e *DefaultBookingEngine) ForTourist(touristID string, limit int) ([]models.Booking, error) {
	return e.Repo.FindByTourist(touristID, int64(limit))
}

// CountForTourist returns a tourist's total booking count.
func (e *DefaultBookingEngine) CountForTourist(touristID string) (int64, error) {
	return e.Repo.CountByTourist(touristID)
}

// UpcomingCheckIns returns confirmed bookings checking in inside the window.
func (e *DefaultBookingEngine) UpcomingCheckIns(from, to time.Time) ([]models.Booking, error) {
	return e.Repo.FindUpcomingCheckIns(from, to)
}
