package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"villagestay/models"
	"villagestay/services/booking"
	"villagestay/utils"

	"go.uber.org/zap"
)

func (e *Engine) startBookingFlow(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)
	if user == nil {
		return `❌ Account not found. Please type "start" to create an account first.`
	}

	t.sess.BeginBooking(*t.sess.SelectedListing)
	return fmt.Sprintf(`📅 *Let's book %s!*

Hello %s! 👋

Please provide your *check-in date* in DD/MM/YYYY format.

Example: 15/08/2024

_Make sure to choose a date at least 2 days from today._`, t.sess.Booking.ListingTitle, user.FullName)
}

func (e *Engine) handleCheckInDate(ctx context.Context, t *turn) string {
	date, err := e.Bookings.ValidateCheckIn(t.input)
	if err != nil {
		if errors.Is(err, booking.ErrCheckInTooSoon) {
			return "❌ Check-in date must be at least tomorrow. Please choose a later date."
		}
		return "❌ Please enter a valid date in DD/MM/YYYY format (e.g., 15/08/2024)"
	}

	if !e.Bookings.CheckAvailability(t.sess.Booking.ListingID, date, date) {
		return "❌ This date is not available. Please choose another date."
	}

	t.sess.Booking.CheckIn = date
	t.sess.SubStep = models.SubStepCheckOut
	return fmt.Sprintf(`✅ Check-in: %s

Now, please provide your *check-out date* in DD/MM/YYYY format.`, fmtDate(date))
}

func (e *Engine) handleCheckOutDate(ctx context.Context, t *turn) string {
	date, nights, err := e.Bookings.ValidateCheckOut(t.input, t.sess.Booking.CheckIn)
	if err != nil {
		if errors.Is(err, booking.ErrCheckOutNotAfter) {
			return "❌ Check-out date must be after check-in date. Please choose a later date."
		}
		return "❌ Please enter a valid date in DD/MM/YYYY format (e.g., 17/08/2024)"
	}

	t.sess.Booking.CheckOut = date
	t.sess.Booking.Nights = nights
	t.sess.SubStep = models.SubStepGuests
	return fmt.Sprintf(`✅ Check-out: %s
📅 Total nights: %d

How many guests will be staying? (Maximum %d guests allowed)`, fmtDate(date), nights, t.sess.Booking.MaxGuests)
}

func (e *Engine) handleGuestCount(ctx context.Context, t *turn) string {
	guests, err := strconv.Atoi(t.input)
	if err != nil || guests < 1 {
		return "❌ Please enter a valid number of guests (minimum 1)"
	}
	if guests > t.sess.Booking.MaxGuests {
		return fmt.Sprintf("❌ Maximum %d guests allowed for this property.", t.sess.Booking.MaxGuests)
	}

	t.sess.Booking.Guests = guests
	t.sess.SubStep = models.SubStepSpecialRequests
	return fmt.Sprintf(`✅ Guests: %d

Do you have any special requests or requirements for your stay?

Type "none" if you don't have any special requests.`, guests)
}

func (e *Engine) handleSpecialRequests(ctx context.Context, t *turn) string {
	if !strings.EqualFold(t.input, "none") {
		t.sess.Booking.SpecialRequests = t.input
	}

	draft := t.sess.Booking
	draft.Pricing = e.Bookings.Quote(draft.PricePerNight, draft.Nights)

	user := e.currentUser(ctx, t)
	if user == nil {
		t.sess.ToMainMenu()
		return `❌ Account not found. Please type "start" to create an account first.`
	}

	var sb strings.Builder
	sb.WriteString("📋 *Booking Summary*\n\n")
	fmt.Fprintf(&sb, "🏡 *Property:* %s\n", draft.ListingTitle)
	fmt.Fprintf(&sb, "👤 *Guest:* %s\n", user.FullName)
	fmt.Fprintf(&sb, "📧 *Email:* %s\n", user.Email)
	fmt.Fprintf(&sb, "📱 *Phone:* %s\n\n", user.Phone)
	fmt.Fprintf(&sb, "📅 *Check-in:* %s\n", fmtDate(draft.CheckIn))
	fmt.Fprintf(&sb, "📅 *Check-out:* %s\n", fmtDate(draft.CheckOut))
	fmt.Fprintf(&sb, "🌙 *Nights:* %d\n", draft.Nights)
	fmt.Fprintf(&sb, "👥 *Guests:* %d\n\n", draft.Guests)
	sb.WriteString("💰 *Pricing Breakdown:*\n")
	fmt.Fprintf(&sb, "- Base Amount: ₹%s\n", amount(draft.Pricing.BaseAmount))
	fmt.Fprintf(&sb, "- Platform Fee: ₹%s\n", amount(draft.Pricing.PlatformFee))
	fmt.Fprintf(&sb, "- *Total Amount: ₹%s*\n\n", amount(draft.Pricing.TotalAmount))
	if draft.SpecialRequests != "" {
		fmt.Fprintf(&sb, "📝 *Special Requests:* %s\n\n", draft.SpecialRequests)
	}
	sb.WriteString("*Confirm your booking?*\n")
	sb.WriteString("✅ Type \"confirm\" to proceed\n")
	sb.WriteString("❌ Type \"cancel\" to cancel")

	t.sess.SubStep = models.SubStepConfirmation
	return sb.String()
}

func (e *Engine) handleBookingConfirmation(ctx context.Context, t *turn) string {
	switch strings.ToLower(t.input) {
	case "confirm":
		return e.createBooking(ctx, t)
	case "cancel":
		t.sess.ToMainMenu()
		return `❌ Booking cancelled. Type "start" to begin again.`
	default:
		return `Please reply with "confirm" or "cancel".`
	}
}

func (e *Engine) createBooking(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)

	b, err := e.Bookings.Commit(t.sess.Booking, user, t.identity)
	if err != nil {
		if errors.Is(err, booking.ErrUnavailable) {
			t.sess.SubStep = models.SubStepCheckIn
			return "❌ Those dates are no longer available. Please provide a new *check-in date* in DD/MM/YYYY format."
		}
		utils.GetLogger().Error("createBooking: commit failed",
			zap.String("identity", t.identity), zap.Error(err))
		return "❌ Sorry, there was an error creating your booking. Please try again or contact support."
	}

	shortID := b.ID
	if len(shortID) > 8 {
		shortID = shortID[len(shortID)-8:]
	}

	reply := fmt.Sprintf(`🎉 *Booking Confirmed!*

📋 *Booking Reference:* %s
🆔 *Booking ID:* %s

✅ Your booking has been successfully confirmed!

📧 *Next Steps:*
1. You'll receive a confirmation email at %s
2. The host will contact you within 24 hours
3. Payment can be made directly to the host or through our platform

💡 *Your Account:*
- All booking details saved to your account
- Access online at villagestay.com
- Use email: %s

*Need help?* Type "help" anytime
*View all bookings?* Type "my bookings"

Thank you for choosing VillageStay! 🙏

Safe travels and enjoy your authentic rural experience! 🌟`,
		b.BookingReference, shortID, b.GuestEmail, b.GuestEmail)

	t.sess.ToMainMenu()
	return reply
}
