package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"villagestay/models"
	"villagestay/utils"

	"go.uber.org/zap"
)

const bookingListLimit = 10

func (e *Engine) showUserBookings(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)
	if user == nil {
		return `❌ No account found. Please type "start" to create an account first.`
	}

	bookings, err := e.Bookings.ForTourist(user.ID, bookingListLimit)
	if err != nil {
		utils.GetLogger().Error("showUserBookings: query failed",
			zap.String("user", user.ID), zap.Error(err))
		return "Sorry, I couldn't fetch your bookings right now. Please try again."
	}

	if len(bookings) == 0 {
		return fmt.Sprintf(`📋 Hi %s! You don't have any bookings yet.

🏡 Ready to book your first rural experience?
Type "browse" to explore our listings!`, user.FullName)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *Your Bookings* (%s)\n\n", user.FullName)
	for i, b := range bookings {
		title := "Property"
		if listing, err := e.Inventory.Get(b.ListingID); err == nil && listing != nil {
			title = listing.Title
		}

		fmt.Fprintf(&sb, "*%d. %s*\n", i+1, title)
		fmt.Fprintf(&sb, "📅 %s - %s\n", fmtShortDate(b.CheckIn), fmtShortDate(b.CheckOut))
		fmt.Fprintf(&sb, "👥 %d guests\n", b.Guests)
		fmt.Fprintf(&sb, "💰 ₹%s\n", amount(b.TotalAmount))
		fmt.Fprintf(&sb, "📋 Ref: %s\n", b.BookingReference)
		fmt.Fprintf(&sb, "📊 Status: %s\n", b.Status)
		fmt.Fprintf(&sb, "💳 Payment: %s\n\n", b.PaymentStatus)
	}
	sb.WriteString(`Reply with a number to see booking details or type "menu" to go back.`)

	t.sess.SetStep(models.StepBookingDetails)
	t.sess.CurrentBookings = bookings
	return sb.String()
}

func (e *Engine) handleBookingDetails(ctx context.Context, t *turn) string {
	input := strings.ToLower(t.input)
	if input == "menu" {
		return e.returnToMenu(ctx, t)
	}

	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(t.sess.CurrentBookings) {
		return `Please select a valid number from the list or type "menu" to go back.`
	}
	return e.showDetailedBooking(ctx, t, t.sess.CurrentBookings[choice-1])
}

func (e *Engine) showDetailedBooking(ctx context.Context, t *turn, b models.Booking) string {
	listing, _ := e.Inventory.Get(b.ListingID)
	host, _ := e.Inventory.Host(b.HostID)

	title, location := "Property Details Unavailable", "N/A"
	if listing != nil {
		title, location = listing.Title, listing.Location
	}

	var sb strings.Builder
	sb.WriteString("📋 *Booking Details*\n\n")
	fmt.Fprintf(&sb, "🆔 *Reference:* %s\n", b.BookingReference)
	fmt.Fprintf(&sb, "🏡 *Property:* %s\n", title)
	fmt.Fprintf(&sb, "📍 *Location:* %s\n", location)
	fmt.Fprintf(&sb, "👤 *Guest:* %s\n\n", b.GuestName)
	fmt.Fprintf(&sb, "📅 *Check-in:* %s\n", fmtDate(b.CheckIn))
	fmt.Fprintf(&sb, "📅 *Check-out:* %s\n", fmtDate(b.CheckOut))
	fmt.Fprintf(&sb, "🌙 *Nights:* %d\n", b.Nights)
	fmt.Fprintf(&sb, "👥 *Guests:* %d\n\n", b.Guests)
	sb.WriteString("💰 *Pricing:*\n")
	fmt.Fprintf(&sb, "• Base Amount: ₹%s\n", amount(b.BaseAmount))
	fmt.Fprintf(&sb, "• Platform Fee: ₹%s\n", amount(b.PlatformFee))
	fmt.Fprintf(&sb, "• *Total: ₹%s*\n\n", amount(b.TotalAmount))
	fmt.Fprintf(&sb, "📊 *Status:* %s\n", b.Status)
	fmt.Fprintf(&sb, "💳 *Payment:* %s\n", b.PaymentStatus)
	if b.SpecialRequests != "" {
		fmt.Fprintf(&sb, "📝 *Special Requests:* %s\n", b.SpecialRequests)
	}
	if host != nil {
		fmt.Fprintf(&sb, "\n👤 *Host:* %s\n", host.FullName)
		if host.Phone != "" {
			fmt.Fprintf(&sb, "📞 *Host Phone:* %s\n", host.Phone)
		}
	}
	fmt.Fprintf(&sb, "\n📅 *Booked:* %s\n", fmtDate(b.CreatedAt))
	sb.WriteString("\n💡 *Need changes?* Contact our support team\nType \"menu\" to return to main menu")

	return sb.String()
}
