package conversation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"villagestay/models"
)

const (
	dateLayout      = "02/01/2006"
	shortDateLayout = "02/01/06"
	monthYearLayout = "Jan 2006"
	dayMonthLayout  = "02 Jan 2006"
)

func trimInput(body string) string {
	return strings.TrimSpace(body)
}

// amount renders a rupee figure without trailing zeros, matching how prices
// are stored.
func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtDate(t time.Time) string      { return t.Format(dateLayout) }
func fmtShortDate(t time.Time) string { return t.Format(shortDateLayout) }

// listingLines renders the numbered browse list.
func listingLines(listings []models.Listing) string {
	var sb strings.Builder
	for i, l := range listings {
		fmt.Fprintf(&sb, "*%d. %s*\n", i+1, l.Title)
		fmt.Fprintf(&sb, "📍 %s\n", l.Location)
		fmt.Fprintf(&sb, "💰 ₹%s/night\n", amount(l.PricePerNight))
		fmt.Fprintf(&sb, "🏠 %s\n", l.PropertyTypeLabel())
		fmt.Fprintf(&sb, "⭐ %s/5 (%d reviews)\n", amount(l.Rating), l.ReviewCount)
		fmt.Fprintf(&sb, "👥 Max %d guests\n\n", l.MaxGuests)
	}
	return sb.String()
}

func (e *Engine) helpText() string {
	return `🤔 I didn't understand that. Here's what you can do:

📱 *Quick Commands:*
- "start" - Main menu
- "browse" - View listings
- "my bookings" - Your bookings
- "help" - Show this help
- "contact" - Emergency support

Or just tell me what you're looking for in natural language!

Examples:
- "Show me peaceful mountain retreats"
- "I want to learn pottery"
- "Family-friendly farmstays near Delhi"`
}

// mainMenuText is the returning-user menu.
func mainMenuText(name string) string {
	return fmt.Sprintf(`🙏 *Welcome back, %s!*

Great to see you again! I'm here to help you discover authentic rural experiences across India.

🏡 *What would you like to do?*

1️⃣ *Browse Listings* - Explore rural homestays & experiences
2️⃣ *My Bookings* - Check your current bookings
3️⃣ *Ask AI Assistant* - Get personalized travel recommendations
4️⃣ *Account Settings* - Manage your account
5️⃣ *Emergency Contact* - Speak with our support team

Just reply with the number or describe what you're looking for!

_Example: "Show me pottery experiences" or "I want a peaceful retreat"_`, name)
}
