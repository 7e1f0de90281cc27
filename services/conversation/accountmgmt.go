package conversation

import (
	"context"
	"fmt"
	"strings"

	"villagestay/models"
	"villagestay/utils"

	"go.uber.org/zap"
)

func (e *Engine) showAccountSettings(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)
	if user == nil {
		return `❌ No account found. Please type "start" to create an account first.`
	}

	locationLine := ""
	if user.Address != "" {
		locationLine = fmt.Sprintf("• Location: %s\n", user.Address)
	}

	reply := fmt.Sprintf(`👤 *Account Settings*

Hi %s! 👋

📊 *Your Account:*
- Name: %s
- Email: %s
- Phone: %s
- Password: Set and secured ✅
%s
📱 *WhatsApp:* Linked ✅
🗓️ *Member Since:* %s

*What would you like to do?*
1️⃣ Update profile information
2️⃣ Change password
3️⃣ View account activity
4️⃣ Website login help
5️⃣ Back to main menu

Reply with a number or type "menu" to go back.`,
		user.FullName, user.FullName, user.Email, user.Phone, locationLine,
		user.CreatedAt.Format(monthYearLayout))

	t.sess.SetStep(models.StepAccountManagement)
	return reply
}

func (e *Engine) handleAccountManagement(ctx context.Context, t *turn) string {
	input := strings.ToLower(t.input)

	switch {
	case input == "1" || strings.Contains(input, "update"):
		return e.showProfileOverview(ctx, t)
	case input == "2" || strings.Contains(input, "password"):
		return e.showPasswordReset(ctx, t)
	case input == "3" || strings.Contains(input, "activity"):
		return e.showAccountActivity(ctx, t)
	case input == "4" || strings.Contains(input, "website") || strings.Contains(input, "login"):
		return e.websiteLoginHelp(ctx, t)
	case input == "5" || input == "menu":
		return e.returnToMenu(ctx, t)
	default:
		return `Please select 1, 2, 3, 4, 5, or type "menu" to go back.`
	}
}

// showProfileOverview handles the update-profile option. Accounts still
// missing their email go straight into profile completion; complete accounts
// get a read-only view.
func (e *Engine) showProfileOverview(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)
	if user == nil {
		return `❌ No account found. Please type "start" to create an account first.`
	}

	if user.NeedsProfileCompletion {
		return e.startProfileCompletion(ctx, t)
	}

	location := user.Address
	if location == "" {
		location = "Not set"
	}
	return fmt.Sprintf(`✏️ *Profile Information*

👤 Name: %s
📧 Email: %s
📱 Phone: %s
📍 Location: %s

Profile changes are managed on the website:
1. Visit villagestay.com
2. Login with your email and password
3. Open your profile dashboard

Type "account" for account settings or "menu" to go back.`,
		user.FullName, user.Email, user.Phone, location)
}

func (e *Engine) showAccountActivity(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)
	if user == nil {
		return `❌ No account found. Please type "start" to create an account first.`
	}

	count, err := e.Bookings.CountForTourist(user.ID)
	if err != nil {
		utils.GetLogger().Error("showAccountActivity: count failed",
			zap.String("user", user.ID), zap.Error(err))
		return "❌ Sorry, couldn't fetch account activity."
	}
	recent, err := e.Bookings.ForTourist(user.ID, 3)
	if err != nil {
		utils.GetLogger().Error("showAccountActivity: recent query failed",
			zap.String("user", user.ID), zap.Error(err))
		return "❌ Sorry, couldn't fetch account activity."
	}

	linkedAt := user.CreatedAt
	if user.WhatsAppLinkedAt != nil {
		linkedAt = *user.WhatsAppLinkedAt
	}

	var sb strings.Builder
	sb.WriteString("📊 *Account Activity*\n\n")
	fmt.Fprintf(&sb, "👤 *%s*\n", user.FullName)
	fmt.Fprintf(&sb, "📅 *Member Since:* %s\n", user.CreatedAt.Format(dayMonthLayout))
	fmt.Fprintf(&sb, "📋 *Total Bookings:* %d\n", count)
	fmt.Fprintf(&sb, "📱 *WhatsApp Linked:* %s\n\n", linkedAt.Format(dayMonthLayout))

	if len(recent) > 0 {
		sb.WriteString("🔄 *Recent Bookings:*\n")
		for _, b := range recent {
			title := "Property"
			if listing, err := e.Inventory.Get(b.ListingID); err == nil && listing != nil {
				title = listing.Title
			}
			fmt.Fprintf(&sb, "• %s - %s\n", title, fmtShortDate(b.CreatedAt))
		}
	} else {
		sb.WriteString("🆕 *No bookings yet* - Ready for your first adventure?\n")
	}

	sb.WriteString("\nType \"my bookings\" to see all bookings\nType \"menu\" to return to main menu")
	return sb.String()
}

func (e *Engine) websiteLoginHelp(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)
	if user == nil {
		return `❌ No account found. Please type "start" to create an account first.`
	}

	return fmt.Sprintf(`🌐 *Website Access Help*

To access your account on our website:

🔗 *Website:* villagestay.com

📧 *Your Login Email:* %s

🔑 *Set Password:*
1. Go to villagestay.com
2. Click "Forgot Password"
3. Enter your email: %s
4. Check your email for password reset link
5. Create a secure password

✨ *Website Features:*
- Complete booking management
- Detailed booking history
- Profile customization
- Advanced search filters
- Host communication
- Reviews and ratings

💡 *Need help?* Contact support at %s

Type "menu" to return to main menu.`, user.Email, user.Email, e.AdminPhone)
}
