package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"villagestay/models"
	"villagestay/services/account"
	"villagestay/utils"

	"go.uber.org/zap"
)

func (e *Engine) handleProfileName(ctx context.Context, t *turn) string {
	if len(t.input) < 2 {
		return "❌ Please enter your full name (at least 2 characters)"
	}

	t.sess.Profile.FullName = t.input
	t.sess.SubStep = models.SubStepEmail
	return fmt.Sprintf(`Nice to meet you, %s! 😊

*What's your email address?*
(This will be used for booking confirmations and website login)`, t.input)
}

func (e *Engine) handleProfileEmail(ctx context.Context, t *turn) string {
	if !account.IsValidEmail(t.input) {
		return "❌ Please enter a valid email address"
	}

	existing, err := e.Accounts.FindByEmail(t.input)
	if err != nil {
		utils.GetLogger().Error("handleProfileEmail: email lookup failed", zap.Error(err))
		return "❌ Sorry, something went wrong. Please try again."
	}
	if existing != nil {
		t.sess.Profile.ExistingEmail = t.input
		t.sess.SubStep = models.SubStepEmailConflict
		return fmt.Sprintf(`❌ An account with email %s already exists.

Would you like to link this WhatsApp to that existing account? Reply "yes" to link or provide a different email.`, t.input)
	}

	t.sess.Profile.Email = t.input
	t.sess.SubStep = models.SubStepPassword
	return fmt.Sprintf(`📧 Email saved: %s

Now, create a secure password for your account:

*Set your password:*
(Minimum 6 characters, use letters and numbers for security)

This password will be used to login on our website.`, t.input)
}

func (e *Engine) handleProfileEmailConflict(ctx context.Context, t *turn) string {
	if strings.EqualFold(t.input, "yes") {
		return e.linkExistingAccount(ctx, t, t.sess.Profile.ExistingEmail)
	}

	if !account.IsValidEmail(t.input) {
		return `Please reply "yes" to link existing account or provide a valid email address.`
	}

	existing, err := e.Accounts.FindByEmail(t.input)
	if err != nil {
		utils.GetLogger().Error("handleProfileEmailConflict: email lookup failed", zap.Error(err))
		return "❌ Sorry, something went wrong. Please try again."
	}
	if existing != nil {
		return fmt.Sprintf("❌ Email %s is also registered. Please provide a different email.", t.input)
	}

	t.sess.Profile.Email = t.input
	t.sess.SubStep = models.SubStepPassword
	return fmt.Sprintf(`📧 Email saved: %s

Now, create a secure password for your account:

*Set your password:*
(Minimum 6 characters, use letters and numbers for security)`, t.input)
}

func (e *Engine) handleProfilePassword(ctx context.Context, t *turn) string {
	if len(t.input) < 6 {
		return "❌ Password must be at least 6 characters long. Please try again."
	}
	if account.IsWeakPassword(t.input) {
		return `❌ Please choose a stronger password. Avoid common passwords like "password" or "123456".`
	}

	t.sess.Profile.Password = t.input
	t.sess.SubStep = models.SubStepLocation
	return `🔐 Password set successfully!

*Where are you located?* (City/State)
This helps us provide better recommendations.

Type "skip" if you prefer not to share.`
}

func (e *Engine) handleProfileLocation(ctx context.Context, t *turn) string {
	if !strings.EqualFold(t.input, "skip") {
		t.sess.Profile.Address = t.input
	}

	user, err := e.Accounts.Register(t.sess.Profile, t.identity)
	if err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			t.sess.SubStep = models.SubStepEmail
			return fmt.Sprintf("❌ Email %s is already registered. Please provide a different email.", t.sess.Profile.Email)
		}
		utils.GetLogger().Error("handleProfileLocation: account creation failed", zap.Error(err))
		return "❌ Sorry, failed to create account. Please try again."
	}

	locationLine := ""
	if user.Address != "" {
		locationLine = fmt.Sprintf("• Location: %s\n", user.Address)
	}

	reply := fmt.Sprintf(`🎉 *Account Created Successfully!*

Welcome to VillageStay, %s! ✨

👤 *Your Account:*
- Name: %s
- Email: %s
- Phone: %s
- Password: Set and secured ✅
%s
🔗 *Ready to Use:*
- Your account is fully set up
- You can now book rural experiences
- Login to website anytime with your email and password

🌐 *Website Access:*
- Visit: villagestay.com
- Email: %s
- Password: (the one you just created)

Now, let's find you an amazing rural experience! 🏡

*What would you like to do?*

1️⃣ *Browse Listings* - Explore rural homestays
2️⃣ *Ask AI Assistant* - Get personalized recommendations
3️⃣ *Popular Experiences* - See what's trending

Reply with a number or tell me what you're looking for!`,
		user.FullName, user.FullName, user.Email, user.Phone, locationLine, user.Email)

	t.sess.ToMainMenu()
	t.sess.User = user
	return reply
}

// linkExistingAccount attaches the channel identity to the account under
// email and lands the user on the menu.
func (e *Engine) linkExistingAccount(ctx context.Context, t *turn, email string) string {
	user, err := e.Accounts.LinkByEmail(t.identity, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			t.sess.SubStep = models.SubStepEmail
			return fmt.Sprintf(`❌ No account found with email: %s

Please provide a different email.`, email)
		}
		utils.GetLogger().Error("linkExistingAccount: linking failed",
			zap.String("identity", t.identity), zap.Error(err))
		return "❌ Sorry, failed to link account. Please try again."
	}

	phone := user.Phone
	if phone == "" {
		phone = "Updated from WhatsApp"
	}

	reply := fmt.Sprintf(`✅ *Account Successfully Linked!*

Welcome back, %s! 🎉

Your WhatsApp is now linked to your existing VillageStay account:
📧 Email: %s
📱 Phone: %s

🔗 *Benefits:*
- All your bookings in one place
- Email confirmations
- Website access
- Complete booking history

Any previous WhatsApp bookings have been linked to your account!

*Ready to explore?*

1️⃣ *Browse Listings* - Explore rural homestays
2️⃣ *My Bookings* - Check your bookings
3️⃣ *Ask AI Assistant* - Get recommendations

What would you like to do?`, user.FullName, user.Email, phone)

	t.sess.ToMainMenu()
	t.sess.User = user
	return reply
}
