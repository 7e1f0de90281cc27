package conversation

import (
	"context"
	"fmt"
	"strings"

	"villagestay/models"
	"villagestay/services/account"
	"villagestay/utils"

	"go.uber.org/zap"
)

func (e *Engine) startProfileCompletion(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)
	if user == nil {
		return "❌ No account found. Please create a booking first."
	}

	if !user.NeedsProfileCompletion {
		return `✅ Your profile is already complete!

Type "account" to see details.`
	}

	t.sess.BeginProfile(models.StepProfileCompletion, models.SubStepEmail)
	return fmt.Sprintf(`👤 *Complete Your Profile*

Let's upgrade your account for the full VillageStay experience!

Current details:
📱 Phone: %s
👤 Name: %s

Please provide your *Email Address*:
(This will be your login for the website)`, user.Phone, user.FullName)
}

func (e *Engine) handleCompletionEmail(ctx context.Context, t *turn) string {
	if !account.IsValidEmail(t.input) {
		return "❌ Please enter a valid email address"
	}

	user := e.currentUser(ctx, t)
	existing, err := e.Accounts.FindByEmail(t.input)
	if err != nil {
		utils.GetLogger().Error("handleCompletionEmail: email lookup failed", zap.Error(err))
		return "❌ Sorry, something went wrong. Please try again."
	}
	if existing != nil && (user == nil || existing.ID != user.ID) {
		return fmt.Sprintf(`❌ Email %s is already registered.

Please try a different email.`, t.input)
	}

	t.sess.Profile.Email = t.input
	t.sess.SubStep = models.SubStepName
	return "*Your Full Name:*"
}

func (e *Engine) handleCompletionName(ctx context.Context, t *turn) string {
	if len(t.input) < 2 {
		return "❌ Please enter your full name (at least 2 characters)"
	}

	t.sess.Profile.FullName = t.input
	t.sess.SubStep = models.SubStepLocation
	return `*Your City/Location:* (Optional - helps with recommendations)

Type "skip" to skip this.`
}

func (e *Engine) handleCompletionLocation(ctx context.Context, t *turn) string {
	if !strings.EqualFold(t.input, "skip") {
		t.sess.Profile.Address = t.input
	}

	user := e.currentUser(ctx, t)
	if user == nil {
		t.sess.ToMainMenu()
		return "❌ Error finding your account. Please try again."
	}

	if err := e.Accounts.CompleteProfile(user, t.sess.Profile); err != nil {
		utils.GetLogger().Error("handleCompletionLocation: completion failed",
			zap.String("user", user.ID), zap.Error(err))
		return "❌ Sorry, failed to complete profile. Please try again."
	}

	locationLine := ""
	if user.Address != "" {
		locationLine = fmt.Sprintf("• Location: %s\n", user.Address)
	}

	reply := fmt.Sprintf(`🎉 *Profile Completed Successfully!*

✅ Your account has been upgraded!

👤 *Updated Details:*
- Name: %s
- Email: %s
- Phone: %s
%s
🔗 *What's New:*
- Email confirmations for bookings
- Website access with login
- Complete booking history
- Personalized recommendations

💡 *Next Steps:*
1. Visit our website: villagestay.com
2. Use "Forgot Password" with your email
3. Set a secure password
4. Access your full dashboard

Type "my bookings" to see your updated bookings!`,
		user.FullName, user.Email, user.Phone, locationLine)

	t.sess.ToMainMenu()
	t.sess.User = user
	return reply
}
