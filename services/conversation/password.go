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

func (e *Engine) showPasswordReset(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)
	if user == nil {
		return "❌ No account found. Please create an account first."
	}

	t.sess.SetStep(models.StepPasswordReset)
	return fmt.Sprintf(`🔐 *Password Reset*

Hi %s!

Your current account:
📧 Email: %s

*Choose an option:*

1️⃣ Change password now (via WhatsApp)
2️⃣ Send password reset email
3️⃣ Back to account menu

Reply with a number.`, user.FullName, user.Email)
}

func (e *Engine) handlePasswordReset(ctx context.Context, t *turn) string {
	switch t.input {
	case "1":
		t.sess.BeginPasswordChange()
		return `🔐 *Change Password*

For security, please enter your *current password*:

(This is the password you use to login to the website)`
	case "2":
		return e.passwordResetEmailText(ctx, t)
	case "3":
		return e.showAccountSettings(ctx, t)
	default:
		return "Please select 1, 2, or 3."
	}
}

// passwordResetEmailText points the user at the website reset flow.
func (e *Engine) passwordResetEmailText(ctx context.Context, t *turn) string {
	user := e.currentUser(ctx, t)
	if user == nil {
		return "❌ No account found. Please create an account first."
	}

	reply := fmt.Sprintf(`📧 *Password Reset Email*

Hi %s!

To reset your password via email:

1️⃣ Go to: villagestay.com
2️⃣ Click "Forgot Password"
3️⃣ Enter your email: %s
4️⃣ Check your email for reset link
5️⃣ Follow the instructions in the email

📱 *Or change it here:*
You can also change your password directly through WhatsApp by typing "change password"

💡 *Need help?* Contact support at %s

Type "menu" to return to main menu.`, user.FullName, user.Email, e.AdminPhone)

	t.sess.SetStep(models.StepMainMenu)
	return reply
}

func (e *Engine) handlePasswordCurrent(ctx context.Context, t *turn) string {
	if strings.EqualFold(t.input, "cancel") {
		return e.returnToMenu(ctx, t)
	}

	user := e.currentUser(ctx, t)
	if user == nil {
		t.sess.ToMainMenu()
		return "❌ No account found. Please create an account first."
	}

	if !e.Accounts.VerifyPassword(user, t.input) {
		return `❌ Current password is incorrect. Please try again or type "cancel" to stop.`
	}

	t.sess.Password.Current = t.input
	t.sess.SubStep = models.SubStepNew
	return `✅ Current password verified!

Now enter your *new password*:
(Minimum 6 characters, use letters and numbers)`
}

func (e *Engine) handlePasswordNew(ctx context.Context, t *turn) string {
	if len(t.input) < 6 {
		return "❌ Password must be at least 6 characters long. Please try again."
	}
	if account.IsWeakPassword(t.input) {
		return "❌ Please choose a stronger password."
	}

	t.sess.Password.New = t.input
	t.sess.SubStep = models.SubStepConfirm
	return `🔐 Confirm your new password:

*Re-enter your new password:*`
}

func (e *Engine) handlePasswordConfirm(ctx context.Context, t *turn) string {
	if t.input != t.sess.Password.New {
		t.sess.Password.New = ""
		t.sess.SubStep = models.SubStepNew
		return `❌ Passwords don't match. Please try again.

Enter your *new password* again:`
	}

	user := e.currentUser(ctx, t)
	if user == nil {
		t.sess.ToMainMenu()
		return "❌ No account found. Please create an account first."
	}

	if err := e.Accounts.ChangePassword(user, t.sess.Password.Current, t.input); err != nil {
		utils.GetLogger().Error("handlePasswordConfirm: change failed",
			zap.String("user", user.ID), zap.Error(err))
		return `❌ Sorry, failed to update your password. Please try again or type "cancel" to stop.`
	}

	reply := fmt.Sprintf(`🎉 *Password Changed Successfully!*

Your password has been updated securely.

🔐 *Updated Account Access:*
- Email: %s
- Password: (your new password)
- Website: villagestay.com

💡 *Security Tips:*
- Don't share your password
- Use this password for website login
- Keep it safe and secure

Type "menu" to return to main menu.`, user.Email)

	t.sess.ToMainMenu()
	return reply
}
