package conversation

import (
	"context"
	"fmt"
	"strings"

	"villagestay/models"
	"villagestay/utils"

	"go.uber.org/zap"
)

var greetingKeywords = []string{"hi", "hello", "start", "book", "help", "namaste"}

func (e *Engine) handleGreeting(ctx context.Context, t *turn) string {
	lower := strings.ToLower(t.input)

	greeted := false
	for _, keyword := range greetingKeywords {
		if strings.Contains(lower, keyword) {
			greeted = true
			break
		}
	}
	if !greeted {
		return fmt.Sprintf(`👋 Hello! I'm the %s. Type "start" to begin exploring authentic rural experiences!`, e.BotName)
	}

	user := e.currentUser(ctx, t)
	if user == nil {
		t.sess.BeginProfile(models.StepNewUserProfile, models.SubStepName)
		return fmt.Sprintf(`🙏 *Welcome to %s!*

I see you're new here! I'll help you discover authentic rural experiences across India.

To get started, I need a few quick details:

*What's your full name?*`, e.BotName)
	}

	t.sess.ToMainMenu()
	t.sess.User = user
	return mainMenuText(user.FullName)
}

// currentUser resolves the session's account, caching the lookup on the
// session. Nil means the identity has no account yet.
func (e *Engine) currentUser(ctx context.Context, t *turn) *models.User {
	if t.sess.User != nil {
		return t.sess.User
	}
	user, err := e.Accounts.Authenticate(t.identity)
	if err != nil {
		utils.GetLogger().Error("currentUser: account lookup failed",
			zap.String("identity", t.identity), zap.Error(err))
		return nil
	}
	t.sess.User = user
	return user
}

// returnToMenu resets flow state and shows the appropriate menu.
func (e *Engine) returnToMenu(ctx context.Context, t *turn) string {
	t.sess.ToMainMenu()
	if user := e.currentUser(ctx, t); user != nil {
		return mainMenuText(user.FullName)
	}
	t.sess.SetStep(models.StepGreeting)
	return fmt.Sprintf(`👋 Hello! I'm the %s. Type "start" to begin exploring authentic rural experiences!`, e.BotName)
}
