package conversation

import (
	"context"
	"fmt"
	"strings"

	"villagestay/models"
	"villagestay/services/intelligence"
	"villagestay/utils"

	"go.uber.org/zap"
)

func (e *Engine) handleMainMenu(ctx context.Context, t *turn) string {
	choice := strings.ToLower(t.input)

	switch {
	case choice == "1" || strings.Contains(choice, "browse") || strings.Contains(choice, "listing"):
		return e.showListings(ctx, t, "")
	case choice == "2" || strings.Contains(choice, "booking"):
		return e.showUserBookings(ctx, t)
	case choice == "3" || strings.Contains(choice, "ai") || strings.Contains(choice, "assistant"):
		return e.startAIChat(ctx, t)
	case choice == "4" || strings.Contains(choice, "account"):
		return e.showAccountSettings(ctx, t)
	case choice == "5" || strings.Contains(choice, "emergency") || strings.Contains(choice, "contact"):
		return e.emergencyContactText()
	case strings.Contains(choice, "complete profile"):
		return e.startProfileCompletion(ctx, t)
	case strings.Contains(choice, "popular"):
		return e.showPopularExperiences(ctx, t)
	case strings.Contains(choice, "change password") || strings.Contains(choice, "reset password"):
		return e.showPasswordReset(ctx, t)
	default:
		return e.handleNaturalLanguageQuery(ctx, t)
	}
}

// handleNaturalLanguageQuery routes free text: booking intent and known
// experience keywords go to search, anything else to the AI assistant.
func (e *Engine) handleNaturalLanguageQuery(ctx context.Context, t *turn) string {
	query := strings.ToLower(t.input)

	if strings.Contains(query, "book") || strings.Contains(query, "reserve") {
		return e.showListings(ctx, t, "")
	}

	if terms := intelligence.ExtractSearchTerms(query); len(terms) > 0 {
		return e.showListings(ctx, t, strings.Join(terms, " "))
	}

	t.sess.SetStep(models.StepAIChat)
	return e.handleAIChat(ctx, t)
}

func (e *Engine) showPopularExperiences(ctx context.Context, t *turn) string {
	listings, err := e.Inventory.Popular()
	if err != nil {
		utils.GetLogger().Error("showPopularExperiences: query failed", zap.Error(err))
		return e.showListings(ctx, t, "")
	}
	if len(listings) == 0 {
		return e.showListings(ctx, t, "")
	}

	var sb strings.Builder
	sb.WriteString("🌟 *Popular Rural Experiences*\n\n")
	for i, l := range listings {
		fmt.Fprintf(&sb, "*%d. %s*\n", i+1, l.Title)
		fmt.Fprintf(&sb, "📍 %s\n", l.Location)
		fmt.Fprintf(&sb, "💰 ₹%s/night\n", amount(l.PricePerNight))
		fmt.Fprintf(&sb, "⭐ %s/5 (%d reviews)\n", amount(l.Rating), l.ReviewCount)
		fmt.Fprintf(&sb, "🏠 %s\n\n", l.PropertyTypeLabel())
	}
	fmt.Fprintf(&sb, "Reply with a number (1-%d) to see details, or:\n", len(listings))
	sb.WriteString("🔍 Type \"browse all\" to see more listings\n")
	sb.WriteString("🏠 Type \"menu\" to return to main menu")

	t.sess.SetStep(models.StepBrowseListings)
	t.sess.CurrentListings = listings
	return sb.String()
}

func (e *Engine) emergencyContactText() string {
	return fmt.Sprintf(`🆘 *Emergency Support*

*24/7 Emergency Helpline:*
📞 %s

*For urgent assistance:*
- Medical emergencies
- Safety concerns
- Booking issues
- Lost/stolen items
- Transportation problems

*Support Hours:*
📧 Email support: 9 AM - 9 PM
💬 WhatsApp: 24/7

We're here to help! 🙏

Type "menu" to return to main menu.`, e.AdminPhone)
}
