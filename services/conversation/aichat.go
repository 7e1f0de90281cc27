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

func (e *Engine) startAIChat(ctx context.Context, t *turn) string {
	t.sess.SetStep(models.StepAIChat)

	name := "there"
	if user := e.currentUser(ctx, t); user != nil {
		name = user.FirstName()
	}

	return fmt.Sprintf(`🤖 *AI Travel Assistant Activated!*

Hi %s! I can help you with:
🏔️ Finding perfect destinations based on your mood
🎯 Personalized recommendations
🌍 Local culture and customs information
🍽️ Food and activity suggestions
📍 Transportation and travel tips

*What would you like to know?*

Example questions:
- "I want a peaceful mountain retreat"
- "Show me pottery experiences in Rajasthan"
- "What's the best time to visit Kerala villages?"
- "I need a family-friendly farmstay"

Go ahead, ask me anything! 😊`, name)
}

func (e *Engine) handleAIChat(ctx context.Context, t *turn) string {
	lower := strings.ToLower(t.input)
	if lower == "menu" || lower == "back" {
		return e.returnToMenu(ctx, t)
	}

	answer, ok := e.Advisor.Advise(ctx, t.input)
	if !ok {
		return `Sorry, I'm having trouble processing that right now. Please try rephrasing your question or type "menu" to go back.`
	}

	return answer + e.relatedExperiences(ctx, t.input)
}

// relatedExperiences appends up to three listings matching the query's
// experience keywords. Empty when nothing matches.
func (e *Engine) relatedExperiences(ctx context.Context, query string) string {
	terms := intelligence.ExtractSearchTerms(strings.ToLower(query))
	if len(terms) == 0 {
		return ""
	}

	listings, err := e.Inventory.Search(strings.Join(terms, " "))
	if err != nil {
		utils.GetLogger().Error("relatedExperiences: search failed", zap.Error(err))
		return ""
	}
	if len(listings) == 0 {
		return ""
	}
	if len(listings) > 3 {
		listings = listings[:3]
	}

	var sb strings.Builder
	sb.WriteString("\n\n🏡 *Related Experiences:*\n\n")
	for i, l := range listings {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, l.Title)
		fmt.Fprintf(&sb, "   📍 %s - ₹%s/night\n\n", l.Location, amount(l.PricePerNight))
	}
	sb.WriteString(`Type "browse" to see all listings or continue asking questions!`)
	return sb.String()
}

// startListingQuestions enters AI chat primed with the selected listing.
func (e *Engine) startListingQuestions(ctx context.Context, t *turn) string {
	listing := t.sess.SelectedListing
	t.sess.SetStep(models.StepAIChat)
	t.sess.SelectedListing = listing

	return fmt.Sprintf(`🤖 *Ask me anything about this property!*

I'm asking about %s in %s. It's a %s that costs ₹%s per night.

I can help with:
- Local attractions and activities
- Transportation options
- What to pack and bring
- Local customs and culture
- Weather and best time to visit
- Food and dining options

What would you like to know? 😊`,
		listing.Title, listing.Location, listing.PropertyTypeLabel(), amount(listing.PricePerNight))
}
