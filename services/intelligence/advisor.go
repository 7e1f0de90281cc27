package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"villagestay/utils"

	"go.uber.org/zap"
)

const adviceTimeout = 20 * time.Second

// Generator produces free-text completions for a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Advisor answers open-ended travel questions.
type Advisor interface {
	// Advise returns a travel-advice reply for the query. The second return
	// reports whether the model answered; false means the caller should fall
	// back to a canned apology.
	Advise(ctx context.Context, query string) (string, bool)
}

// DefaultAdvisor implements Advisor over a generative model.
type DefaultAdvisor struct {
	Model Generator
}

func (a *DefaultAdvisor) Advise(ctx context.Context, query string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, adviceTimeout)
	defer cancel()

	reply, err := a.Model.GenerateContent(ctx, buildPrompt(query))
	if err != nil {
		utils.GetLogger().Error("Advise: model call failed", zap.Error(err))
		return "", false
	}
	return strings.TrimSpace(reply), true
}

func buildPrompt(query string) string {
	return fmt.Sprintf(`You are a helpful AI assistant for VillageStay, a platform that connects travelers with authentic rural experiences in India.

User Query: %q

Provide a helpful, warm, and informative response about rural tourism in India. Include:
1. Direct answer to their question
2. Specific recommendations when relevant
3. Cultural insights and local customs
4. Practical travel tips
5. Budget-friendly suggestions

Keep responses conversational, informative, and under 500 words. Focus on authentic rural experiences, sustainability, and cultural immersion.

If they ask about specific locations, mention real village names and unique experiences available there.
If they're looking for experiences, suggest activities like pottery making, organic farming, traditional cooking, etc.

Be enthusiastic about rural India's beauty and cultural richness!`, query)
}

// searchVocabulary is the fixed set of experience and region keywords that
// route a free-text message to listing search instead of the model.
var searchVocabulary = []string{
	"pottery", "farming", "organic", "traditional", "village",
	"mountain", "river", "forest", "heritage",
	"rajasthan", "kerala", "himachal", "uttarakhand", "gujarat", "maharashtra",
	"cooking", "yoga", "meditation",
}

// ExtractSearchTerms returns the vocabulary keywords present in the query,
// in vocabulary order.
func ExtractSearchTerms(query string) []string {
	lower := strings.ToLower(query)
	var terms []string
	for _, term := range searchVocabulary {
		if strings.Contains(lower, term) {
			terms = append(terms, term)
		}
	}
	return terms
}
