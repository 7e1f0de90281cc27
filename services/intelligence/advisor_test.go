package intelligence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (g fakeGenerator) GenerateContent(context.Context, string) (string, error) {
	return g.reply, g.err
}

func TestAdviseDegradesOnFailure(t *testing.T) {
	a := &DefaultAdvisor{Model: fakeGenerator{err: errors.New("quota exceeded")}}
	_, ok := a.Advise(context.Background(), "peaceful retreat")
	assert.False(t, ok)
}

func TestAdviseTrimsReply(t *testing.T) {
	a := &DefaultAdvisor{Model: fakeGenerator{reply: "  Visit Khurja for pottery.\n"}}
	reply, ok := a.Advise(context.Background(), "pottery")
	assert.True(t, ok)
	assert.Equal(t, "Visit Khurja for pottery.", reply)
}

func TestExtractSearchTerms(t *testing.T) {
	assert.Equal(t, []string{"pottery", "rajasthan"},
		ExtractSearchTerms("show me POTTERY workshops in Rajasthan"))
	assert.Equal(t, []string{"organic", "village", "kerala", "cooking"},
		ExtractSearchTerms("organic cooking classes in a kerala village"))
	assert.Empty(t, ExtractSearchTerms("what should I pack"))
}
