package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AP-047/hvac-assistant/types"
)

// newTestSynthesizer avoids NewSynthesizer so tests never touch the
// tiktoken download path; the word-count fallback is deterministic.
func newTestSynthesizer() *Synthesizer {
	return &Synthesizer{tokenBudget: defaultTokenBudget}
}

func hvacResults() []types.QueryResult {
	return []types.QueryResult{
		{
			Text:    "A heat pump is a device that transfers heat from a cold space to a warm space using the refrigeration cycle. Heat pumps can provide both heating and cooling from a single unit.",
			Title:   "Heat Pump Basics",
			URL:     "https://example.com/basics",
			ChunkID: 2,
			Score:   0.9,
		},
		{
			Text:    "Proper sizing requires a load calculation for the conditioned space. Oversized equipment short cycles and dehumidifies poorly.",
			Title:   "Sizing Guide",
			ChunkID: 7,
			Score:   0.7,
		},
	}
}

func TestClassifyIntentPriorityOrder(t *testing.T) {
	tests := []struct {
		query string
		want  Intent
	}{
		{"what is a heat pump", IntentDefinition},
		{"explain static pressure", IntentDefinition},
		{"how to size ductwork", IntentHowTo},
		{"how do I balance airflow", IntentHowTo},
		{"which refrigerant is best for retrofits", IntentRecommendation},
		{"ground source vs air source", IntentRecommendation},
		{"heat pump noise levels", IntentGeneral},
		// definition cue wins even when a how-to cue is also present
		{"what is the procedure for charging refrigerant", IntentDefinition},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyIntent(tt.query), "query: %q", tt.query)
	}
}

func TestSynthesizeEmptyResultsInDomainFallsBack(t *testing.T) {
	answer := newTestSynthesizer().Synthesize(nil, "how do I size a heat pump")

	assert.Equal(t, domainFallbackMessage, answer.Body)
	assert.NotEmpty(t, answer.Body)
	assert.Empty(t, answer.Sources)
}

func TestSynthesizeOutOfScopeQuery(t *testing.T) {
	answer := newTestSynthesizer().Synthesize(nil, "what is the capital of France")

	assert.Equal(t, outOfScopeMessage, answer.Body)
	assert.Empty(t, answer.Sources)
}

func TestSynthesizeDefinitionUsesContext(t *testing.T) {
	answer := newTestSynthesizer().Synthesize(hvacResults(), "what is a heat pump")

	assert.True(t, strings.HasPrefix(answer.Body, "**Definition**"))
	assert.Contains(t, answer.Body, "heat pump")
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "Heat Pump Basics", answer.Sources[0].Title)
	assert.Equal(t, 2, answer.Sources[0].ChunkID)
	assert.Equal(t, "https://example.com/basics", answer.Sources[0].URL)
}

func TestSynthesizeHowToNumbersSteps(t *testing.T) {
	answer := newTestSynthesizer().Synthesize(hvacResults(), "how do I size a heat pump for a house")

	assert.True(t, strings.HasPrefix(answer.Body, "**How to approach it:**"))
	assert.Contains(t, answer.Body, "1. ")
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	s := newTestSynthesizer()
	a := s.Synthesize(hvacResults(), "what is a heat pump")
	b := s.Synthesize(hvacResults(), "what is a heat pump")

	assert.Equal(t, a, b)
}

func TestSourcesSkipEmptyTextAndTruncateSnippets(t *testing.T) {
	long := strings.Repeat("duct sizing guidance line\n", 20)
	results := []types.QueryResult{
		{Text: long, Title: "Ducts", ChunkID: 1, Score: 0.8},
		{Text: "", Title: "Empty", ChunkID: 2, Score: 0.5},
	}

	answer := newTestSynthesizer().Synthesize(results, "how to size duct")

	require.Len(t, answer.Sources, 1)
	snippet := answer.Sources[0].Snippet
	assert.NotContains(t, snippet, "\n")
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.LessOrEqual(t, len([]rune(snippet)), maxSnippetChars+3)
}

func TestBuildContextHonorsTokenBudget(t *testing.T) {
	s := &Synthesizer{tokenBudget: 10}
	results := []types.QueryResult{
		{Text: strings.Repeat("heating ", 8)},  // 8 words
		{Text: strings.Repeat("cooling ", 8)},  // would exceed the budget
		{Text: strings.Repeat("airflow ", 80)}, // never reached
	}

	blob := s.buildContext(results)

	assert.Contains(t, blob, "heating")
	assert.NotContains(t, blob, "cooling")
}

func TestBuildContextAlwaysAdmitsFirstResult(t *testing.T) {
	s := &Synthesizer{tokenBudget: 2}

	blob := s.buildContext([]types.QueryResult{{Text: strings.Repeat("heating ", 50)}})

	assert.NotEmpty(t, blob)
}
