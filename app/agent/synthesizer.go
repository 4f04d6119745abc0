package agent

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/AP-047/hvac-assistant/types"
)

const (
	keySentenceCount   = 3
	minContextChars    = 40
	maxSnippetChars    = 200
	defaultTokenBudget = 1024

	domainFallbackMessage = "I could not find a passage that answers this directly. The indexed references cover HVAC design topics such as load calculation, equipment selection, duct sizing and ventilation requirements. Try rephrasing the question with more specific terminology."
	outOfScopeMessage     = "This assistant answers questions about HVAC design: heating, cooling, ventilation, heat pumps, ductwork and related equipment. Your question appears to be outside that scope."
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]`)
var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// stopwords are excluded from overlap scoring so that query filler does not
// dominate the sentence ranking.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "of": {},
	"to": {}, "in": {}, "for": {}, "and": {}, "or": {}, "what": {}, "how": {},
	"do": {}, "does": {}, "i": {}, "on": {}, "with": {}, "it": {}, "be": {},
	"can": {}, "my": {}, "me": {},
}

// Synthesizer composes an answer from retrieved context. It is pure and
// deterministic: no randomness, no external calls at synthesis time, so it
// is unit-testable without mocking a model.
type Synthesizer struct {
	tokenBudget int
	enc         *tiktoken.Tiktoken
}

func NewSynthesizer(tokenBudget int) *Synthesizer {
	if tokenBudget <= 0 {
		tokenBudget = defaultTokenBudget
	}
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		// Budget enforcement degrades to a word count; synthesis itself
		// never depends on the encoder being available.
		slog.Warn("[AGENT] tiktoken unavailable, using word counts", "error", err)
		enc = nil
	}
	return &Synthesizer{tokenBudget: tokenBudget, enc: enc}
}

func (s *Synthesizer) Synthesize(results []types.QueryResult, query string) types.Answer {
	blob := s.buildContext(results)
	clean := CleanContext(blob)
	sentences := splitSentences(clean)
	key := topSentences(sentences, query, keySentenceCount)
	intent := ClassifyIntent(query)

	var body string
	switch {
	case usableContext(key):
		body = composeBody(intent, key)
	case types.HasDomainTerm(query):
		body = domainFallbackMessage
	default:
		body = outOfScopeMessage
	}

	return types.Answer{
		Body:    body,
		Sources: buildSources(results),
	}
}

// buildContext concatenates result texts in rank order until the token
// budget is exhausted. The first result is always admitted.
func (s *Synthesizer) buildContext(results []types.QueryResult) string {
	var parts []string
	total := 0
	for _, r := range results {
		n := s.countTokens(r.Text)
		if len(parts) > 0 && total+n > s.tokenBudget {
			break
		}
		parts = append(parts, r.Text)
		total += n
	}
	return strings.Join(parts, " ")
}

func (s *Synthesizer) countTokens(text string) int {
	if s.enc != nil {
		return len(s.enc.Encode(text, nil, nil))
	}
	return len(strings.Fields(text))
}

func splitSentences(text string) []string {
	raw := sentenceRe.FindAllString(text, -1)
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if t := strings.TrimSpace(s); t != "" {
			sentences = append(sentences, t)
		}
	}
	return sentences
}

// topSentences ranks sentences by query-token overlap plus a bonus for
// mentioning a domain term, and keeps the best few. Ties keep arrival order.
func topSentences(sentences []string, query string, limit int) []string {
	qtokens := contentTokens(query)

	type scored struct {
		text  string
		score int
	}
	ranked := make([]scored, 0, len(sentences))
	for _, sentence := range sentences {
		score := 0
		stokens := contentTokens(sentence)
		for tok := range qtokens {
			if _, ok := stokens[tok]; ok {
				score++
			}
		}
		if types.HasDomainTerm(sentence) {
			score += 2
		}
		if score > 0 {
			ranked = append(ranked, scored{sentence, score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.text
	}
	return out
}

func contentTokens(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, stop := stopwords[t]; stop {
			continue
		}
		m[t] = struct{}{}
	}
	return m
}

// usableContext decides whether the extracted sentences are worth building
// an answer from: enough substance, and at least one domain term.
func usableContext(key []string) bool {
	joined := strings.Join(key, " ")
	return len(joined) >= minContextChars && types.HasDomainTerm(joined)
}

func composeBody(intent Intent, key []string) string {
	var b strings.Builder
	switch intent {
	case IntentDefinition:
		b.WriteString("**Definition**\n")
		b.WriteString(key[0])
		b.WriteString("\n")
		if len(key) > 1 {
			b.WriteString("\n**Key points:**\n")
			for _, s := range key[1:] {
				b.WriteString("• " + s + "\n")
			}
		}
		b.WriteString("\nThis answer is drawn from the indexed HVAC design references.")

	case IntentHowTo:
		b.WriteString("**How to approach it:**\n")
		for i, s := range key {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
		b.WriteString("\nVerify the figures above against the manufacturer's documentation before finalizing a design.")

	case IntentRecommendation:
		b.WriteString("**Recommendation**\n")
		b.WriteString(key[0])
		b.WriteString("\n")
		if len(key) > 1 {
			b.WriteString("\n**Supporting guidance:**\n")
			for _, s := range key[1:] {
				b.WriteString("• " + s + "\n")
			}
		}
		b.WriteString("\nWeigh site conditions and local codes before committing to equipment.")

	default:
		b.WriteString("**From the HVAC references:**\n")
		for _, s := range key {
			b.WriteString(s + "\n")
		}
	}
	return b.String()
}

// buildSources cites only results that carry text; each gets a truncated
// one-line preview.
func buildSources(results []types.QueryResult) []types.Source {
	sources := make([]types.Source, 0, len(results))
	for _, r := range results {
		if r.Text == "" {
			continue
		}
		sources = append(sources, types.Source{
			Title:   r.Title,
			URL:     r.URL,
			ChunkID: r.ChunkID,
			Snippet: snippet(r.Text),
		})
	}
	return sources
}

func snippet(text string) string {
	oneLine := strings.Join(strings.Fields(text), " ")
	runes := []rune(oneLine)
	if len(runes) <= maxSnippetChars {
		return oneLine
	}
	return string(runes[:maxSnippetChars]) + "..."
}
