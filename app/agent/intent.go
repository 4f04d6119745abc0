package agent

import "strings"

type Intent int

const (
	IntentGeneral Intent = iota
	IntentDefinition
	IntentHowTo
	IntentRecommendation
)

func (i Intent) String() string {
	switch i {
	case IntentDefinition:
		return "definition"
	case IntentHowTo:
		return "how-to"
	case IntentRecommendation:
		return "recommendation"
	default:
		return "general"
	}
}

type intentRule struct {
	intent Intent
	cues   []string
}

// intentRules are checked in order: definition cues win over how-to cues,
// which win over recommendation cues. Anything else is general.
var intentRules = []intentRule{
	{IntentDefinition, []string{"what is", "what are", "what does", "define", "definition", "meaning of", "explain"}},
	{IntentHowTo, []string{"how do", "how to", "how can", "how should", "install", "steps to", "procedure for"}},
	{IntentRecommendation, []string{"recommend", "best", "should i", "which is", "better", " vs ", "versus", "suggest"}},
}

// ClassifyIntent labels the raw query with the first matching rule.
func ClassifyIntent(query string) Intent {
	lower := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, cue := range rule.cues {
			if strings.Contains(lower, cue) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}
