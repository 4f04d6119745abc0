package retrieval

import "github.com/AP-047/hvac-assistant/types"

// DomainGate is the pre-filter that rejects out-of-scope queries before any
// embedding or index work is spent. False negatives are an accepted
// limitation of the keyword heuristic.
type DomainGate struct {
	terms []string
}

func NewDomainGate() *DomainGate {
	return &DomainGate{terms: types.DomainTerms}
}

func (g *DomainGate) IsInDomain(query string) bool {
	return types.HasDomainTerm(query)
}
