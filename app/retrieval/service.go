package retrieval

import (
	"context"
	"log/slog"

	"github.com/AP-047/hvac-assistant/model"
	"github.com/AP-047/hvac-assistant/store"
	"github.com/AP-047/hvac-assistant/types"
)

// Outcome tells the boundary layer why a result set is empty. Degradation
// (index down, embedding failure) and out-of-domain queries both resolve to
// empty results, never errors; NoMatches is the one condition worth
// surfacing distinctly.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeOutOfDomain
	OutcomeDegraded
	OutcomeNoMatches
)

// Service retrieves context chunks for a query: gate, health check, embed,
// search (transport fallback lives in the index client), normalize.
type Service struct {
	gate     *DomainGate
	embedder model.EmbedderInterface
	index    store.VectorIndex
	topK     int
	logger   *slog.Logger
}

func NewService(gate *DomainGate, embedder model.EmbedderInterface, index store.VectorIndex, topK int) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		gate:     gate,
		embedder: embedder,
		index:    index,
		topK:     topK,
		logger:   slog.Default(),
	}
}

func (s *Service) Retrieve(ctx context.Context, query string, topK int) ([]types.QueryResult, Outcome) {
	if topK <= 0 {
		topK = s.topK
	}

	if !s.gate.IsInDomain(query) {
		s.logger.Info("[RETRIEVAL] query rejected by domain gate")
		return nil, OutcomeOutOfDomain
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		s.logger.Warn("[RETRIEVAL] index unreachable", "error", err)
		return nil, OutcomeDegraded
	}
	if count == 0 {
		s.logger.Warn("[RETRIEVAL] index reports zero points")
		return nil, OutcomeDegraded
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("[RETRIEVAL] query embedding failed", "error", err)
		return nil, OutcomeDegraded
	}

	hits, err := s.index.Search(ctx, vector, topK)
	if err != nil {
		s.logger.Warn("[RETRIEVAL] search failed on both transports", "error", err)
		return nil, OutcomeDegraded
	}

	// Hits arrive in descending score order; keep that order, drop hits
	// without payload text.
	results := make([]types.QueryResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Payload.Text == "" {
			continue
		}
		results = append(results, types.QueryResult{
			Text:    hit.Payload.Text,
			Title:   hit.Payload.Title,
			URL:     hit.Payload.URL,
			ChunkID: hit.Payload.ChunkID,
			Score:   hit.Score,
		})
	}

	if len(results) == 0 {
		return nil, OutcomeNoMatches
	}
	return results, OutcomeOK
}
