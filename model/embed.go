package model

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AP-047/hvac-assistant/types"
)

// EmbedderInterface is the embedding collaborator boundary: text in, one
// fixed-length vector out. Safe for concurrent use.
type EmbedderInterface interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Embedder wraps the Ollama embedder behind the collaborator interface.
type Embedder struct {
	ollama *OllamaEmbedder
}

func NewEmbedder(cfg types.EmbedConfig) *Embedder {
	slog.Info("[EMBEDDER] using Ollama embeddings", "model", cfg.Model, "url", cfg.URL)
	return &Embedder{
		ollama: NewOllamaEmbedder(cfg.URL, cfg.Model),
	}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.ollama.Embed(ctx, text)
}

// VerifyDimension embeds a probe string and compares against the configured
// dimensionality. A mismatch between ingestion-time and query-time vectors
// is fatal, so both binaries call this before serving.
func (e *Embedder) VerifyDimension(ctx context.Context, want int) error {
	vec, err := e.Embed(ctx, "dimension probe")
	if err != nil {
		return fmt.Errorf("embedding probe failed: %w", err)
	}
	if len(vec) != want {
		return fmt.Errorf("invalid configuration: embedding model returns %d dimensions, index expects %d", len(vec), want)
	}
	return nil
}
