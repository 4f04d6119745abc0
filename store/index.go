package store

import "context"

// Payload is the metadata attached to every indexed vector.
type Payload struct {
	Text       string
	Title      string
	URL        string
	ChunkID    int
	SourceHash string
}

// Point is one vector to upsert. ID is a generated uuid, never derived from
// content; changed sources are represented by new points, not mutations.
type Point struct {
	ID      string
	Vector  []float32
	Payload Payload
}

// Hit is one ranked search result as returned by the index.
type Hit struct {
	Score   float64
	Payload Payload
}

// VectorIndex is the index collaborator contract shared by the loader and
// the query path. Only the loader writes; the query path reads.
type VectorIndex interface {
	// EnsureCollection creates the collection if missing. A conflict on
	// creation counts as success; an existing collection is never recreated.
	EnsureCollection(ctx context.Context, dim int) error
	Upsert(ctx context.Context, points []Point) error
	// Search returns up to limit hits in descending score order. The
	// implementation may fall back to a secondary transport on failure.
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)
	Count(ctx context.Context) (uint64, error)
	Close() error
}
