package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/AP-047/hvac-assistant/types"
)

// QdrantStore talks to one logical Qdrant endpoint over gRPC, with a REST
// fallback for search. Both transports carry their own bounded timeout.
type QdrantStore struct {
	grpc       *qdrant.Client
	rest       *restClient
	collection string
	timeout    time.Duration
	logger     *slog.Logger
}

func NewQdrantStore(cfg types.IndexConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.GRPCPort,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant grpc client: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &QdrantStore{
		grpc:       client,
		rest:       newRestClient(cfg.RestURL, cfg.Collection, timeout),
		collection: cfg.Collection,
		timeout:    timeout,
		logger:     slog.Default(),
	}, nil
}

func (s *QdrantStore) EnsureCollection(ctx context.Context, dim int) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.grpc.CollectionExists(ctx, s.collection)
	if err != nil {
		// Introspection failed; proceed optimistically. Deleting or
		// recreating here could destroy a healthy co-located index.
		s.logger.Warn("[INDEX] collection introspection failed, trying create", "error", err)
	} else if exists {
		return nil
	}

	err = s.grpc.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("create collection %s: %w", s.collection, err)
	}
	s.logger.Info("[INDEX] collection created", "collection", s.collection, "dim", dim)
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pts := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		pts[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":                p.Payload.Text,
				"title":               p.Payload.Title,
				"url":                 p.Payload.URL,
				"chunk_id":            int64(p.Payload.ChunkID),
				"source_content_hash": p.Payload.SourceHash,
			}),
		}
	}
	_, err := s.grpc.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         pts,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

// Search queries over gRPC first; on any transport failure it retries once
// over REST against the same collection. The fallback is sequential, never
// speculative.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	hits, err := s.searchGRPC(ctx, vector, limit)
	if err == nil {
		return hits, nil
	}
	s.logger.Warn("[INDEX] primary search transport failed, falling back to REST", "error", err)
	return s.rest.Search(ctx, vector, limit)
}

func (s *QdrantStore) searchGRPC(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	scored, err := s.grpc.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("grpc search: %w", err)
	}

	hits := make([]Hit, 0, len(scored))
	for _, p := range scored {
		hits = append(hits, Hit{
			Score:   float64(p.GetScore()),
			Payload: payloadFromValues(p.GetPayload()),
		})
	}
	return hits, nil
}

func (s *QdrantStore) Count(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.grpc.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return n, nil
}

func (s *QdrantStore) Close() error {
	return s.grpc.Close()
}

func payloadFromValues(values map[string]*qdrant.Value) Payload {
	p := Payload{}
	if v, ok := values["text"]; ok {
		p.Text = v.GetStringValue()
	}
	if v, ok := values["title"]; ok {
		p.Title = v.GetStringValue()
	}
	if v, ok := values["url"]; ok {
		p.URL = v.GetStringValue()
	}
	if v, ok := values["chunk_id"]; ok {
		p.ChunkID = int(v.GetIntegerValue())
	}
	if v, ok := values["source_content_hash"]; ok {
		p.SourceHash = v.GetStringValue()
	}
	return p
}
