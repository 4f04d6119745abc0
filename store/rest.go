package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// restClient is the fallback search transport: a minimal JSON client to the
// Qdrant REST API over the same logical collection as the gRPC transport.
type restClient struct {
	baseURL    string
	collection string
	client     *http.Client
}

func newRestClient(baseURL, collection string, timeout time.Duration) *restClient {
	return &restClient{
		baseURL:    baseURL,
		collection: collection,
		client:     &http.Client{Timeout: timeout},
	}
}

type restSearchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type restSearchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

func (c *restClient) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	reqBody := restSearchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant REST search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant REST search failed: %s", resp.Status)
	}

	var parsed restSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]Hit, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		hits = append(hits, Hit{
			Score:   r.Score,
			Payload: payloadFromMap(r.Payload),
		})
	}
	return hits, nil
}

func payloadFromMap(m map[string]any) Payload {
	p := Payload{}
	if v, ok := m["text"].(string); ok {
		p.Text = v
	}
	if v, ok := m["title"].(string); ok {
		p.Title = v
	}
	if v, ok := m["url"].(string); ok {
		p.URL = v
	}
	if v, ok := m["chunk_id"].(float64); ok {
		p.ChunkID = int(v)
	}
	if v, ok := m["source_content_hash"].(string); ok {
		p.SourceHash = v
	}
	return p
}
