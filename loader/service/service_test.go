package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metastore "github.com/AP-047/hvac-assistant/loader/store"
	"github.com/AP-047/hvac-assistant/store"
	"github.com/AP-047/hvac-assistant/types"
)

type fakeIndex struct {
	ensured int
	upserts [][]store.Point
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, dim int) error {
	f.ensured++
	return nil
}

func (f *fakeIndex) Upsert(ctx context.Context, points []store.Point) error {
	f.upserts = append(f.upserts, points)
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, limit int) ([]store.Hit, error) {
	return nil, nil
}

func (f *fakeIndex) Count(ctx context.Context) (uint64, error) { return 0, nil }
func (f *fakeIndex) Close() error                              { return nil }

type fakeEmbedder struct {
	dim   int
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	vec := make([]float32, f.dim)
	vec[0] = 1
	return vec, nil
}

type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeExtractor) ExtractText(ctx context.Context, filePath string) (string, error) {
	name := filepath.Base(filePath)
	f.calls = append(f.calls, name)
	if err, ok := f.errs[name]; ok {
		return "", err
	}
	return f.texts[name], nil
}

func manyWords(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

type harness struct {
	dir       string
	cfg       types.LoaderConfig
	index     *fakeIndex
	embedder  *fakeEmbedder
	extractor *fakeExtractor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		dir: dir,
		cfg: types.LoaderConfig{
			SourceDir:    dir,
			MetadataPath: filepath.Join(dir, "meta.json"),
			ChunkSize:    500,
			ChunkOverlap: 50,
		},
		index:     &fakeIndex{},
		embedder:  &fakeEmbedder{dim: 8},
		extractor: &fakeExtractor{texts: map[string]string{}, errs: map[string]error{}},
	}
}

// service builds a fresh Service with fresh fakes so call counts only cover
// one run.
func (h *harness) service() *Service {
	h.index = &fakeIndex{}
	h.embedder = &fakeEmbedder{dim: 8}
	h.extractor = &fakeExtractor{texts: h.extractor.texts, errs: h.extractor.errs, calls: nil}
	return New(h.cfg, h.index, h.embedder, h.extractor, metastore.NewMetadataStore(h.cfg.MetadataPath), 8)
}

func (h *harness) writeSource(t *testing.T, name, content, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, name), []byte(content), 0644))
	h.extractor.texts[name] = text
}

func TestRunIngestsAndRecordsHash(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "guide.pdf", "pdf-bytes-v1", manyWords(1200))

	require.NoError(t, h.service().Run(context.Background()))

	// 1200 words, stride 450 -> 3 windows in one batch upsert
	require.Len(t, h.index.upserts, 1)
	assert.Len(t, h.index.upserts[0], 3)
	assert.Equal(t, 3, h.embedder.calls)

	point := h.index.upserts[0][0]
	assert.NotEmpty(t, point.ID)
	assert.Equal(t, "guide", point.Payload.Title)
	assert.Equal(t, 0, point.Payload.ChunkID)
	assert.NotEmpty(t, point.Payload.SourceHash)

	meta, err := metastore.NewMetadataStore(h.cfg.MetadataPath).Load()
	require.NoError(t, err)
	assert.Contains(t, meta, "guide.pdf")
}

func TestRerunOnUnchangedSourceDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "guide.pdf", "pdf-bytes-v1", manyWords(600))

	require.NoError(t, h.service().Run(context.Background()))
	before, err := metastore.NewMetadataStore(h.cfg.MetadataPath).Load()
	require.NoError(t, err)

	require.NoError(t, h.service().Run(context.Background()))

	assert.Empty(t, h.index.upserts)
	assert.Empty(t, h.extractor.calls)
	assert.Zero(t, h.embedder.calls)

	after, err := metastore.NewMetadataStore(h.cfg.MetadataPath).Load()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestChangedByteTriggersReingestOfThatSourceOnly(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "a.pdf", "content-a", manyWords(600))
	h.writeSource(t, "b.pdf", "content-b", manyWords(600))

	require.NoError(t, h.service().Run(context.Background()))
	before, err := metastore.NewMetadataStore(h.cfg.MetadataPath).Load()
	require.NoError(t, err)

	// flip one byte of b only
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "b.pdf"), []byte("content-B"), 0644))

	require.NoError(t, h.service().Run(context.Background()))

	assert.Equal(t, []string{"b.pdf"}, h.extractor.calls)
	require.Len(t, h.index.upserts, 1)

	after, err := metastore.NewMetadataStore(h.cfg.MetadataPath).Load()
	require.NoError(t, err)
	assert.Equal(t, before["a.pdf"], after["a.pdf"])
	assert.NotEqual(t, before["b.pdf"], after["b.pdf"])
}

func TestEmptySourceYieldsNoChunksButBatchCompletes(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "empty.pdf", "scanned-image-only", "")
	h.writeSource(t, "guide.pdf", "pdf-bytes", manyWords(1200))

	require.NoError(t, h.service().Run(context.Background()))

	require.Len(t, h.index.upserts, 1)
	assert.Len(t, h.index.upserts[0], 3)

	// the empty source was processed, so its hash is still recorded
	meta, err := metastore.NewMetadataStore(h.cfg.MetadataPath).Load()
	require.NoError(t, err)
	assert.Contains(t, meta, "empty.pdf")
	assert.Contains(t, meta, "guide.pdf")
}

func TestFailingSourceIsRetriedNextRun(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "bad.pdf", "bytes-bad", "")
	h.writeSource(t, "good.pdf", "bytes-good", manyWords(600))
	h.extractor.errs["bad.pdf"] = fmt.Errorf("converter unavailable")

	require.NoError(t, h.service().Run(context.Background()))

	meta, err := metastore.NewMetadataStore(h.cfg.MetadataPath).Load()
	require.NoError(t, err)
	assert.NotContains(t, meta, "bad.pdf")
	assert.Contains(t, meta, "good.pdf")

	// next run retries only the failed source
	delete(h.extractor.errs, "bad.pdf")
	h.extractor.texts["bad.pdf"] = manyWords(600)

	require.NoError(t, h.service().Run(context.Background()))
	assert.Equal(t, []string{"bad.pdf"}, h.extractor.calls)
}
