package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/AP-047/hvac-assistant/loader/internal"
	metastore "github.com/AP-047/hvac-assistant/loader/store"
	"github.com/AP-047/hvac-assistant/model"
	"github.com/AP-047/hvac-assistant/store"
	"github.com/AP-047/hvac-assistant/types"
)

// Service runs the ingestion batch: per source, hash -> skip-if-unchanged ->
// extract -> chunk -> embed -> upsert. A failing source is logged and left
// out of the updated metadata so the next run retries it; the batch always
// continues.
type Service struct {
	logger    *slog.Logger
	cfg       types.LoaderConfig
	index     store.VectorIndex
	embedder  model.EmbedderInterface
	extractor internal.TextExtractor
	meta      *metastore.MetadataStore
	dim       int
}

func New(cfg types.LoaderConfig, index store.VectorIndex, embedder model.EmbedderInterface, extractor internal.TextExtractor, meta *metastore.MetadataStore, dim int) *Service {
	return &Service{
		logger:    slog.Default(),
		cfg:       cfg,
		index:     index,
		embedder:  embedder,
		extractor: extractor,
		meta:      meta,
		dim:       dim,
	}
}

// Run executes one ingestion batch over the source directory.
func (s *Service) Run(ctx context.Context) error {
	if err := s.index.EnsureCollection(ctx, s.dim); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	meta, err := s.meta.Load()
	if err != nil {
		return fmt.Errorf("load ingestion metadata: %w", err)
	}

	sources, err := s.discoverSources()
	if err != nil {
		return fmt.Errorf("discover sources: %w", err)
	}
	if len(sources) == 0 {
		s.logger.Info("[LOADER] no PDF sources found", "dir", s.cfg.SourceDir)
	}

	var ingested, skipped, failed int
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		changed, err := s.processSource(ctx, meta, src)
		switch {
		case err != nil:
			// Hash stays unrecorded, so the source is retried next run.
			s.logger.Error("[LOADER] source failed", "file", src.FilePath, "error", err)
			failed++
		case changed:
			ingested++
		default:
			skipped++
		}
	}

	if err := s.meta.Save(meta); err != nil {
		return fmt.Errorf("save ingestion metadata: %w", err)
	}

	s.logger.Info("[LOADER] batch finished", "ingested", ingested, "skipped", skipped, "failed", failed)
	return nil
}

// Watch re-runs the batch on a fixed interval until the context is
// cancelled. The hash skip makes idle re-runs cheap.
func (s *Service) Watch(ctx context.Context) {
	s.logger.Info("[LOADER] watching source directory", "dir", s.cfg.SourceDir, "interval", s.cfg.WatchInterval)

	ticker := time.NewTicker(s.cfg.WatchInterval)
	defer ticker.Stop()

	for {
		if err := s.Run(ctx); err != nil {
			s.logger.Error("[LOADER] batch error", "error", err)
		}
		select {
		case <-ctx.Done():
			s.logger.Info("[LOADER] watcher stopped")
			return
		case <-ticker.C:
		}
	}
}

// processSource ingests one source. It reports whether new content was
// indexed; an unchanged hash is a skip, not a failure.
func (s *Service) processSource(ctx context.Context, meta map[string]string, src types.DocumentSource) (bool, error) {
	name := filepath.Base(src.FilePath)

	hash, err := metastore.FileHash(src.FilePath)
	if err != nil {
		return false, fmt.Errorf("hash source: %w", err)
	}

	if meta[name] == hash {
		s.logger.Info("[LOADER] unchanged, skipping", "file", name)
		return false, nil
	}

	text, err := s.extractor.ExtractText(ctx, src.FilePath)
	if err != nil {
		return false, fmt.Errorf("extract text: %w", err)
	}

	chunks := internal.SplitWords(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if len(chunks) == 0 {
		s.logger.Warn("[LOADER] source produced no chunks", "file", name)
		meta[name] = hash
		return false, nil
	}

	points := make([]store.Point, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return false, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		points = append(points, store.Point{
			ID:     uuid.NewString(),
			Vector: vector,
			Payload: store.Payload{
				Text:       chunk,
				Title:      src.Title,
				URL:        src.OriginURL,
				ChunkID:    i,
				SourceHash: hash,
			},
		})
	}

	// One batch call per source; earlier points for a changed source are
	// superseded by these, never merged.
	if err := s.index.Upsert(ctx, points); err != nil {
		return false, fmt.Errorf("upsert points: %w", err)
	}

	meta[name] = hash
	s.logger.Info("[LOADER] ingested", "file", name, "chunks", len(points))
	return true, nil
}

type manifestEntry struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// discoverSources lists *.pdf files in the source directory. An optional
// manifest.yaml supplies titles and origin URLs; otherwise the title is
// derived from the filename.
func (s *Service) discoverSources() ([]types.DocumentSource, error) {
	entries, err := os.ReadDir(s.cfg.SourceDir)
	if err != nil {
		return nil, err
	}

	manifest, err := s.readManifest()
	if err != nil {
		return nil, err
	}

	var sources []types.DocumentSource
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}
		src := types.DocumentSource{
			Title:    deriveTitle(entry.Name()),
			FilePath: filepath.Join(s.cfg.SourceDir, entry.Name()),
		}
		if m, ok := manifest[entry.Name()]; ok {
			if m.Title != "" {
				src.Title = m.Title
			}
			src.OriginURL = m.URL
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (s *Service) readManifest() (map[string]manifestEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.cfg.SourceDir, "manifest.yaml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]manifestEntry{}, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	manifest := map[string]manifestEntry{}
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return manifest, nil
}

func deriveTitle(fileName string) string {
	if strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		fileName = fileName[:len(fileName)-4]
	}
	fileName = strings.ReplaceAll(fileName, "_", " ")
	fileName = strings.ReplaceAll(fileName, "-", " ")
	return fileName
}
