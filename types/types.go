package types

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DocumentSource describes one file of the indexed corpus.
type DocumentSource struct {
	Title       string
	OriginURL   string
	FilePath    string
	ContentHash string
}

// Chunk is one word window cut from a source document. Index is stable
// within a source; storage identity is a generated point id, not the index.
type Chunk struct {
	Source string // source filename
	Index  int
	Text   string
}

// QueryResult is a normalized search hit, ordered by descending score.
type QueryResult struct {
	Text    string
	Title   string
	URL     string
	ChunkID int
	Score   float64
}

// Answer is the composed response body plus its citations.
type Answer struct {
	Body    string
	Sources []Source
}

// LoaderConfig drives the ingestion batch.
type LoaderConfig struct {
	SourceDir     string `validate:"required"`
	MetadataPath  string `validate:"required"`
	ConverterURL  string `validate:"required,url"`
	ChunkSize     int    `validate:"gt=0"`
	ChunkOverlap  int    `validate:"min=0,ltfield=ChunkSize"`
	CropTop       float64
	CropBottom    float64
	WatchInterval time.Duration `validate:"min=0"`
}

// IndexConfig locates the Qdrant collection over both transports.
type IndexConfig struct {
	Host       string `validate:"required"`
	GRPCPort   int    `validate:"gt=0"`
	RestURL    string `validate:"required,url"`
	Collection string `validate:"required"`
	VectorDim  int    `validate:"gt=0"`
	Timeout    time.Duration
}

// EmbedConfig locates the embedding endpoint.
type EmbedConfig struct {
	URL   string `validate:"required,url"`
	Model string `validate:"required"`
}

func LoadLoaderConfig() (LoaderConfig, error) {
	cfg := LoaderConfig{
		SourceDir:     getEnv("LOADER_SOURCE_DIR", "docs/sources"),
		MetadataPath:  getEnv("LOADER_METADATA_PATH", "docs/ingestion_metadata.json"),
		ConverterURL:  getEnv("CONVERTER_URL", "http://localhost:5001/v1/convert/file"),
		ChunkSize:     getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap:  getEnvInt("CHUNK_OVERLAP", 50),
		CropTop:       getEnvFloat("PDF_CROP_TOP", 0),
		CropBottom:    getEnvFloat("PDF_CROP_BOTTOM", 0),
		WatchInterval: getEnvDuration("WATCH_INTERVAL", 30*time.Second),
	}
	return cfg, validateConfig(cfg)
}

func LoadIndexConfig() (IndexConfig, error) {
	cfg := IndexConfig{
		Host:       getEnv("QDRANT_HOST", "localhost"),
		GRPCPort:   getEnvInt("QDRANT_GRPC_PORT", 6334),
		RestURL:    getEnv("QDRANT_URL", "http://localhost:6333"),
		Collection: getEnv("QDRANT_COLLECTION", "hvac_docs"),
		VectorDim:  getEnvInt("EMBEDDING_DIM", 384),
		Timeout:    getEnvDuration("QDRANT_TIMEOUT", 15*time.Second),
	}
	return cfg, validateConfig(cfg)
}

func LoadEmbedConfig() (EmbedConfig, error) {
	cfg := EmbedConfig{
		URL:   getEnv("OLLAMA_EMBEDDING_URL", "http://localhost:11434/api/embeddings"),
		Model: getEnv("OLLAMA_EMBEDDING_MODEL", "all-minilm"),
	}
	return cfg, validateConfig(cfg)
}

// validateConfig reports the first violation; invalid chunk geometry or
// endpoints are startup errors, never per-call ones.
func validateConfig(cfg any) error {
	if err := validator.New().Struct(cfg); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, e := range errs {
			return fmt.Errorf("invalid configuration: field %s failed on '%s' tag", e.Field(), e.Tag())
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
