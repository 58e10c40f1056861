// Package config provides configuration loading and structs for the pdf-qa application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Document   DocumentConfig   `yaml:"document"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Generation GenerationConfig `yaml:"generation"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// DocumentConfig holds chunking settings for processed documents.
type DocumentConfig struct {
	ChunkSize      int     `yaml:"chunk_size"`
	ChunkOverlap   int     `yaml:"chunk_overlap"`
	BoundaryWindow int     `yaml:"boundary_window"`
	MinBreakRatio  float64 `yaml:"min_break_ratio"`
}

// EmbeddingConfig holds embedding backend settings. Backend selects the
// implementation: "local" (ONNX), "openai" (OpenAI-compatible API), or "mock".
type EmbeddingConfig struct {
	Backend          string `yaml:"backend"`
	ModelPath        string `yaml:"model_path"`
	Dimensions       int    `yaml:"dimensions"`
	MaxTokens        int    `yaml:"max_tokens"`
	CacheSize        int    `yaml:"cache_size"`
	Model            string `yaml:"model"`
	BaseURL          string `yaml:"base_url"`
	APIKeyEnv        string `yaml:"api_key_env"`
	BatchConcurrency int    `yaml:"batch_concurrency"`
}

// RetrievalConfig holds retrieval settings. ScoreThreshold is a pointer so
// that an explicit 0 (keep everything scored above zero) survives loading.
type RetrievalConfig struct {
	TopK           int      `yaml:"top_k"`
	ScoreThreshold *float64 `yaml:"score_threshold"`
}

// ScoreThresholdOrDefault returns the configured threshold, or 0.3 when unset.
func (r *RetrievalConfig) ScoreThresholdOrDefault() float32 {
	if r.ScoreThreshold != nil {
		return float32(*r.ScoreThreshold)
	}
	return 0.3
}

// GenerationConfig holds settings for the answer-generation model.
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// WatchConfig holds document file watch settings for server mode.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// Load reads and parses the config file at path, applies defaults, expands
// paths, and validates. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that defaults alone cannot enforce.
func (c *Config) Validate() error {
	if c.Document.ChunkOverlap < 0 {
		return fmt.Errorf("document.chunk_overlap must be >= 0, got %d", c.Document.ChunkOverlap)
	}
	if c.Document.ChunkSize <= c.Document.ChunkOverlap {
		return fmt.Errorf("document.chunk_size (%d) must be greater than chunk_overlap (%d)",
			c.Document.ChunkSize, c.Document.ChunkOverlap)
	}
	if c.Document.MinBreakRatio < 0 || c.Document.MinBreakRatio >= 1 {
		return fmt.Errorf("document.min_break_ratio must be in [0, 1), got %f", c.Document.MinBreakRatio)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	switch c.Embedding.Backend {
	case "local", "openai", "mock":
	default:
		return fmt.Errorf("embedding.backend must be local, openai, or mock, got %q", c.Embedding.Backend)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
