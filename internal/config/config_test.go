package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
embedding:
  backend: "mock"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Document.ChunkSize != 1000 || cfg.Document.ChunkOverlap != 200 {
		t.Errorf("chunking defaults not applied: %+v", cfg.Document)
	}
	if cfg.Embedding.Backend != "mock" {
		t.Errorf("embedding backend = %s, want mock", cfg.Embedding.Backend)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
embedding:
  model_path: "./models/all-MiniLM-L6-v2.onnx"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "models", "all-MiniLM-L6-v2.onnx")
	if cfg.Embedding.ModelPath != want {
		t.Errorf("model_path = %s, want %s", cfg.Embedding.ModelPath, want)
	}
}

func TestLoad_invalidChunking(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
document:
  chunk_size: 100
  chunk_overlap: 150
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error when chunk_overlap >= chunk_size")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Document.ChunkSize != 1000 {
		t.Errorf("default chunk_size: got %d", cfg.Document.ChunkSize)
	}
	if cfg.Document.ChunkOverlap != 200 {
		t.Errorf("default chunk_overlap: got %d", cfg.Document.ChunkOverlap)
	}
	if cfg.Document.BoundaryWindow != 100 {
		t.Errorf("default boundary_window: got %d", cfg.Document.BoundaryWindow)
	}
	if cfg.Document.MinBreakRatio != 0.7 {
		t.Errorf("default min_break_ratio: got %f", cfg.Document.MinBreakRatio)
	}
	if cfg.Embedding.Backend != "local" {
		t.Errorf("default embedding backend: got %s", cfg.Embedding.Backend)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("default dimensions: got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("default top_k: got %d", cfg.Retrieval.TopK)
	}
	if cfg.Generation.Model != "gpt-4o-mini" {
		t.Errorf("default generation model: got %s", cfg.Generation.Model)
	}
	if cfg.Watch.DebounceMS != 500 {
		t.Errorf("default watch debounce: got %d", cfg.Watch.DebounceMS)
	}
}

func TestRetrievalConfig_ScoreThresholdOrDefault(t *testing.T) {
	t.Run("nil_returns_default", func(t *testing.T) {
		r := &RetrievalConfig{}
		if got := r.ScoreThresholdOrDefault(); got != 0.3 {
			t.Errorf("ScoreThresholdOrDefault() = %v, want 0.3", got)
		}
	})
	t.Run("explicit_zero_kept", func(t *testing.T) {
		z := 0.0
		r := &RetrievalConfig{ScoreThreshold: &z}
		if got := r.ScoreThresholdOrDefault(); got != 0 {
			t.Errorf("ScoreThresholdOrDefault() = %v, want 0", got)
		}
	})
	t.Run("explicit_value_kept", func(t *testing.T) {
		v := 0.5
		r := &RetrievalConfig{ScoreThreshold: &v}
		if got := r.ScoreThresholdOrDefault(); got != 0.5 {
			t.Errorf("ScoreThresholdOrDefault() = %v, want 0.5", got)
		}
	})
}

func TestValidate_badBackend(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Embedding.Backend = "quantum"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown embedding backend")
	}
}
