package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/mukunthans/pdf-qa/internal/config"
)

func TestProvider_MockBackendSharedInstance(t *testing.T) {
	p := NewProvider(&config.EmbeddingConfig{Backend: "mock", Dimensions: 8})
	ctx := context.Background()

	first, err := p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.Dimensions() != 8 {
		t.Errorf("Dimensions = %d", first.Dimensions())
	}
	second, err := p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Get should return the same embedder instance")
	}
}

func TestProvider_LoadFailureIsRetryable(t *testing.T) {
	p := NewProvider(&config.EmbeddingConfig{
		Backend:    "local",
		ModelPath:  "/nonexistent/model.onnx",
		Dimensions: 384,
		MaxTokens:  32,
		CacheSize:  10,
	})
	ctx := context.Background()

	_, err := p.Get(ctx)
	var loadErr *ModelLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected ModelLoadError, got %v", err)
	}
	if loadErr.Backend != "local" {
		t.Errorf("Backend = %s", loadErr.Backend)
	}

	// A failed load must not poison the provider: the next call runs the
	// load again instead of returning a cached failure or a nil embedder.
	_, err = p.Get(ctx)
	if !errors.As(err, &loadErr) {
		t.Fatalf("second Get should retry and fail the same way, got %v", err)
	}
}

func TestProvider_UnknownBackend(t *testing.T) {
	p := NewProvider(&config.EmbeddingConfig{Backend: "bogus", Dimensions: 8})
	_, err := p.Get(context.Background())
	var loadErr *ModelLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected ModelLoadError, got %v", err)
	}
}

func TestProvider_CloseResets(t *testing.T) {
	p := NewProvider(&config.EmbeddingConfig{Backend: "mock", Dimensions: 8})
	ctx := context.Background()

	first, err := p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	second, err := p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("Get after Close should load a fresh embedder")
	}
}

func TestProvider_OpenAIRequiresAPIKey(t *testing.T) {
	t.Setenv("PDFQA_TEST_MISSING_KEY", "")
	p := NewProvider(&config.EmbeddingConfig{
		Backend:    "openai",
		Model:      "text-embedding-3-small",
		Dimensions: 384,
		CacheSize:  10,
		APIKeyEnv:  "PDFQA_TEST_MISSING_KEY",
	})
	_, err := p.Get(context.Background())
	var loadErr *ModelLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected ModelLoadError for missing API key, got %v", err)
	}
}
