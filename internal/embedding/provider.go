package embedding

import (
	"context"
	"fmt"
	"os"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mukunthans/pdf-qa/internal/config"
)

// Provider owns the process-wide embedder, loading it lazily on first use.
// Loading a local model can take seconds, so concurrent first callers are
// serialized: exactly one load runs at a time. A failed load is not cached;
// the next Get retries it.
type Provider struct {
	cfg    *config.EmbeddingConfig
	logger *zap.Logger

	mu       sync.Mutex
	embedder Embedder
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets a logger for model load events.
func WithLogger(l *zap.Logger) ProviderOption {
	return func(p *Provider) { p.logger = l }
}

// NewProvider creates a provider for the configured backend. No model is
// loaded until Get is called.
func NewProvider(cfg *config.EmbeddingConfig, opts ...ProviderOption) *Provider {
	p := &Provider{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the shared embedder, loading it on first call. Load failures
// surface as *ModelLoadError and leave the provider empty so a later Get
// can succeed once the cause (missing model file, unset API key) is fixed.
func (p *Provider) Get(ctx context.Context) (Embedder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.embedder != nil {
		return p.embedder, nil
	}

	embedder, err := p.load()
	if err != nil {
		if p.logger != nil {
			p.logger.Error("embedding model load failed",
				zap.String("backend", p.cfg.Backend), zap.Error(err))
		}
		return nil, &ModelLoadError{Backend: p.cfg.Backend, Err: err}
	}
	if p.logger != nil {
		p.logger.Debug("embedding model loaded",
			zap.String("backend", p.cfg.Backend),
			zap.Int("dimensions", embedder.Dimensions()))
	}
	p.embedder = embedder
	return p.embedder, nil
}

func (p *Provider) load() (Embedder, error) {
	switch p.cfg.Backend {
	case "local":
		return NewONNXEmbedder(p.cfg.ModelPath, p.cfg.Dimensions, p.cfg.MaxTokens, p.cfg.CacheSize)
	case "openai":
		apiKey := os.Getenv(p.cfg.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s is not set", p.cfg.APIKeyEnv)
		}
		clientCfg := openai.DefaultConfig(apiKey)
		if p.cfg.BaseURL != "" {
			clientCfg.BaseURL = p.cfg.BaseURL
		}
		client := openai.NewClientWithConfig(clientCfg)
		return NewOpenAIEmbedder(client, p.cfg.Model, p.cfg.Dimensions, p.cfg.CacheSize, p.cfg.BatchConcurrency), nil
	case "mock":
		return NewMockEmbedder(p.cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", p.cfg.Backend)
	}
}

// Close releases the loaded embedder, if any. A later Get loads it again.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.embedder == nil {
		return nil
	}
	err := p.embedder.Close()
	p.embedder = nil
	return err
}
