package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mukunthans/pdf-qa/internal/config"
	"github.com/mukunthans/pdf-qa/internal/models"
)

// OpenAIGenerator answers questions through an OpenAI-compatible
// chat-completion endpoint.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	hasKey      bool
	logger      *zap.Logger
}

// OpenAIGeneratorOption configures an OpenAIGenerator.
type OpenAIGeneratorOption func(*OpenAIGenerator)

// WithLogger sets the logger used for generation diagnostics.
func WithLogger(logger *zap.Logger) OpenAIGeneratorOption {
	return func(g *OpenAIGenerator) {
		g.logger = logger
	}
}

// NewOpenAIGenerator builds a generator from cfg. The API key is read from
// the environment variable named by cfg.APIKeyEnv. A missing key is not a
// construction error; calls report api_key_error instead.
func NewOpenAIGenerator(cfg *config.GenerationConfig, opts ...OpenAIGeneratorOption) *OpenAIGenerator {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	g := &OpenAIGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		hasKey:      apiKey != "",
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate answers query from docContext. An empty query, empty context, or
// missing API key resolves locally without a remote call.
func (g *OpenAIGenerator) Generate(ctx context.Context, query, docContext string) (*models.GenerationResult, error) {
	if strings.TrimSpace(query) == "" {
		return statusResult(models.StatusError, MsgInvalidQuery), nil
	}
	if strings.TrimSpace(docContext) == "" {
		return statusResult(models.StatusNoContext, MsgNoContext), nil
	}
	if !g.hasKey {
		g.logger.Warn("no API key configured for generation")
		return statusResult(models.StatusAPIKeyError, MsgAPIKeyError), nil
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(query, docContext)},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return g.classify(err), nil
	}

	var answer string
	if len(resp.Choices) > 0 {
		answer = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if answer == "" {
		g.logger.Warn("model returned an empty completion", zap.String("model", g.model))
		return statusResult(models.StatusEmptyResponse, MsgEmptyResponse), nil
	}

	g.logger.Debug("generated answer",
		zap.String("model", g.model),
		zap.Int("answer_chars", len(answer)))
	return &models.GenerationResult{
		Answer: answer,
		Status: models.StatusSuccess,
		Model:  g.model,
	}, nil
}

func (g *OpenAIGenerator) classify(err error) *models.GenerationResult {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			g.logger.Warn("chat completion rejected the API key", zap.Error(err))
			return statusResult(models.StatusAPIKeyError, MsgAPIKeyError)
		case http.StatusTooManyRequests:
			g.logger.Warn("chat completion quota exhausted", zap.Error(err))
			return statusResult(models.StatusQuotaError, MsgQuotaError)
		}
	}
	g.logger.Error("chat completion failed", zap.Error(err))
	return statusResult(models.StatusError,
		fmt.Sprintf("An error occurred while processing your question: %v", err))
}
