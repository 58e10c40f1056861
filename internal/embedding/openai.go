package embedding

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/mukunthans/pdf-qa/pkg/utils"
)

// maxEmbeddingBatch caps how many inputs go into a single embeddings
// request; larger documents are split and requested concurrently.
const maxEmbeddingBatch = 100

// OpenAIEmbedder produces embeddings through an OpenAI-compatible
// embeddings endpoint. Responses are unit-normalized and cached by text.
type OpenAIEmbedder struct {
	client      *openai.Client
	model       string
	dimensions  int
	concurrency int
	cache       *EmbeddingCache
}

// NewOpenAIEmbedder wraps client for the given model. dimensions is the
// expected vector length; for text-embedding-3 models it is also requested
// from the API. concurrency bounds parallel batch requests.
func NewOpenAIEmbedder(client *openai.Client, model string, dimensions, cacheSize, concurrency int) *OpenAIEmbedder {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &OpenAIEmbedder{
		client:      client,
		model:       model,
		dimensions:  dimensions,
		concurrency: concurrency,
		cache:       NewEmbeddingCache(cacheSize),
	}
}

// Embed returns the unit-normalized embedding for one text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	out := make([][]float32, 1)
	if err := e.embedRange(ctx, []string{text}, out); err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in order. Inputs are split into request-sized
// batches and fetched with bounded concurrency, then reassembled in input
// order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	out := make([][]float32, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for start := 0; start < len(texts); start += maxEmbeddingBatch {
		end := start + maxEmbeddingBatch
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]
		dst := out[start:end]
		g.Go(func() error {
			return e.embedRange(ctx, batch, dst)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// embedRange fills dst with embeddings for texts, serving cache hits
// locally and requesting only the misses. len(dst) == len(texts).
func (e *OpenAIEmbedder) embedRange(ctx context.Context, texts []string, dst [][]float32) error {
	var missTexts []string
	var missIdx []int
	for i, t := range texts {
		if cached, ok := e.cache.Get(t); ok {
			dst[i] = cached
			continue
		}
		missTexts = append(missTexts, t)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return nil
	}

	req := openai.EmbeddingRequest{
		Input: missTexts,
		Model: openai.EmbeddingModel(e.model),
	}
	if strings.HasPrefix(e.model, "text-embedding-3") {
		req.Dimensions = e.dimensions
	}
	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(missTexts) {
		return fmt.Errorf("embedding count mismatch: got %d, expected %d", len(resp.Data), len(missTexts))
	}
	for j, d := range resp.Data {
		if len(d.Embedding) != e.dimensions {
			return fmt.Errorf("embedding dimension mismatch: got %d, expected %d", len(d.Embedding), e.dimensions)
		}
		vec := make([]float32, len(d.Embedding))
		copy(vec, d.Embedding)
		utils.NormalizeL2(vec)
		e.cache.Set(missTexts[j], vec)
		dst[missIdx[j]] = vec
	}
	return nil
}

// Dimensions returns the embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for OpenAIEmbedder.
func (e *OpenAIEmbedder) Close() error {
	return nil
}
