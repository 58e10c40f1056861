// Package retrieval selects the document chunks most relevant to a question
// and renders them into the context string handed to answer generation.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mukunthans/pdf-qa/internal/config"
	"github.com/mukunthans/pdf-qa/internal/embedding"
	"github.com/mukunthans/pdf-qa/internal/models"
	"github.com/mukunthans/pdf-qa/internal/vector"
)

// User-facing messages for retrieval outcomes that carry no context. The
// no-results and not-relevant cases are deliberately distinct so callers can
// tell "the index had nothing" from "it had results, none relevant".
const (
	MsgEmptyQuery   = "Please provide a valid question."
	MsgNotReady     = "No document has been processed yet. Please upload a document first."
	MsgNoResults    = "No matching content found in the document."
	MsgNoneRelevant = "No sufficiently relevant content found in the document for this question."
)

// EmbedderSource yields the shared embedder, loading it on first use.
// *embedding.Provider implements it.
type EmbedderSource interface {
	Get(ctx context.Context) (embedding.Embedder, error)
}

// Retriever finds the top-k chunks for a query and keeps those scoring
// above the relevance threshold.
type Retriever struct {
	source    EmbedderSource
	index     vector.Index
	topK      int
	threshold float32
	logger    *zap.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithLogger sets a logger for retrieval events.
func WithLogger(l *zap.Logger) RetrieverOption {
	return func(r *Retriever) { r.logger = l }
}

// WithScoreThreshold overrides the configured relevance threshold.
func WithScoreThreshold(t float32) RetrieverOption {
	return func(r *Retriever) { r.threshold = t }
}

// NewRetriever creates a retriever over index using query embeddings from
// source. Default top-k and score threshold come from cfg.
func NewRetriever(source EmbedderSource, index vector.Index, cfg *config.RetrievalConfig, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		source:    source,
		index:     index,
		topK:      cfg.TopK,
		threshold: cfg.ScoreThresholdOrDefault(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve embeds the query, searches the index for topK candidates, and
// keeps those scoring strictly above the threshold, rendered into a context
// string. topK <= 0 uses the configured default.
//
// Expected dead ends (empty query, no index, nothing relevant) come back as
// an empty result with a user-facing Message and a nil error; only embedding
// or index failures return an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) (*models.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return emptyResult(MsgEmptyQuery), nil
	}
	if topK <= 0 {
		topK = r.topK
	}

	embedder, err := r.source.Get(ctx)
	if err != nil {
		return nil, err
	}
	queryVec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := r.index.Search(ctx, queryVec, topK)
	if err != nil {
		if errors.Is(err, vector.ErrNotReady) {
			return emptyResult(MsgNotReady), nil
		}
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	if len(candidates) == 0 {
		return emptyResult(MsgNoResults), nil
	}

	kept := make([]models.ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		if c.Score > r.threshold {
			kept = append(kept, c)
		}
	}
	if r.logger != nil {
		r.logger.Debug("retrieved context",
			zap.Int("candidates", len(candidates)),
			zap.Int("kept", len(kept)),
			zap.Float32("threshold", r.threshold))
	}
	if len(kept) == 0 {
		return emptyResult(MsgNoneRelevant), nil
	}

	return &models.RetrievalResult{
		Context: BuildContext(kept),
		Chunks:  kept,
	}, nil
}

// BuildContext renders chunks as "[Context N]: text" blocks joined by blank
// lines, in the given (descending-score) order. This exact string is the
// generation payload.
func BuildContext(chunks []models.ScoredChunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Context %d]: %s", i+1, c.Text)
	}
	return b.String()
}

func emptyResult(message string) *models.RetrievalResult {
	return &models.RetrievalResult{
		Chunks:  []models.ScoredChunk{},
		Message: message,
	}
}
