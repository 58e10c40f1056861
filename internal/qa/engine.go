// Package qa wires retrieval and generation into the question-answering
// pipeline over the currently loaded document.
package qa

import (
	"context"

	"go.uber.org/zap"

	"github.com/mukunthans/pdf-qa/internal/generate"
	"github.com/mukunthans/pdf-qa/internal/ingest"
	"github.com/mukunthans/pdf-qa/internal/models"
	"github.com/mukunthans/pdf-qa/internal/retrieval"
	"github.com/mukunthans/pdf-qa/internal/vector"
)

// Engine is the pipeline entry point: it retrieves context for a question,
// hands it to the generator, and assembles the final Answer.
type Engine struct {
	processor *ingest.Processor
	retriever *retrieval.Retriever
	generator generate.Generator
	index     vector.Index
	logger    *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a pipeline engine with the given components. The index
// must be the same instance the processor builds into.
func NewEngine(
	processor *ingest.Processor,
	retriever *retrieval.Retriever,
	generator generate.Generator,
	index vector.Index,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		processor: processor,
		retriever: retriever,
		generator: generator,
		index:     index,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ask answers a question from the loaded document. Expected dead ends
// (empty question, no document, nothing relevant) come back as an Answer
// with a descriptive status; the error return is reserved for hard
// failures such as an unloadable embedding model.
func (e *Engine) Ask(ctx context.Context, req *models.AskRequest) (*models.Answer, error) {
	if err := req.Validate(); err != nil {
		return &models.Answer{
			Answer:        generate.MsgInvalidQuery,
			Status:        models.StatusError,
			Query:         req.Question,
			ContextChunks: []models.ScoredChunk{},
		}, nil
	}

	retrieved, err := e.retriever.Retrieve(ctx, req.Question, req.TopK)
	if err != nil {
		return nil, err
	}
	if retrieved.Message != "" {
		e.logger.Debug("retrieval returned no context",
			zap.String("question", req.Question),
			zap.String("message", retrieved.Message))
		return &models.Answer{
			Answer:        retrieved.Message,
			Status:        statusForMessage(retrieved.Message),
			Query:         req.Question,
			ContextChunks: []models.ScoredChunk{},
		}, nil
	}

	result, err := e.generator.Generate(ctx, req.Question, retrieved.Context)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("question answered",
		zap.String("status", string(result.Status)),
		zap.Int("context_chunks", len(retrieved.Chunks)))
	return &models.Answer{
		Answer:        result.Answer,
		Status:        result.Status,
		Query:         req.Question,
		ContextChunks: retrieved.Chunks,
		Model:         result.Model,
	}, nil
}

// statusForMessage maps a retrieval dead-end message onto the answer status
// taxonomy: an invalid question is an error, everything else means there was
// no usable context.
func statusForMessage(msg string) models.Status {
	if msg == retrieval.MsgEmptyQuery {
		return models.StatusError
	}
	return models.StatusNoContext
}

// Document returns the currently loaded document, or nil.
func (e *Engine) Document() *models.Document {
	return e.processor.Current()
}

// Info reports the state of the vector index.
func (e *Engine) Info() models.IndexInfo {
	return e.index.Info()
}

// Ready reports whether a document has been processed and can be queried.
func (e *Engine) Ready() bool {
	return e.index.Info().Status == models.IndexStatusReady
}

// Clear removes the current document and its index.
func (e *Engine) Clear() {
	e.processor.Clear()
}
