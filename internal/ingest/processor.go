package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mukunthans/pdf-qa/internal/config"
	"github.com/mukunthans/pdf-qa/internal/docid"
	"github.com/mukunthans/pdf-qa/internal/embedding"
	"github.com/mukunthans/pdf-qa/internal/extract"
	"github.com/mukunthans/pdf-qa/internal/models"
	"github.com/mukunthans/pdf-qa/internal/vector"
)

// Processor turns one document into the current searchable index: extract,
// normalize, chunk, embed, build. One document is live at a time; processing
// a new one replaces it wholesale. Processing runs are serialized, so a
// second upload waits rather than racing the index build.
type Processor struct {
	extractor *extract.Extractor
	provider  *embedding.Provider
	index     vector.Index
	chunker   *Chunker
	logger    *zap.Logger

	mu      sync.Mutex
	current *models.Document
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets a logger for processing events.
func WithLogger(l *zap.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = l }
}

// NewProcessor creates a processor that chunks per cfg and indexes into
// index using embeddings from provider.
func NewProcessor(
	extractor *extract.Extractor,
	provider *embedding.Provider,
	index vector.Index,
	cfg *config.DocumentConfig,
	opts ...ProcessorOption,
) *Processor {
	p := &Processor{
		extractor: extractor,
		provider:  provider,
		index:     index,
		chunker: NewChunker(cfg.ChunkSize, cfg.ChunkOverlap,
			WithBoundaryWindow(cfg.BoundaryWindow),
			WithMinBreakRatio(cfg.MinBreakRatio)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFile loads, chunks, and indexes the document at path, replacing
// whatever was loaded before. The document ID is derived from the absolute
// path so reprocessing the same file keeps a stable identity.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*models.Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}
	text, err := p.extractor.Extract(absPath)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}
	doc := &models.Document{
		ID:        docid.FromPath(absPath),
		Name:      filepath.Base(absPath),
		Path:      absPath,
		SizeBytes: info.Size(),
	}
	return p.process(ctx, doc, text)
}

// ProcessBytes indexes an uploaded document. name supplies the extension
// used to pick the extractor.
func (p *Processor) ProcessBytes(ctx context.Context, content []byte, name string) (*models.Document, error) {
	ext := strings.ToLower(filepath.Ext(name))
	text, err := p.extractor.ExtractBytes(content, ext)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}
	doc := &models.Document{
		ID:        docid.NewUploadID(),
		Name:      name,
		SizeBytes: int64(len(content)),
	}
	return p.process(ctx, doc, text)
}

// ProcessText indexes already-extracted text under the given display name.
func (p *Processor) ProcessText(ctx context.Context, text, name string) (*models.Document, error) {
	doc := &models.Document{
		ID:        docid.NewUploadID(),
		Name:      name,
		SizeBytes: int64(len(text)),
	}
	return p.process(ctx, doc, text)
}

func (p *Processor) process(ctx context.Context, doc *models.Document, text string) (*models.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	normalized := Normalize(text)
	if normalized == "" {
		return nil, extract.ErrNoReadableText
	}
	chunks := p.chunker.Chunk(normalized)
	if len(chunks) == 0 {
		return nil, extract.ErrNoReadableText
	}
	if p.logger != nil {
		stats := ComputeStats(chunks)
		p.logger.Debug("document chunked",
			zap.String("name", doc.Name),
			zap.Int("total_chunks", stats.TotalChunks),
			zap.Int("total_chars", stats.TotalChars),
			zap.Float64("avg_length", stats.AvgLength))
	}

	embedder, err := p.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	vectors, err := embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if err := p.index.Build(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	doc.Text = normalized
	doc.Chunks = len(chunks)
	doc.LoadedAt = time.Now()
	p.current = doc
	if p.logger != nil {
		p.logger.Debug("document processed",
			zap.String("id", doc.ID),
			zap.String("name", doc.Name),
			zap.Int("chunks", doc.Chunks))
	}
	return doc, nil
}

// Current returns the currently loaded document, or nil when none is.
func (p *Processor) Current() *models.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Clear drops the current document and its index.
func (p *Processor) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index.Clear()
	p.current = nil
	if p.logger != nil {
		p.logger.Debug("document cleared")
	}
}
