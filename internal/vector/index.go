// Package vector provides an in-memory vector index with cosine similarity
// search over one document's chunks.
package vector

import (
	"context"
	"errors"
	"fmt"

	"github.com/mukunthans/pdf-qa/internal/models"
)

// ErrNotReady is returned by Search when no index has been built, or the
// index was cleared. Callers surface it as "process a document first".
var ErrNotReady = errors.New("no document index has been built")

// ErrEmptyBuild is returned by Build when called with zero chunks. An empty
// document is rejected during ingestion rather than stored as an index that
// can never answer anything.
var ErrEmptyBuild = errors.New("no chunks to index")

// DimensionError reports a vector whose length disagrees with the index
// dimension. It indicates a configuration or embedding-backend mismatch, not
// a user error.
type DimensionError struct {
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: got %d, expected %d", e.Got, e.Want)
}

// Index stores one document's chunk vectors and serves top-k cosine
// similarity queries. Build replaces the whole index; there is no
// incremental add. All methods are safe for concurrent use.
type Index interface {
	// Build indexes chunks with their index-aligned vectors, replacing any
	// prior contents atomically. Vectors are copied and normalized to unit
	// L2 norm, so inner product equals cosine similarity at search time.
	// Building with zero chunks fails with ErrEmptyBuild.
	Build(ctx context.Context, chunks []string, vectors [][]float32) error

	// Search returns the k stored chunks most similar to query, ordered by
	// descending score. The query is normalized before scoring. Returns
	// ErrNotReady when nothing has been built.
	Search(ctx context.Context, query []float32, k int) ([]models.ScoredChunk, error)

	// Clear discards all stored chunks and vectors.
	Clear()

	// Info reports the current index state without mutating it.
	Info() models.IndexInfo

	Close() error
}
