package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mukunthans/pdf-qa/internal/models"
	"github.com/mukunthans/pdf-qa/pkg/utils"
)

// snapshot holds one immutable generation of the index. Build installs a
// fresh snapshot under the write lock; Search grabs the current pointer and
// scores against it without blocking a concurrent rebuild.
type snapshot struct {
	chunks  []string
	vectors [][]float32
}

// MemoryIndex is an in-memory Index using brute-force inner product search.
// One document's chunks at a time; small enough that exhaustive scoring
// beats an approximate structure.
type MemoryIndex struct {
	dimensions int
	mu         sync.RWMutex
	snap       *snapshot
}

// NewMemoryIndex creates an empty index expecting vectors of the given
// dimension.
func NewMemoryIndex(dimensions int) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryIndex{dimensions: dimensions}, nil
}

// Build replaces the index contents with the given chunks and vectors.
// Chunks and vectors must align 1:1 and every vector must match the index
// dimension; vectors are copied and unit-normalized before the new snapshot
// is swapped in, so readers never observe a half-built index.
func (m *MemoryIndex) Build(ctx context.Context, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return ErrEmptyBuild
	}
	snap := &snapshot{
		chunks:  make([]string, len(chunks)),
		vectors: make([][]float32, len(vectors)),
	}
	copy(snap.chunks, chunks)
	for i, v := range vectors {
		if len(v) != m.dimensions {
			return &DimensionError{Got: len(v), Want: m.dimensions}
		}
		vec := make([]float32, m.dimensions)
		copy(vec, v)
		utils.NormalizeL2(vec)
		snap.vectors[i] = vec
	}

	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
	return nil
}

// Search scores every stored vector against the unit-normalized query and
// returns the k best chunks, highest score first. k larger than the index
// returns everything; k <= 0 returns nothing.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]models.ScoredChunk, error) {
	if len(query) != m.dimensions {
		return nil, &DimensionError{Got: len(query), Want: m.dimensions}
	}

	m.mu.RLock()
	snap := m.snap
	m.mu.RUnlock()
	if snap == nil {
		return nil, ErrNotReady
	}
	if k <= 0 {
		return nil, nil
	}

	q := make([]float32, len(query))
	copy(q, query)
	utils.NormalizeL2(q)

	type scored struct {
		idx   int
		score float32
	}
	scores := make([]scored, len(snap.vectors))
	for i, vec := range snap.vectors {
		scores[i] = scored{idx: i, score: Similarity(q, vec)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if k > len(scores) {
		k = len(scores)
	}

	results := make([]models.ScoredChunk, 0, k)
	for _, s := range scores[:k] {
		if s.idx < 0 || s.idx >= len(snap.chunks) {
			continue
		}
		results = append(results, models.ScoredChunk{Text: snap.chunks[s.idx], Score: s.score})
	}
	return results, nil
}

// Clear discards the current snapshot; Search fails with ErrNotReady until
// the next Build.
func (m *MemoryIndex) Clear() {
	m.mu.Lock()
	m.snap = nil
	m.mu.Unlock()
}

// Info reports status and sizes. Dimension is only reported once an index
// has been built.
func (m *MemoryIndex) Info() models.IndexInfo {
	m.mu.RLock()
	snap := m.snap
	m.mu.RUnlock()
	if snap == nil {
		return models.IndexInfo{Status: models.IndexStatusEmpty}
	}
	return models.IndexInfo{
		Status:       models.IndexStatusReady,
		TotalVectors: len(snap.vectors),
		TotalChunks:  len(snap.chunks),
		Dimension:    m.dimensions,
	}
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
