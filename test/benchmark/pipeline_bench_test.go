package benchmark

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/mukunthans/pdf-qa/internal/embedding"
	"github.com/mukunthans/pdf-qa/internal/ingest"
	"github.com/mukunthans/pdf-qa/internal/vector"
	"github.com/mukunthans/pdf-qa/pkg/utils"
)

const benchDims = 384

// benchVectors builds count deterministic unit vectors.
func benchVectors(count int) ([]string, [][]float32) {
	chunks := make([]string, count)
	vectors := make([][]float32, count)
	for i := 0; i < count; i++ {
		chunks[i] = fmt.Sprintf("chunk %d with some text to carry along", i)
		v := make([]float32, benchDims)
		for j := range v {
			v[j] = float32(math.Sin(float64(i*benchDims + j)))
		}
		utils.NormalizeL2(v)
		vectors[i] = v
	}
	return chunks, vectors
}

func BenchmarkMemoryIndexBuild(b *testing.B) {
	chunks, vectors := benchVectors(1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx, _ := vector.NewMemoryIndex(benchDims)
		_ = idx.Build(ctx, chunks, vectors)
	}
}

func BenchmarkMemoryIndexSearch(b *testing.B) {
	chunks, vectors := benchVectors(1000)
	idx, _ := vector.NewMemoryIndex(benchDims)
	ctx := context.Background()
	_ = idx.Build(ctx, chunks, vectors)
	query := vectors[500]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, query, 5)
	}
}

func BenchmarkMockEmbedder_Embed(b *testing.B) {
	e := embedding.NewMockEmbedder(benchDims)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "where is the emergency shutoff valve located")
	}
}

func BenchmarkChunker(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&sb, "Sentence %d describes one more maintenance procedure in detail. ", i)
	}
	text := sb.String()
	chunker := ingest.NewChunker(1000, 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = chunker.Chunk(text)
	}
}
