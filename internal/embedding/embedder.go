// Package embedding maps chunk and query text to fixed-dimension unit
// vectors, with ONNX, OpenAI, and mock backends behind one interface.
package embedding

import "context"

// Embedder produces vector embeddings for text. All backends return unit
// L2-normalized vectors of a fixed dimension, so inner products downstream
// are cosine similarities.
type Embedder interface {
	// Embed returns the embedding for one text. Empty or whitespace-only
	// text fails with ErrEmptyInput.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds texts in order, one vector per input. An empty
	// input yields an empty output.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of every vector this embedder produces.
	Dimensions() int

	Close() error
}
