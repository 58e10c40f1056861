package models

// ScoredChunk pairs a chunk's text with its cosine similarity to the query.
type ScoredChunk struct {
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

// RetrievalResult is the outcome of retrieving context for one question.
// Chunks are ordered by descending score, at most top_k of them. When no
// chunk qualifies, Context and Chunks are empty and Message says why; the
// message distinguishes "nothing matched" from "nothing relevant enough".
type RetrievalResult struct {
	Context string        `json:"context"`
	Chunks  []ScoredChunk `json:"chunks"`
	Message string        `json:"message,omitempty"`
}

// Index status values reported by IndexInfo.
const (
	IndexStatusEmpty = "empty"
	IndexStatusReady = "ready"
)

// IndexInfo is a read-only snapshot of the vector index state.
// Dimension is omitted while the index is empty.
type IndexInfo struct {
	Status       string `json:"status"`
	TotalVectors int    `json:"total_vectors"`
	TotalChunks  int    `json:"total_chunks"`
	Dimension    int    `json:"dimension,omitempty"`
}
