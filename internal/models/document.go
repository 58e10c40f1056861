// Package models defines core data structures for documents, chunks, and answers.
package models

import "time"

// Document describes the currently loaded document and its extracted text.
// Exactly one document is loaded at a time; loading a new one replaces it.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
	LoadedAt  time.Time `json:"loaded_at"`
	Chunks    int       `json:"chunks"`
	Text      string    `json:"-"`
}

// Chunk is one contiguous piece of the document text.
// Index is the chunk's position in the ordered chunk sequence.
type Chunk struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}
