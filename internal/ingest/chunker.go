package ingest

import (
	"strings"
	"unicode"
)

const (
	// defaultBoundaryWindow is how far back from the end of a window the
	// chunker looks for a sentence terminator.
	defaultBoundaryWindow = 100
	// defaultMinBreakRatio is the fraction of the chunk size a word break
	// must lie past to be used instead of the raw boundary.
	defaultMinBreakRatio = 0.7
)

// Chunker splits normalized text into overlapping chunks, preferring
// sentence boundaries, then word boundaries, then the raw window edge.
// Sizes and offsets are in characters (runes), not bytes.
type Chunker struct {
	chunkSize      int
	chunkOverlap   int
	boundaryWindow int
	minBreakRatio  float64
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithBoundaryWindow sets how many trailing characters of each window are
// scanned for a sentence terminator.
func WithBoundaryWindow(n int) ChunkerOption {
	return func(c *Chunker) { c.boundaryWindow = n }
}

// WithMinBreakRatio sets the fraction of the chunk size a word break must
// lie past before it is preferred over the raw boundary.
func WithMinBreakRatio(r float64) ChunkerOption {
	return func(c *Chunker) { c.minBreakRatio = r }
}

// NewChunker creates a chunker with the given size and overlap (in
// characters). chunkSize must be greater than chunkOverlap; config
// validation enforces this before a Chunker is ever built from user input.
func NewChunker(chunkSize, chunkOverlap int, opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		chunkSize:      chunkSize,
		chunkOverlap:   chunkOverlap,
		boundaryWindow: defaultBoundaryWindow,
		minBreakRatio:  defaultMinBreakRatio,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits text into chunks of at most chunkSize characters. Each window
// is cut at the last qualifying sentence terminator in its trailing
// boundaryWindow characters; failing that, at the last space past
// minBreakRatio of the window; failing that, at the raw boundary. The cursor
// then advances to the break position minus the overlap, never moving
// backward, so no text between a sentence break and the window edge is ever
// skipped. Chunks are trimmed and empty chunks dropped.
//
// Output is deterministic: the same text and parameters always produce the
// same chunks.
func (c *Chunker) Chunk(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= c.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			if chunk := strings.TrimSpace(string(runes[start:])); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		window := runes[start:end]
		breakPos := c.sentenceBreak(window)
		if breakPos < 0 {
			breakPos = c.wordBreak(window)
		}
		if breakPos < 0 {
			breakPos = len(window)
		}
		absBreak := start + breakPos
		if chunk := strings.TrimSpace(string(runes[start:absBreak])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := absBreak - c.chunkOverlap
		if next <= start {
			// Overlap reaches back to or past the current cursor; skip it
			// for this step so the cursor always moves forward.
			next = absBreak
		}
		start = next
	}
	return chunks
}

// sentenceBreak returns the offset just past the last sentence terminator in
// the trailing boundaryWindow characters of window that is immediately
// followed by whitespace or an uppercase letter, or -1 if none qualifies. A
// terminator in the window's final position does not qualify (its follower
// is outside the window).
func (c *Chunker) sentenceBreak(window []rune) int {
	lo := len(window) - c.boundaryWindow
	if lo < 0 {
		lo = 0
	}
	for i := len(window) - 2; i > lo; i-- {
		if !isSentenceTerminator(window[i]) {
			continue
		}
		if next := window[i+1]; unicode.IsSpace(next) || unicode.IsUpper(next) {
			return i + 1
		}
	}
	return -1
}

// wordBreak returns the offset of the last space in window if it lies past
// minBreakRatio of the chunk size, or -1 otherwise. The space itself is
// excluded from the chunk.
func (c *Chunker) wordBreak(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] != ' ' {
			continue
		}
		if float64(i) > float64(c.chunkSize)*c.minBreakRatio {
			return i
		}
		return -1
	}
	return -1
}

func isSentenceTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}
