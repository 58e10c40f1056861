// Package ingest turns extracted document text into chunks ready for
// embedding and indexing.
package ingest

import (
	"strings"
	"unicode"
)

// Normalize collapses runs of whitespace (including newlines from page
// joins) into single spaces and trims the ends. Chunking assumes its input
// went through this.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}
