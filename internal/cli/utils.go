// Package cli provides output formatting for the command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mukunthans/pdf-qa/internal/models"
	"github.com/mukunthans/pdf-qa/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const contextPreviewWords = 60

// WriteAnswer writes a pipeline answer to w in the given format. With
// showContext, the retrieved chunks are listed after the answer.
func WriteAnswer(w io.Writer, answer *models.Answer, format OutputFormat, showContext bool) error {
	if format == OutputJSON {
		return writeJSON(w, answer)
	}
	writeAnswerText(w, answer, showContext)
	return nil
}

func writeAnswerText(w io.Writer, answer *models.Answer, showContext bool) {
	switch answer.Status {
	case models.StatusSuccess:
		fmt.Fprintf(w, "\n%s\n", answer.Answer)
		if answer.Model != "" {
			fmt.Fprintf(w, "\n(%s, %d context chunk(s))\n", answer.Model, len(answer.ContextChunks))
		}
	case models.StatusNoContext:
		fmt.Fprintf(w, "\n[no relevant content]\n%s\n", answer.Answer)
	default:
		fmt.Fprintf(w, "\n[%s]\n%s\n", answer.Status, answer.Answer)
	}

	if showContext && len(answer.ContextChunks) > 0 {
		fmt.Fprintln(w, "\n--- Context used ---")
		for i, chunk := range answer.ContextChunks {
			fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
			fmt.Fprintf(w, "[%d] Score: %.4f\n", i+1, chunk.Score)
			fmt.Fprintf(w, "%s\n", TruncateWords(chunk.Text, contextPreviewWords))
		}
	}
}

// WriteDocument writes a processed document summary to w.
func WriteDocument(w io.Writer, doc *models.Document, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, doc)
	}
	fmt.Fprintf(w, "Processed %s\n", doc.Name)
	fmt.Fprintf(w, "  ID:     %s\n", doc.ID)
	if doc.Path != "" {
		fmt.Fprintf(w, "  Path:   %s\n", doc.Path)
	}
	if doc.SizeBytes > 0 {
		fmt.Fprintf(w, "  Size:   %d bytes\n", doc.SizeBytes)
	}
	fmt.Fprintf(w, "  Chunks: %d\n", doc.Chunks)
	return nil
}

// statusReport pairs index state with document metadata for status output.
type statusReport struct {
	Index    models.IndexInfo `json:"index"`
	Document *models.Document `json:"document,omitempty"`
}

// WriteStatus writes the index and document state to w.
func WriteStatus(w io.Writer, doc *models.Document, info models.IndexInfo, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, statusReport{Index: info, Document: doc})
	}
	fmt.Fprintf(w, "Index: %s\n", info.Status)
	if info.Status != models.IndexStatusReady {
		fmt.Fprintln(w, "No document loaded. Process or upload a document first.")
		return nil
	}
	fmt.Fprintf(w, "  Chunks:    %d\n", info.TotalChunks)
	fmt.Fprintf(w, "  Vectors:   %d\n", info.TotalVectors)
	fmt.Fprintf(w, "  Dimension: %d\n", info.Dimension)
	if doc != nil {
		fmt.Fprintf(w, "Document: %s\n", doc.Name)
		fmt.Fprintf(w, "  Loaded: %s\n", doc.LoadedAt.Format("2006-01-02 15:04:05"))
		if doc.Path != "" {
			fmt.Fprintf(w, "  Path:   %s\n", utils.Truncate(doc.Path, 80))
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
