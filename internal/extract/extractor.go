// Package extract provides text extraction from various document formats.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// For plain text files (.txt, .md, .rst), content is returned as-is (UTF-8
// validated). For PDF, DOCX, Excel, PPTX, RTF, and OpenDocument formats,
// text is extracted from the binary format. Encrypted PDFs surface
// ErrPasswordProtected; PDFs with no extractable text surface
// ErrNoReadableText.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".rtf":
		return extractRTF(content)
	case ".xlsx":
		return extractExcel(content)
	case ".pptx":
		return extractPPTX(content)
	case ".odt":
		return extractOpenDocument(content, "ODT")
	case ".odp":
		return extractOpenDocument(content, "ODP")
	case ".ods":
		return extractOpenDocument(content, "ODS")
	case ".txt", ".md", ".rst", "":
		return extractPlain(content)
	default:
		// Unknown extension: treat as plain text
		return extractPlain(content)
	}
}

// SupportedExtensions lists the file extensions Extract understands natively.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".rtf", ".xlsx", ".pptx", ".odt", ".odp", ".ods", ".txt", ".md", ".rst"}
}
