package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF extracts text from PDF bytes, page by page. Encrypted files
// surface ErrPasswordProtected after an empty-password attempt fails. Pages
// that fail to decode are skipped so one bad page does not lose the rest;
// when nothing at all was readable, the first page error (or
// ErrNoReadableText) is returned.
func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", ErrPasswordProtected
		}
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	var firstPageErr error
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			if firstPageErr == nil {
				firstPageErr = &PageError{Page: i, Err: err}
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}

	out := strings.TrimSpace(buf.String())
	if out == "" {
		if firstPageErr != nil {
			return "", firstPageErr
		}
		return "", ErrNoReadableText
	}
	return out, nil
}
