package extract

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by extraction. Callers match with errors.Is.
var (
	// ErrPasswordProtected is returned for encrypted documents that cannot
	// be opened with an empty password.
	ErrPasswordProtected = errors.New("document is password protected")

	// ErrNoReadableText is returned when a document contains no extractable
	// text, e.g. a scanned or image-only PDF.
	ErrNoReadableText = errors.New("no readable text found in document")
)

// PageError reports a failure extracting one page of a document.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("extract page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }
