// Package docid provides document identifiers: deterministic IDs for
// file-backed documents and random IDs for uploaded content.
package docid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	filePrefix   = "file:"
	uploadPrefix = "upload:"
)

// FromPath returns a stable document ID for the given path.
// Same path always yields the same ID, so reprocessing a watched file
// replaces the same logical document.
func FromPath(path string) string {
	normalized := filepath.Clean(path)
	hash := sha256.Sum256([]byte(normalized))
	return filePrefix + hex.EncodeToString(hash[:])
}

// NewUploadID returns a unique ID for a document received without a stable
// path, such as an HTTP upload.
func NewUploadID() string {
	return uploadPrefix + uuid.NewString()
}
