package embedding

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by Embed for empty or whitespace-only text.
var ErrEmptyInput = errors.New("cannot embed empty text")

// ModelLoadError reports a failed embedding backend initialization. The
// failure is not cached: the next Get on the provider retries the load.
type ModelLoadError struct {
	Backend string
	Err     error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load %s embedding model: %v", e.Backend, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }
