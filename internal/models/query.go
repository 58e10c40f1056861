package models

import "fmt"

// AskRequest is a question against the currently loaded document.
// TopK 0 means "use the configured default".
type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

// Validate ensures the request has a question and clamps top_k into range.
func (r *AskRequest) Validate() error {
	if r.Question == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if r.TopK < 0 {
		r.TopK = 0
	}
	if r.TopK > 20 {
		r.TopK = 20
	}
	return nil
}
