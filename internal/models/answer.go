package models

// Status classifies the outcome of a generation call or a full answer.
type Status string

const (
	StatusSuccess       Status = "success"
	StatusNoContext     Status = "no_context"
	StatusEmptyResponse Status = "empty_response"
	StatusAPIKeyError   Status = "api_key_error"
	StatusQuotaError    Status = "quota_error"
	StatusError         Status = "error"
)

// GenerationResult is what the generation backend returns for one prompt.
type GenerationResult struct {
	Answer string `json:"answer"`
	Status Status `json:"status"`
	Model  string `json:"model_used,omitempty"`
}

// Answer is the complete pipeline response for one question.
// ContextChunks lists the retrieved chunks actually handed to generation,
// in descending-score order; empty when no context qualified.
type Answer struct {
	Answer        string        `json:"answer"`
	Status        Status        `json:"status"`
	Query         string        `json:"query"`
	ContextChunks []ScoredChunk `json:"context_chunks"`
	Model         string        `json:"model_used,omitempty"`
}
