package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mukunthans/pdf-qa/internal/models"
)

// MockGenerator is a deterministic Generator for tests and offline runs. It
// applies the same local query and context handling as the real client, then
// answers from Response or with a canned echo of the first context line.
type MockGenerator struct {
	// Response overrides the default echoed answer when non-empty.
	Response string
	// Status forces a fixed outcome when set, with Response as the answer.
	Status models.Status
	// Err is returned as-is when set, before anything else.
	Err error
}

// NewMockGenerator returns a MockGenerator with default behaviour.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Generate(ctx context.Context, query, docContext string) (*models.GenerationResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Status != "" {
		return statusResult(m.Status, m.Response), nil
	}
	if strings.TrimSpace(query) == "" {
		return statusResult(models.StatusError, MsgInvalidQuery), nil
	}
	if strings.TrimSpace(docContext) == "" {
		return statusResult(models.StatusNoContext, MsgNoContext), nil
	}

	answer := m.Response
	if answer == "" {
		answer = fmt.Sprintf("Based on the document: %s", firstLine(docContext))
	}
	return &models.GenerationResult{
		Answer: answer,
		Status: models.StatusSuccess,
		Model:  "mock",
	}, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
