// Package generate turns a question and retrieved document context into the
// final answer text through a chat-completion backend.
package generate

import (
	"context"
	"fmt"

	"github.com/mukunthans/pdf-qa/internal/models"
)

// Fixed answers for outcomes that never reach the remote model, plus the
// canned messages for each failure status.
const (
	MsgInvalidQuery  = "Please provide a valid question."
	MsgNoContext     = "I don't have enough relevant information in the document to answer your question."
	MsgEmptyResponse = "I apologize, but I couldn't generate a response. Please try again."
	MsgAPIKeyError   = "API key error. Please check your API configuration."
	MsgQuotaError    = "API quota exceeded. Please try again later."
)

// Generator produces an answer for a question given retrieved document
// context. Outcomes covered by the status taxonomy, including backend
// failures, are reported through GenerationResult.Status with a nil error.
type Generator interface {
	Generate(ctx context.Context, query, docContext string) (*models.GenerationResult, error)
}

const promptTemplate = `You are a helpful assistant that answers questions based on provided document content.

CONTEXT FROM DOCUMENT:
%s

USER QUESTION: %s

INSTRUCTIONS:
1. Answer the question based ONLY on the provided context
2. If the context doesn't contain enough information, say so clearly
3. Be specific and cite relevant parts when possible
4. Keep your answer concise but complete
5. If asked about something not in the context, state that the information is not available in the document

ANSWER:`

// BuildPrompt renders the grounding instructions around the retrieved
// context and the user question.
func BuildPrompt(query, docContext string) string {
	return fmt.Sprintf(promptTemplate, docContext, query)
}

func statusResult(status models.Status, answer string) *models.GenerationResult {
	return &models.GenerationResult{Answer: answer, Status: status}
}
