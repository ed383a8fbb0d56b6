package driving

import (
	"context"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

// AnswerService answers questions using retrieval-augmented generation.
type AnswerService interface {
	// Ask retrieves relevant chunks, renders them into the answer prompt,
	// and generates an answer with the configured LLM.
	// Returns domain.ErrLLMUnavailable when no LLM is configured.
	Ask(ctx context.Context, question string, opts AskOptions) (*domain.Answer, error)
}

// AskOptions configures a retrieval-augmented answer.
type AskOptions struct {
	// TopK is the number of context chunks to retrieve (default 5).
	TopK int

	// Mode selects the retrieval strategy for the context.
	Mode domain.SearchMode

	// MaxTokens caps the generated answer length.
	MaxTokens int
}
