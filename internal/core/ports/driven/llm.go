package driven

import "context"

// LLMService provides language model operations for answering and
// query understanding. This is an optional service - when nil, features
// degrade gracefully to plain retrieval.
//
// Implementations may include:
//   - Gemini (gemini-2.0-flash and friends)
//   - Any REST-compatible inference server
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// RewriteQuery expands or rewrites a search query for better recall.
	// This can add synonyms, fix typos, or expand abbreviations.
	RewriteQuery(ctx context.Context, query string) (string, error)

	// Summarise creates a summary of document content.
	Summarise(ctx context.Context, content string, maxLength int) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
