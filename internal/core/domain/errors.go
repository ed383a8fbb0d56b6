package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no normaliser handles the MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnknownDocument indicates a chunk references a document that
	// does not exist in the store.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (ask, query rewriting, summarisation) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Vector/semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrKeywordIndexUnavailable indicates the keyword index is not configured.
	// Full-text search is disabled.
	ErrKeywordIndexUnavailable = errors.New("keyword index unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	// Semantic similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
