package driven

import (
	"context"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

// KeywordIndex provides full-text search operations.
type KeywordIndex interface {
	// Index adds or updates a chunk in the keyword index.
	Index(ctx context.Context, chunk domain.Chunk) error

	// Delete removes a chunk from the keyword index.
	Delete(ctx context.Context, chunkID string) error

	// Search performs a keyword search and returns matching chunk IDs with scores.
	Search(ctx context.Context, query string, limit int) ([]KeywordHit, error)

	// Len returns the number of indexed chunks.
	Len() int

	// Clear removes all indexed chunks.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// KeywordHit represents a search result from the keyword index.
type KeywordHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the relevance score (e.g., BM25).
	Score float64
}
