package driving

import (
	"context"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

// SearchService provides retrieval capabilities to external actors.
type SearchService interface {
	// Search performs retrieval across all indexed documents.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
