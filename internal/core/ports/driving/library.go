package driving

import (
	"context"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

// LibraryService reports on and resets the document library as a whole.
type LibraryService interface {
	// Stats returns counts for documents, chunks and index entries.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Clear removes all documents, chunks, vectors and keyword postings.
	Clear(ctx context.Context) error
}
