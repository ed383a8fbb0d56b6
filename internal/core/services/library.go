package services

import (
	"context"
	"fmt"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/ragdex-labs/ragdex-cli/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService reports on and resets the document library as a whole.
type LibraryService struct {
	docStore     driven.DocumentStore
	vectorIndex  driven.VectorIndex
	keywordIndex driven.KeywordIndex
}

// NewLibraryService creates a new library service.
// vectorIndex and keywordIndex are optional; their counts read as zero
// and Clear skips them when nil.
func NewLibraryService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	keywordIndex driven.KeywordIndex,
) *LibraryService {
	return &LibraryService{
		docStore:     docStore,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
	}
}

// Stats returns counts for documents, chunks and index entries.
func (s *LibraryService) Stats(ctx context.Context) (*domain.Stats, error) {
	documents, err := s.docStore.CountDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	chunks, err := s.docStore.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}

	stats := &domain.Stats{
		Documents: documents,
		Chunks:    chunks,
	}
	if s.vectorIndex != nil {
		stats.Vectors = s.vectorIndex.Len()
	}
	if s.keywordIndex != nil {
		stats.KeywordChunks = s.keywordIndex.Len()
	}

	return stats, nil
}

// Clear removes all documents, chunks, vectors and keyword postings.
func (s *LibraryService) Clear(ctx context.Context) error {
	logger.Section("Library Clear")

	if err := s.docStore.Clear(ctx); err != nil {
		return fmt.Errorf("clear document store: %w", err)
	}
	if s.vectorIndex != nil {
		if err := s.vectorIndex.Clear(ctx); err != nil {
			return fmt.Errorf("clear vector index: %w", err)
		}
	}
	if s.keywordIndex != nil {
		if err := s.keywordIndex.Clear(ctx); err != nil {
			return fmt.Errorf("clear keyword index: %w", err)
		}
	}

	logger.Info("Library cleared")
	return nil
}
