package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/ragdex-labs/ragdex-cli/internal/logger"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingested documents.
type DocumentService struct {
	docStore     driven.DocumentStore
	vectorIndex  driven.VectorIndex
	keywordIndex driven.KeywordIndex
}

// NewDocumentService creates a new document service.
// vectorIndex and keywordIndex are optional; Delete skips a nil index.
func NewDocumentService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	keywordIndex driven.KeywordIndex,
) *DocumentService {
	return &DocumentService{
		docStore:     docStore,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
	}
}

// List returns all documents in the library.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// GetContent returns the concatenated content of all chunks.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	// Verify the document exists first for a clean not-found error
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return "", fmt.Errorf("get document: %w", err)
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("get chunks: %w", err)
	}

	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = chunk.Content
	}
	return strings.Join(parts, "\n\n"), nil
}

// GetDetails returns document metadata for display.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}

	tokenCount := 0
	for _, chunk := range chunks {
		tokenCount += chunk.TokenCount
	}

	metadata := make(map[string]string, len(doc.Metadata))
	for key, value := range doc.Metadata {
		metadata[key] = fmt.Sprintf("%v", value)
	}

	return &driving.DocumentDetails{
		ID:         doc.ID,
		Title:      doc.Title,
		URI:        doc.URI,
		ChunkCount: len(chunks),
		TokenCount: tokenCount,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
		Metadata:   metadata,
	}, nil
}

// Delete removes a document from the store and both indexes.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	// Collect chunk IDs before the store cascade removes them
	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get chunks: %w", err)
	}

	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	for _, chunk := range chunks {
		if s.vectorIndex != nil {
			if err := s.vectorIndex.Delete(ctx, chunk.ID); err != nil {
				logger.Warn("Failed to remove chunk %s from vector index: %v", chunk.ID, err)
			}
		}
		if s.keywordIndex != nil {
			if err := s.keywordIndex.Delete(ctx, chunk.ID); err != nil {
				logger.Warn("Failed to remove chunk %s from keyword index: %v", chunk.ID, err)
			}
		}
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Deleted document %s (%d chunks)", documentID, len(chunks))
	return nil
}
