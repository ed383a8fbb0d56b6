package driving

import (
	"context"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

// IngestService turns raw files into indexed documents.
type IngestService interface {
	// IngestFile reads a file from disk and ingests it.
	IngestFile(ctx context.Context, path string) (*IngestResult, error)

	// IngestRaw ingests an already-loaded raw document.
	// Re-ingesting an existing URI replaces the previous document.
	IngestRaw(ctx context.Context, raw *domain.RawDocument) (*IngestResult, error)

	// Remove deletes the document for a URI from the store and indexes.
	Remove(ctx context.Context, uri string) error
}

// IngestResult reports the outcome of a single ingestion.
type IngestResult struct {
	// Document is the stored document.
	Document domain.Document

	// ChunkCount is the number of chunks produced.
	ChunkCount int

	// Replaced is true when an earlier version of the URI was removed.
	Replaced bool
}
