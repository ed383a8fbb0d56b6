package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/ragdex-labs/ragdex-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns raw files into stored, indexed documents.
// The pipeline is: normalise -> chunk -> embed -> persist -> index.
type IngestService struct {
	registry         driven.NormaliserRegistry
	pipeline         driven.PostProcessorPipeline
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	keywordIndex     driven.KeywordIndex
	embeddingService driven.EmbeddingService
}

// NewIngestService creates a new ingest service.
// vectorIndex, keywordIndex and embeddingService are optional; ingestion
// skips the corresponding indexing step when one is nil.
func NewIngestService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	keywordIndex driven.KeywordIndex,
	embeddingService driven.EmbeddingService,
) *IngestService {
	return &IngestService{
		registry:         registry,
		pipeline:         pipeline,
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		keywordIndex:     keywordIndex,
		embeddingService: embeddingService,
	}
}

// IngestFile reads a file from disk and ingests it.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*driving.IngestResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("ingest %s: %w: is a directory", path, domain.ErrInvalidInput)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	raw := &domain.RawDocument{
		URI:      "file://" + absPath,
		MIMEType: mimeTypeForPath(absPath),
		Content:  content,
		Metadata: map[string]any{
			"filename": filepath.Base(absPath),
			"size":     info.Size(),
		},
	}

	return s.IngestRaw(ctx, raw)
}

// IngestRaw ingests an already-loaded raw document.
// Re-ingesting an existing URI replaces the previous document.
func (s *IngestService) IngestRaw(ctx context.Context, raw *domain.RawDocument) (*driving.IngestResult, error) {
	if raw == nil || raw.URI == "" {
		return nil, fmt.Errorf("ingest: %w: missing URI", domain.ErrInvalidInput)
	}

	logger.Section("Ingestion")
	logger.Debug("URI: %s, MIME type: %s, size: %d bytes", raw.URI, raw.MIMEType, len(raw.Content))

	// Resolve a normaliser for the content type
	normaliser, err := s.registry.Resolve(raw.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("resolve normaliser for %q: %w", raw.MIMEType, err)
	}

	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	doc := result.Document

	now := time.Now().UTC()
	doc.ID = uuid.New().String()
	doc.URI = raw.URI
	doc.CreatedAt = now
	doc.UpdatedAt = now

	// Chunk the document
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	// Embed the chunks in one batch
	if s.embeddingService != nil && len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Content
		}

		embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
		if len(embeddings) != len(chunks) {
			return nil, fmt.Errorf("embed chunks: expected %d embeddings, got %d", len(chunks), len(embeddings))
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}
		logger.Debug("Embedded %d chunks (%d dimensions)", len(chunks), s.embeddingService.Dimensions())
	}

	// Replace any earlier version of this URI. Deferred until the chunks
	// and embeddings exist, so a failed re-ingest keeps the old document.
	replaced, err := s.removeExisting(ctx, raw.URI)
	if err != nil {
		return nil, err
	}

	// Persist document and chunks
	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	// Index the chunks
	if err := s.indexChunks(ctx, chunks); err != nil {
		return nil, err
	}

	logger.Info("Ingested %q: %d chunks (replaced=%t)", doc.Title, len(chunks), replaced)

	return &driving.IngestResult{
		Document:   doc,
		ChunkCount: len(chunks),
		Replaced:   replaced,
	}, nil
}

// Remove deletes the document for a URI from the store and indexes.
func (s *IngestService) Remove(ctx context.Context, uri string) error {
	removed, err := s.removeExisting(ctx, uri)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("remove %s: %w", uri, domain.ErrNotFound)
	}
	logger.Info("Removed document for %s", uri)
	return nil
}

// removeExisting deletes any stored document for the URI, including its
// chunks and index entries. Returns true when a document was removed.
func (s *IngestService) removeExisting(ctx context.Context, uri string) (bool, error) {
	existing, err := s.docStore.GetDocumentByURI(ctx, uri)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup existing document: %w", err)
	}

	chunks, err := s.docStore.GetChunks(ctx, existing.ID)
	if err != nil {
		return false, fmt.Errorf("get existing chunks: %w", err)
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

	if err := s.docStore.DeleteDocument(ctx, existing.ID); err != nil {
		return false, fmt.Errorf("delete existing document: %w", err)
	}

	logger.Debug("Replaced previous document %s for %s", existing.ID, uri)
	return true, nil
}

// wellKnownMIMETypes covers extensions the platform MIME database may miss.
var wellKnownMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".json":     "application/json",
	".csv":      "text/csv",
	".log":      "text/plain",
}

// mimeTypeForPath guesses the MIME type of a file from its extension.
// Unknown extensions default to text/plain so the plaintext normaliser
// gets a chance at the content.
func mimeTypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mimeType, ok := wellKnownMIMETypes[ext]; ok {
		return mimeType
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return "text/plain"
}

// indexChunks adds chunks to the vector and keyword indexes.
func (s *IngestService) indexChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.vectorIndex != nil {
		ids := make([]string, 0, len(chunks))
		vectors := make([][]float32, 0, len(chunks))
		for _, chunk := range chunks {
			if len(chunk.Embedding) == 0 {
				continue
			}
			ids = append(ids, chunk.ID)
			vectors = append(vectors, chunk.Embedding)
		}
		if len(ids) > 0 {
			if err := s.vectorIndex.AddBatch(ctx, ids, vectors); err != nil {
				return fmt.Errorf("index vectors: %w", err)
			}
		}
	}

	if s.keywordIndex != nil {
		for _, chunk := range chunks {
			if err := s.keywordIndex.Index(ctx, chunk); err != nil {
				return fmt.Errorf("index chunk %s: %w", chunk.ID, err)
			}
		}
	}

	return nil
}
