package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storagemem "github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/storage/memory"
	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/normalisers"
	"github.com/ragdex-labs/ragdex-cli/internal/normalisers/markdown"
	"github.com/ragdex-labs/ragdex-cli/internal/normalisers/plaintext"
	"github.com/ragdex-labs/ragdex-cli/internal/postprocessors"
	"github.com/ragdex-labs/ragdex-cli/internal/postprocessors/chunker"
)

// ingestFixture bundles a service with its injected collaborators.
type ingestFixture struct {
	svc      *IngestService
	store    *storagemem.DocumentStore
	vector   *mockVectorIndex
	keyword  *mockKeywordIndex
	embedder *mockEmbeddingService
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())

	pipeline := postprocessors.NewPipeline(chunker.New())

	f := &ingestFixture{
		store:    storagemem.NewDocumentStore(),
		vector:   &mockVectorIndex{},
		keyword:  &mockKeywordIndex{},
		embedder: &mockEmbeddingService{},
	}
	f.svc = NewIngestService(registry, pipeline, f.store, f.vector, f.keyword, f.embedder)
	return f
}

func rawTextDocument(uri, content string) *domain.RawDocument {
	return &domain.RawDocument{
		URI:      uri,
		MIMEType: "text/plain",
		Content:  []byte(content),
	}
}

func TestIngestService_IngestRaw(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	result, err := f.svc.IngestRaw(ctx, rawTextDocument(
		"file:///notes/first.txt",
		"The first sentence. The second sentence. The third sentence.",
	))

	require.NoError(t, err)
	assert.NotEmpty(t, result.Document.ID)
	assert.Equal(t, "file:///notes/first.txt", result.Document.URI)
	assert.False(t, result.Replaced)
	assert.Positive(t, result.ChunkCount)
	assert.False(t, result.Document.CreatedAt.IsZero())

	// Document and chunks persisted
	doc, err := f.store.GetDocumentByURI(ctx, "file:///notes/first.txt")
	require.NoError(t, err)
	chunks, err := f.store.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, result.ChunkCount)

	// Each chunk got an embedding and went into both indexes
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Embedding)
	}
	assert.Len(t, f.vector.added, result.ChunkCount)
	assert.Len(t, f.keyword.indexed, result.ChunkCount)
}

func TestIngestService_ReplacesExistingURI(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	uri := "file:///notes/replace.txt"

	first, err := f.svc.IngestRaw(ctx, rawTextDocument(uri, "Original content here."))
	require.NoError(t, err)
	require.False(t, first.Replaced)

	second, err := f.svc.IngestRaw(ctx, rawTextDocument(uri, "Updated content here."))
	require.NoError(t, err)
	assert.True(t, second.Replaced)
	assert.NotEqual(t, first.Document.ID, second.Document.ID)

	// Only the new document remains
	docs, err := f.store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, second.Document.ID, docs[0].ID)

	// Old chunks were removed from both indexes
	assert.Len(t, f.vector.deleted, first.ChunkCount)
	assert.Len(t, f.keyword.deleted, first.ChunkCount)
}

func TestIngestService_FailedReingestKeepsPreviousDocument(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	uri := "file:///notes/keep.txt"

	first, err := f.svc.IngestRaw(ctx, rawTextDocument(uri, "Original content here."))
	require.NoError(t, err)

	f.embedder.embedErr = errors.New("embedding backend down")
	_, err = f.svc.IngestRaw(ctx, rawTextDocument(uri, "Updated content here."))
	require.Error(t, err)

	// The earlier version survives a failed replacement intact.
	docs, err := f.store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, first.Document.ID, docs[0].ID)

	chunks, err := f.store.GetChunks(ctx, first.Document.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, first.ChunkCount)
	assert.Empty(t, f.vector.deleted)
	assert.Empty(t, f.keyword.deleted)
}

func TestIngestService_MissingURI(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.IngestRaw(context.Background(), &domain.RawDocument{
		MIMEType: "text/plain",
		Content:  []byte("no uri"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestService_UnsupportedMIMEType(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.IngestRaw(context.Background(), &domain.RawDocument{
		URI:      "file:///image.png",
		MIMEType: "image/png",
		Content:  []byte{0x89, 0x50},
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIngestService_EmbeddingFailure(t *testing.T) {
	f := newIngestFixture(t)
	f.embedder.embedErr = errors.New("embedding backend down")

	_, err := f.svc.IngestRaw(context.Background(), rawTextDocument(
		"file:///notes/fail.txt", "Some content."))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed chunks")
}

func TestIngestService_WithoutEmbedder(t *testing.T) {
	f := newIngestFixture(t)
	f.svc.embeddingService = nil
	ctx := context.Background()

	result, err := f.svc.IngestRaw(ctx, rawTextDocument(
		"file:///notes/noembed.txt", "Keyword only content."))

	require.NoError(t, err)
	assert.Positive(t, result.ChunkCount)

	// No embeddings means nothing reaches the vector index,
	// but keyword indexing still happens.
	assert.Empty(t, f.vector.added)
	assert.Len(t, f.keyword.indexed, result.ChunkCount)
}

func TestIngestService_IngestFile(t *testing.T) {
	f := newIngestFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nBody text here."), 0o644))

	result, err := f.svc.IngestFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "file://"+path, result.Document.URI)
	assert.Equal(t, "readme.md", result.Document.Metadata["filename"])
	assert.Positive(t, result.ChunkCount)
}

func TestIngestService_IngestFileMissing(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.IngestFile(context.Background(), "/nonexistent/nope.txt")

	assert.Error(t, err)
}

func TestIngestService_IngestFileDirectory(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.IngestFile(context.Background(), t.TempDir())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestService_Remove(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	uri := "file:///notes/removable.txt"

	result, err := f.svc.IngestRaw(ctx, rawTextDocument(uri, "Content to remove."))
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, uri))

	_, err = f.store.GetDocumentByURI(ctx, uri)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.vector.deleted, result.ChunkCount)
	assert.Len(t, f.keyword.deleted, result.ChunkCount)
}

func TestIngestService_RemoveUnknownURI(t *testing.T) {
	f := newIngestFixture(t)

	err := f.svc.Remove(context.Background(), "file:///never/ingested.txt")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMIMETypeForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"notes.md", "text/markdown"},
		{"notes.txt", "text/plain"},
		{"data.json", "application/json"},
		{"table.csv", "text/csv"},
		{"server.log", "text/plain"},
		{"unknown.xyz", "text/plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mimeTypeForPath(tt.path), tt.path)
	}
}
