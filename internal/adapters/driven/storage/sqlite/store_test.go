package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "ragdex-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestDocument creates a test document to satisfy foreign key constraints.
func createTestDocument(t *testing.T, store *Store, docID string) {
	t.Helper()
	ctx := context.Background()
	docStore := store.DocumentStore()
	now := time.Now().UTC().Truncate(time.Second)
	doc := &domain.Document{
		ID:        docID,
		URI:       "file:///test/" + docID,
		Title:     "Test Document " + docID,
		Metadata:  map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := docStore.SaveDocument(ctx, doc)
	require.NoError(t, err)
}

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "ragdex-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "metadata.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	err = store.db.Ping()
	assert.NoError(t, err)
}

func TestDocumentStore_SaveAndGetDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()

	now := time.Now().UTC().Truncate(time.Second)
	doc := &domain.Document{
		ID:        "doc-1",
		URI:       "file:///notes/intro.md",
		Title:     "Introduction",
		Content:   "Some content here.",
		Metadata:  map[string]any{"mime_type": "text/markdown"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	require.NoError(t, docStore.SaveDocument(ctx, doc))

	got, err := docStore.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.URI, got.URI)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, "text/markdown", got.Metadata["mime_type"])
}

func TestDocumentStore_GetDocumentNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_GetDocumentByURI(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	createTestDocument(t, store, "doc-1")

	got, err := store.DocumentStore().GetDocumentByURI(ctx, "file:///test/doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)

	_, err = store.DocumentStore().GetDocumentByURI(ctx, "file:///nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveDocumentUpsert(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	createTestDocument(t, store, "doc-1")

	now := time.Now().UTC().Truncate(time.Second)
	updated := &domain.Document{
		ID:        "doc-1",
		URI:       "file:///test/doc-1",
		Title:     "Updated Title",
		Content:   "New content.",
		CreatedAt: now,
		UpdatedAt: now.Add(time.Hour),
	}
	require.NoError(t, docStore.SaveDocument(ctx, updated))

	got, err := docStore.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", got.Title)

	count, err := docStore.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDocumentStore_SaveAndGetChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{
			ID:         "chunk-1",
			DocumentID: "doc-1",
			Content:    "First chunk.",
			Position:   0,
			TokenCount: 2,
			Embedding:  []float32{0.1, 0.2, 0.3},
			Metadata:   map[string]any{"section": "intro"},
		},
		{
			ID:         "chunk-2",
			DocumentID: "doc-1",
			Content:    "Second chunk.",
			Position:   1,
			TokenCount: 2,
			Embedding:  []float32{0.4, 0.5, 0.6},
		},
	}
	require.NoError(t, docStore.SaveChunks(ctx, chunks))

	got, err := docStore.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by position
	assert.Equal(t, "chunk-1", got[0].ID)
	assert.Equal(t, "chunk-2", got[1].ID)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got[0].Embedding)
	assert.Equal(t, 2, got[0].TokenCount)
	assert.Equal(t, "intro", got[0].Metadata["section"])
}

func TestDocumentStore_SaveChunksUnknownDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	chunks := []domain.Chunk{
		{ID: "chunk-1", DocumentID: "no-such-doc", Content: "orphan"},
	}
	err := store.DocumentStore().SaveChunks(context.Background(), chunks)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownDocument)
}

func TestDocumentStore_GetChunk(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "Content.", Embedding: []float32{1, 2}},
	}
	require.NoError(t, docStore.SaveChunks(ctx, chunks))

	got, err := docStore.GetChunk(ctx, "chunk-1")
	require.NoError(t, err)
	assert.Equal(t, "Content.", got.Content)
	assert.Equal(t, []float32{1, 2}, got.Embedding)

	_, err = docStore.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteDocumentCascades(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "Content."},
	}
	require.NoError(t, docStore.SaveChunks(ctx, chunks))

	require.NoError(t, docStore.DeleteDocument(ctx, "doc-1"))

	_, err := docStore.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := docStore.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDocumentStore_ListDocuments(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	createTestDocument(t, store, "doc-1")
	createTestDocument(t, store, "doc-2")

	docs, err := store.DocumentStore().ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentStore_Counts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	createTestDocument(t, store, "doc-1")
	createTestDocument(t, store, "doc-2")

	chunks := []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "a"},
		{ID: "chunk-2", DocumentID: "doc-1", Content: "b"},
		{ID: "chunk-3", DocumentID: "doc-2", Content: "c"},
	}
	require.NoError(t, docStore.SaveChunks(ctx, chunks))

	docCount, err := docStore.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, docCount)

	chunkCount, err := docStore.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, chunkCount)
}

func TestDocumentStore_Clear(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "a"},
	}
	require.NoError(t, docStore.SaveChunks(ctx, chunks))

	require.NoError(t, docStore.Clear(ctx))

	docCount, err := docStore.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, docCount)

	chunkCount, err := docStore.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, chunkCount)
}

func TestFloat32SliceRoundTrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.75, 0}

	bytes := float32SliceToBytes(original)
	restored := bytesToFloat32Slice(bytes)

	assert.Equal(t, original, restored)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
