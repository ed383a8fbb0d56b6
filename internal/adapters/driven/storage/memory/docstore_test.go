package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.documents)
	assert.NotNil(t, store.chunks)
}

func TestDocumentStore_SaveDocument_Success(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	now := time.Now()
	doc := &domain.Document{
		ID:        "doc-1",
		URI:       "/path/to/document.txt",
		Title:     "Test Document",
		Metadata:  map[string]any{"author": "John Doe"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := store.SaveDocument(ctx, doc)
	require.NoError(t, err)

	saved, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", saved.ID)
	assert.Equal(t, "/path/to/document.txt", saved.URI)
	assert.Equal(t, "Test Document", saved.Title)
	assert.Equal(t, "John Doe", saved.Metadata["author"])
}

func TestDocumentStore_GetDocumentByURI(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", URI: "/docs/readme.md"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	found, err := store.GetDocumentByURI(ctx, "/docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", found.ID)

	_, err = store.GetDocumentByURI(ctx, "/docs/missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveChunks_UnknownDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	chunks := []domain.Chunk{
		{ID: "chunk-1", DocumentID: "missing-doc", Content: "orphan"},
	}

	err := store.SaveChunks(ctx, chunks)
	assert.ErrorIs(t, err, domain.ErrUnknownDocument)
}

func TestDocumentStore_SaveAndGetChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", URI: "/a.txt"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	chunks := []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "first", Position: 0},
		{ID: "chunk-2", DocumentID: "doc-1", Content: "second", Position: 1},
	}
	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)

	chunk, err := store.GetChunk(ctx, "chunk-2")
	require.NoError(t, err)
	assert.Equal(t, "second", chunk.Content)

	_, err = store.GetChunk(ctx, "chunk-99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", URI: "/a.txt"}
	require.NoError(t, store.SaveDocument(ctx, doc))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1"},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetDocumentByURI(ctx, "/a.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_Counts(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, id := range []string{"doc-1", "doc-2"} {
		require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: id, URI: "/" + id}))
	}
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1"},
		{ID: "c2", DocumentID: "doc-1"},
	}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c3", DocumentID: "doc-2"},
	}))

	docs, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, docs)

	chunks, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, chunks)
}

func TestDocumentStore_Clear(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", URI: "/a"}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{{ID: "c1", DocumentID: "doc-1"}}))

	require.NoError(t, store.Clear(ctx))

	docs, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, docs)

	chunks, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, chunks)
}

func TestDocumentStore_ConcurrentAccess(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			doc := &domain.Document{ID: string(rune('a' + n)), URI: "/doc"}
			_ = store.SaveDocument(ctx, doc)
			_, _ = store.ListDocuments(ctx)
			_, _ = store.CountDocuments(ctx)
		}(i)
	}
	wg.Wait()
}
