package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "ragdex://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractDocumentID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func newResourceRequest(uri string) *mcp.ReadResourceRequest {
	req := &mcp.ReadResourceRequest{}
	req.Params = &mcp.ReadResourceParams{URI: uri}
	return req
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents", func(t *testing.T) {
		mockDocs := &mockDocumentService{
			documents: []domain.Document{
				{ID: "doc-1", Title: "First", URI: "file:///a.txt"},
				{ID: "doc-2", Title: "Second", URI: "file:///b.txt"},
			},
		}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: mockDocs})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, newResourceRequest("ragdex://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "doc-1")
		assert.Contains(t, result.Contents[0].Text, "Second")
	})

	t.Run("empty list without document service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, newResourceRequest("ragdex://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("propagates list failure", func(t *testing.T) {
		mockDocs := &mockDocumentService{err: errors.New("store offline")}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: mockDocs})
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, newResourceRequest("ragdex://documents"))

		assert.Error(t, err)
	})
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns content", func(t *testing.T) {
		mockDocs := &mockDocumentService{content: "document body"}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: mockDocs})
		require.NoError(t, err)

		result, err := server.handleDocumentContentResource(ctx,
			newResourceRequest("ragdex://documents/doc-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "document body", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("not found without document service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, err = server.handleDocumentContentResource(ctx,
			newResourceRequest("ragdex://documents/doc-1"))

		assert.Error(t, err)
	})

	t.Run("not found for malformed URI", func(t *testing.T) {
		mockDocs := &mockDocumentService{content: "document body"}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: mockDocs})
		require.NoError(t, err)

		_, err = server.handleDocumentContentResource(ctx,
			newResourceRequest("ragdex://somewhere/else"))

		assert.Error(t, err)
	})
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stats", func(t *testing.T) {
		mockLibrary := &mockLibraryService{
			stats: &domain.Stats{Documents: 3, Chunks: 12, Vectors: 12, KeywordChunks: 12},
		}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Library: mockLibrary})
		require.NoError(t, err)

		result, err := server.handleStatsResource(ctx, newResourceRequest("ragdex://stats"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "3")
		assert.Contains(t, result.Contents[0].Text, "12")
	})

	t.Run("not found without library service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, err = server.handleStatsResource(ctx, newResourceRequest("ragdex://stats"))

		assert.Error(t, err)
	})
}
