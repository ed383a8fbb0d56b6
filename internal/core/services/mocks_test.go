package services

import (
	"context"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockKeywordIndex implements driven.KeywordIndex for testing.
type mockKeywordIndex struct {
	hits      []driven.KeywordHit
	indexed   []domain.Chunk
	deleted   []string
	cleared   bool
	searchErr error
	indexErr  error
	deleteErr error
}

func (m *mockKeywordIndex) Index(_ context.Context, chunk domain.Chunk) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexed = append(m.indexed, chunk)
	return nil
}

func (m *mockKeywordIndex) Delete(_ context.Context, chunkID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, chunkID)
	return nil
}

func (m *mockKeywordIndex) Search(_ context.Context, _ string, limit int) ([]driven.KeywordHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:limit], nil
}

func (m *mockKeywordIndex) Len() int {
	return len(m.indexed)
}

func (m *mockKeywordIndex) Clear(_ context.Context) error {
	m.cleared = true
	m.indexed = nil
	return nil
}

func (m *mockKeywordIndex) Close() error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	added     []string
	deleted   []string
	cleared   bool
	searchErr error
	addErr    error
	deleteErr error
}

func (m *mockVectorIndex) Add(_ context.Context, chunkID string, _ []float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, chunkID)
	return nil
}

func (m *mockVectorIndex) AddBatch(_ context.Context, chunkIDs []string, _ [][]float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, chunkIDs...)
	return nil
}

func (m *mockVectorIndex) Delete(_ context.Context, chunkID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, chunkID)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int {
	return len(m.added)
}

func (m *mockVectorIndex) Clear(_ context.Context) error {
	m.cleared = true
	m.added = nil
	return nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	dims      int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embedding != nil {
		return m.embedding, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		vec, _ := m.Embed(ctx, texts[i])
		result[i] = vec
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	generateResult string
	generateErr    error
	prompts        []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	m.prompts = append(m.prompts, prompt)
	if m.generateResult != "" {
		return m.generateResult, nil
	}
	return "generated answer", nil
}

func (m *mockLLMService) RewriteQuery(_ context.Context, query string) (string, error) {
	return query + " expanded", nil
}

func (m *mockLLMService) Summarise(_ context.Context, _ string, _ int) (string, error) {
	return "summary", nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}
