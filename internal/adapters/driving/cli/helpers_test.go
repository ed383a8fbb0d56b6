package cli

import (
	"context"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
)

// mockSearchService returns canned results.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context, _ string, _ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockAnswerService returns a canned answer.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAnswerService) Ask(
	_ context.Context, _ string, _ driving.AskOptions,
) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockDocumentService returns canned documents.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	details   *driving.DocumentDetails
	deleted   []string
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockLibraryService returns canned stats.
type mockLibraryService struct {
	stats   *domain.Stats
	cleared bool
	err     error
}

func (m *mockLibraryService) Stats(_ context.Context) (*domain.Stats, error) {
	return m.stats, m.err
}

func (m *mockLibraryService) Clear(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	return nil
}

// mockIngestService records ingested paths.
type mockIngestService struct {
	result *driving.IngestResult
	err    error
	paths  []string
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*driving.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.paths = append(m.paths, path)
	return m.result, nil
}

func (m *mockIngestService) IngestRaw(_ context.Context, raw *domain.RawDocument) (*driving.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.paths = append(m.paths, raw.URI)
	return m.result, nil
}

func (m *mockIngestService) Remove(_ context.Context, _ string) error {
	return m.err
}

// setupTestServices replaces the package services with mocks and
// returns a cleanup that restores the previous state.
func setupTestServices() func() {
	oldSearch := searchService
	oldAnswer := answerService
	oldDocument := documentService
	oldLibrary := libraryService
	oldIngest := ingestService

	searchService = &mockSearchService{
		results: []domain.SearchResult{
			{
				Document:   domain.Document{ID: "doc-1", Title: "Mock Doc", URI: "file:///mock.txt"},
				Chunk:      domain.Chunk{ID: "chunk-1", Content: "mock content"},
				Score:      0.9,
				Highlights: []string{"mock content"},
			},
		},
	}
	answerService = &mockAnswerService{
		answer: &domain.Answer{
			Text:  "mock answer",
			Model: "mock-model",
			Sources: []domain.SourceAttribution{
				{DocumentID: "doc-1", Title: "Mock Doc", Score: 0.9},
			},
		},
	}
	documentService = &mockDocumentService{
		documents: []domain.Document{
			{ID: "doc-1", Title: "Mock Doc", URI: "file:///mock.txt"},
		},
	}
	libraryService = &mockLibraryService{
		stats: &domain.Stats{Documents: 1, Chunks: 4, Vectors: 4, KeywordChunks: 4},
	}
	ingestService = &mockIngestService{
		result: &driving.IngestResult{
			Document:   domain.Document{ID: "doc-1", Title: "Mock Doc"},
			ChunkCount: 4,
		},
	}

	return func() {
		searchService = oldSearch
		answerService = oldAnswer
		documentService = oldDocument
		libraryService = oldLibrary
		ingestService = oldIngest
	}
}
