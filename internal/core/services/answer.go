package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/ragdex-labs/ragdex-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// DefaultTopK is the number of context chunks retrieved per question.
const DefaultTopK = 5

// defaultAnswerPrompt is the fallback template when no PromptStore is configured.
const defaultAnswerPrompt = `Answer the question using ONLY the context below. If the context does not
contain the answer, say so instead of guessing. Cite the source titles you used.

Context:
%s

Question: %s

Answer:`

// AnswerService answers questions with retrieval-augmented generation.
// It retrieves relevant chunks via the search service, renders them into
// the answer prompt, and generates a response with the configured LLM.
type AnswerService struct {
	search      driving.SearchService
	llmService  driven.LLMService
	promptStore driven.PromptStore
}

// NewAnswerService creates a new answer service.
// The llmService is optional; without it Ask returns domain.ErrLLMUnavailable.
func NewAnswerService(search driving.SearchService, llmService driven.LLMService) *AnswerService {
	return &AnswerService{
		search:     search,
		llmService: llmService,
	}
}

// SetPromptStore sets the prompt store for loading the answer template.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ask retrieves relevant chunks and generates an answer.
func (s *AnswerService) Ask(
	ctx context.Context, question string, opts driving.AskOptions,
) (*domain.Answer, error) {
	if s.llmService == nil {
		return nil, domain.ErrLLMUnavailable
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("ask: %w: empty question", domain.ErrInvalidInput)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Section("Answer Generation")
	logger.Debug("Question: %q, topK: %d", question, topK)

	// Retrieve context chunks
	results, err := s.search.Search(ctx, question, domain.SearchOptions{
		Limit: topK,
		Mode:  opts.Mode,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	logger.Debug("Retrieved %d context chunks", len(results))

	if len(results) == 0 {
		return &domain.Answer{
			Text:  "No relevant documents found for this question.",
			Model: s.llmService.ModelName(),
		}, nil
	}

	// Render the prompt
	contextBlock := buildContextBlock(results)
	promptTemplate := s.loadAnswerPrompt()
	prompt := fmt.Sprintf(promptTemplate, contextBlock, question)

	// Generate the answer
	text, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   opts.MaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]domain.SourceAttribution, len(results))
	for i, result := range results {
		sources[i] = domain.SourceAttribution{
			DocumentID: result.Document.ID,
			Title:      result.Document.Title,
			ChunkID:    result.Chunk.ID,
			Score:      result.Score,
		}
	}

	logger.Info("Generated answer from %d sources", len(sources))

	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Model:   s.llmService.ModelName(),
		Sources: sources,
	}, nil
}

// loadAnswerPrompt loads the answer template, falling back to the default.
func (s *AnswerService) loadAnswerPrompt() string {
	if s.promptStore == nil {
		return defaultAnswerPrompt
	}
	prompt, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil {
		return defaultAnswerPrompt
	}
	return prompt
}

// buildContextBlock renders retrieved chunks into the prompt context.
// Each chunk is labelled with its source title so the model can cite it.
func buildContextBlock(results []domain.SearchResult) string {
	var sb strings.Builder
	for i, result := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] %s\n%s", i+1, result.Document.Title, result.Chunk.Content)
	}
	return sb.String()
}
