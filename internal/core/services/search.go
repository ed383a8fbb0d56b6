package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/ragdex-labs/ragdex-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Default fusion weights. Vector similarity carries most of the signal,
// keyword matching acts as a tie-breaker for exact terms.
const (
	DefaultVectorWeight  = 0.7
	DefaultKeywordWeight = 0.3
)

// scoredChunk holds intermediate search results before hydration.
type scoredChunk struct {
	chunkID      string
	score        float64
	keywordScore float64
	vectorScore  float64
}

// SearchService provides keyword, vector and hybrid search.
type SearchService struct {
	docStore         driven.DocumentStore
	keywordIndex     driven.KeywordIndex
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService

	vectorWeight  float64
	keywordWeight float64
}

// SearchOption configures the SearchService.
type SearchOption func(*SearchService)

// WithFusionWeights sets the hybrid fusion weights.
// Non-positive weights keep the defaults.
func WithFusionWeights(vector, keyword float64) SearchOption {
	return func(s *SearchService) {
		if vector > 0 {
			s.vectorWeight = vector
		}
		if keyword > 0 {
			s.keywordWeight = keyword
		}
	}
}

// NewSearchService creates a new search service.
// The embeddingService parameter is optional (can be nil); without it
// vector and hybrid searches degrade to keyword search.
func NewSearchService(
	docStore driven.DocumentStore,
	keywordIndex driven.KeywordIndex,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	opts ...SearchOption,
) *SearchService {
	s := &SearchService{
		docStore:         docStore,
		keywordIndex:     keywordIndex,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		vectorWeight:     DefaultVectorWeight,
		keywordWeight:    DefaultKeywordWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search performs retrieval across all indexed documents.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	// Return empty for empty query
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	// Determine limit (default to 20)
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	logger.Debug("Limit: %d, Offset: %d", limit, opts.Offset)

	// Request more results internally so pagination has room after fusion
	internalLimit := (limit + opts.Offset) * 2

	// Determine effective search mode based on options and available services
	mode, err := s.effectiveMode(opts.Mode)
	if err != nil {
		return nil, err
	}
	logger.Info("Effective search mode: %s", mode.Description())

	var chunks []scoredChunk

	switch mode {
	case domain.SearchModeKeyword:
		logger.Debug("Executing keyword search")
		chunks, err = s.keywordSearch(ctx, query, internalLimit)

	case domain.SearchModeVector:
		logger.Debug("Executing vector search")
		chunks, err = s.vectorSearch(ctx, query, internalLimit)

	case domain.SearchModeHybrid:
		logger.Debug("Executing hybrid search (keyword + vector)")
		chunks, err = s.hybridSearch(ctx, query, internalLimit)

	default:
		logger.Debug("Fallback to keyword search")
		chunks, err = s.keywordSearch(ctx, query, internalLimit)
	}

	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Debug("Raw results: %d chunks", len(chunks))

	// Hydrate results with full document data
	results, err := s.hydrateResults(ctx, chunks, query)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}

	// Apply pagination
	results = applyPagination(results, opts.Offset, limit)
	logger.Info("Final results: %d", len(results))

	return results, nil
}

// effectiveMode resolves the requested mode against available services.
// Auto picks the best available strategy; explicit modes fail when their
// services are missing, except hybrid which degrades to keyword search.
func (s *SearchService) effectiveMode(requested domain.SearchMode) (domain.SearchMode, error) {
	canDoKeyword := s.keywordIndex != nil
	canDoVector := s.vectorIndex != nil && s.embeddingService != nil

	switch requested {
	case domain.SearchModeKeyword:
		if !canDoKeyword {
			return 0, domain.ErrKeywordIndexUnavailable
		}
		return domain.SearchModeKeyword, nil

	case domain.SearchModeVector:
		if s.vectorIndex == nil {
			return 0, domain.ErrVectorIndexUnavailable
		}
		if s.embeddingService == nil {
			return 0, domain.ErrEmbeddingUnavailable
		}
		return domain.SearchModeVector, nil

	case domain.SearchModeHybrid:
		if canDoVector && canDoKeyword {
			return domain.SearchModeHybrid, nil
		}
		if canDoVector {
			return domain.SearchModeVector, nil
		}
		if canDoKeyword {
			logger.Warn("Hybrid search degraded to keyword: vector services unavailable")
			return domain.SearchModeKeyword, nil
		}
		return 0, domain.ErrKeywordIndexUnavailable

	default: // SearchModeAuto
		if canDoVector && canDoKeyword {
			return domain.SearchModeHybrid, nil
		}
		if canDoVector {
			return domain.SearchModeVector, nil
		}
		if canDoKeyword {
			return domain.SearchModeKeyword, nil
		}
		return 0, domain.ErrKeywordIndexUnavailable
	}
}

// keywordSearch performs BM25 search over the inverted index.
func (s *SearchService) keywordSearch(ctx context.Context, query string, limit int) ([]scoredChunk, error) {
	if s.keywordIndex == nil {
		return nil, domain.ErrKeywordIndexUnavailable
	}

	hits, err := s.keywordIndex.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	logger.Debug("Keyword search: %d hits", len(hits))

	results := make([]scoredChunk, len(hits))
	for i, hit := range hits {
		results[i] = scoredChunk{
			chunkID:      hit.ChunkID,
			score:        hit.Score,
			keywordScore: hit.Score,
		}
	}

	return results, nil
}

// vectorSearch performs cosine similarity search over chunk embeddings.
func (s *SearchService) vectorSearch(ctx context.Context, query string, limit int) ([]scoredChunk, error) {
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Debug("Generating query embedding...")
	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	hits, err := s.vectorIndex.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	logger.Debug("Vector search: %d hits", len(hits))

	results := make([]scoredChunk, len(hits))
	for i, hit := range hits {
		results[i] = scoredChunk{
			chunkID:     hit.ChunkID,
			score:       hit.Similarity,
			vectorScore: hit.Similarity,
		}
	}

	return results, nil
}

// hybridSearch combines keyword and vector search using weighted score fusion.
func (s *SearchService) hybridSearch(ctx context.Context, query string, limit int) ([]scoredChunk, error) {
	logger.Debug("Hybrid search: running keyword and vector searches in parallel")

	var keywordResults, vectorResults []scoredChunk
	var keywordErr, vectorErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		keywordResults, keywordErr = s.keywordSearch(ctx, query, limit)
	}()

	go func() {
		defer wg.Done()
		vectorResults, vectorErr = s.vectorSearch(ctx, query, limit)
	}()

	wg.Wait()

	// Degrade gracefully if one side fails
	if keywordErr != nil && vectorErr != nil {
		logger.Warn("Hybrid search: both keyword and vector searches failed")
		return nil, fmt.Errorf("hybrid search: keyword=%w, vector=%w", keywordErr, vectorErr)
	}
	if keywordErr != nil {
		logger.Warn("Hybrid search: keyword search failed, using vector results only")
		return vectorResults, nil
	}
	if vectorErr != nil {
		logger.Warn("Hybrid search: vector search failed, using keyword results only")
		return keywordResults, nil
	}

	logger.Debug("Hybrid search: fusing %d keyword + %d vector results (weights %.2f/%.2f)",
		len(keywordResults), len(vectorResults), s.vectorWeight, s.keywordWeight)
	merged := s.fuseScores(keywordResults, vectorResults)
	logger.Debug("Hybrid search: merged to %d results", len(merged))

	return merged, nil
}

// fuseScores merges keyword and vector hits with a weighted linear
// combination. BM25 scores are unbounded, so they are min-max normalised
// into [0, 1] first; cosine similarities are clamped at zero. A chunk
// found by both searches gets both contributions.
func (s *SearchService) fuseScores(keywordResults, vectorResults []scoredChunk) []scoredChunk {
	merged := make(map[string]*scoredChunk)

	normalised := normaliseKeywordScores(keywordResults)
	for _, kw := range keywordResults {
		merged[kw.chunkID] = &scoredChunk{
			chunkID:      kw.chunkID,
			keywordScore: normalised[kw.chunkID],
		}
	}

	for _, vec := range vectorResults {
		similarity := vec.vectorScore
		if similarity < 0 {
			similarity = 0
		}
		if existing, ok := merged[vec.chunkID]; ok {
			existing.vectorScore = similarity
		} else {
			merged[vec.chunkID] = &scoredChunk{
				chunkID:     vec.chunkID,
				vectorScore: similarity,
			}
		}
	}

	results := make([]scoredChunk, 0, len(merged))
	for _, sc := range merged {
		sc.score = s.vectorWeight*sc.vectorScore + s.keywordWeight*sc.keywordScore
		results = append(results, *sc)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].chunkID < results[j].chunkID
	})

	return results
}

// normaliseKeywordScores min-max normalises BM25 scores into [0, 1].
// A single hit, or identical scores, map to 1.
func normaliseKeywordScores(results []scoredChunk) map[string]float64 {
	normalised := make(map[string]float64, len(results))
	if len(results) == 0 {
		return normalised
	}

	minScore, maxScore := results[0].keywordScore, results[0].keywordScore
	for _, r := range results[1:] {
		if r.keywordScore < minScore {
			minScore = r.keywordScore
		}
		if r.keywordScore > maxScore {
			maxScore = r.keywordScore
		}
	}

	spread := maxScore - minScore
	for _, r := range results {
		if spread == 0 {
			normalised[r.chunkID] = 1
		} else {
			normalised[r.chunkID] = (r.keywordScore - minScore) / spread
		}
	}

	return normalised
}

// hydrateResults converts chunk IDs to full SearchResult objects.
func (s *SearchService) hydrateResults(
	ctx context.Context, chunks []scoredChunk, query string,
) ([]domain.SearchResult, error) {
	if s.docStore == nil {
		return nil, errors.New("document store unavailable")
	}

	results := make([]domain.SearchResult, 0, len(chunks))

	for _, sc := range chunks {
		chunk, err := s.docStore.GetChunk(ctx, sc.chunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Chunk was deleted, skip it
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", sc.chunkID, err)
		}

		doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Document was deleted, skip it
				continue
			}
			return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
		}

		results = append(results, domain.SearchResult{
			Document:     *doc,
			Chunk:        *chunk,
			Score:        sc.score,
			KeywordScore: sc.keywordScore,
			VectorScore:  sc.vectorScore,
			Highlights:   generateHighlights(chunk.Content, query),
		})
	}

	return results, nil
}

// generateHighlights creates text snippets containing matched terms.
func generateHighlights(content, query string) []string {
	queryTerms := strings.Fields(strings.ToLower(query))
	if len(queryTerms) == 0 {
		return nil
	}

	sentences := splitSentences(content)

	var highlights []string
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		sentenceLower := strings.ToLower(sentence)
		for _, term := range queryTerms {
			if strings.Contains(sentenceLower, term) {
				highlight := sentence
				if len(highlight) > 200 {
					highlight = highlight[:200] + "..."
				}
				highlights = append(highlights, highlight)
				break
			}
		}

		if len(highlights) >= 3 {
			break // Limit to 3 highlights
		}
	}

	return highlights
}

// splitSentences splits content into sentences by common terminators.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// applyPagination applies offset and limit to results.
func applyPagination(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset >= len(results) {
		return []domain.SearchResult{}
	}

	end := offset + limit
	if end > len(results) {
		end = len(results)
	}

	return results[offset:end]
}
