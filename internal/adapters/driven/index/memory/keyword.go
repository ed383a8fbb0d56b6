package memory

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure KeywordIndex implements the interface.
var _ driven.KeywordIndex = (*KeywordIndex)(nil)

// BM25 parameters. k1 controls term frequency saturation, b controls
// document length normalisation. The values are the standard defaults.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// wordRe matches unicode word tokens, keeping inner apostrophes.
var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// KeywordIndex is an in-memory inverted index with BM25 scoring.
type KeywordIndex struct {
	mu sync.RWMutex

	// postings maps term -> chunkID -> term frequency.
	postings map[string]map[string]int

	// lengths maps chunkID -> token count.
	lengths map[string]int

	totalLength int
}

// NewKeywordIndex creates an empty keyword index.
func NewKeywordIndex() *KeywordIndex {
	return &KeywordIndex{
		postings: make(map[string]map[string]int),
		lengths:  make(map[string]int),
	}
}

// Index adds or updates a chunk in the keyword index.
func (idx *KeywordIndex) Index(_ context.Context, chunk domain.Chunk) error {
	if chunk.ID == "" {
		return domain.ErrInvalidInput
	}

	tokens := Tokenise(chunk.Content)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(chunk.ID)

	for _, token := range tokens {
		chunks, ok := idx.postings[token]
		if !ok {
			chunks = make(map[string]int)
			idx.postings[token] = chunks
		}
		chunks[chunk.ID]++
	}
	idx.lengths[chunk.ID] = len(tokens)
	idx.totalLength += len(tokens)

	return nil
}

// Delete removes a chunk from the keyword index.
func (idx *KeywordIndex) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(chunkID)
	return nil
}

// removeLocked removes all postings for a chunk. Caller must hold the lock.
func (idx *KeywordIndex) removeLocked(chunkID string) {
	length, ok := idx.lengths[chunkID]
	if !ok {
		return
	}
	for term, chunks := range idx.postings {
		delete(chunks, chunkID)
		if len(chunks) == 0 {
			delete(idx.postings, term)
		}
	}
	delete(idx.lengths, chunkID)
	idx.totalLength -= length
}

// Search performs a BM25 keyword search.
func (idx *KeywordIndex) Search(_ context.Context, query string, limit int) ([]driven.KeywordHit, error) {
	terms := Tokenise(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := len(idx.lengths)
	if n == 0 {
		return nil, nil
	}
	avgLength := float64(idx.totalLength) / float64(n)

	scores := make(map[string]float64)
	for _, term := range terms {
		chunks, ok := idx.postings[term]
		if !ok {
			continue
		}

		// BM25 idf with the +1 smoothing to keep scores positive
		idf := math.Log(1 + (float64(n)-float64(len(chunks))+0.5)/(float64(len(chunks))+0.5))

		for chunkID, tf := range chunks {
			length := float64(idx.lengths[chunkID])
			norm := 1 - bm25B + bm25B*(length/avgLength)
			scores[chunkID] += idf * (float64(tf) * (bm25K1 + 1)) / (float64(tf) + bm25K1*norm)
		}
	}

	hits := make([]driven.KeywordHit, 0, len(scores))
	for chunkID, score := range scores {
		hits = append(hits, driven.KeywordHit{ChunkID: chunkID, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if limit > len(hits) {
		limit = len(hits)
	}
	return hits[:limit], nil
}

// Len returns the number of indexed chunks.
func (idx *KeywordIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.lengths)
}

// Clear removes all indexed chunks.
func (idx *KeywordIndex) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.postings = make(map[string]map[string]int)
	idx.lengths = make(map[string]int)
	idx.totalLength = 0
	return nil
}

// Close releases resources.
func (idx *KeywordIndex) Close() error {
	return nil
}

// Tokenise lowercases text and extracts word and number tokens.
func Tokenise(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}
