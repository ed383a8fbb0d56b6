package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a brute-force cosine similarity index.
// Linear scan is adequate for local document libraries; an ANN
// structure only pays off well past the ten-thousand-chunk mark.
type VectorIndex struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewVectorIndex creates an empty vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		vectors: make(map[string][]float32),
	}
}

// Add inserts a vector for the given chunk ID.
func (idx *VectorIndex) Add(_ context.Context, chunkID string, embedding []float32) error {
	if len(embedding) == 0 {
		return domain.ErrInvalidInput
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	idx.vectors[chunkID] = vec
	return nil
}

// AddBatch inserts vectors for multiple chunks.
func (idx *VectorIndex) AddBatch(ctx context.Context, chunkIDs []string, embeddings [][]float32) error {
	if len(chunkIDs) != len(embeddings) {
		return domain.ErrInvalidInput
	}
	for i := range chunkIDs {
		if err := idx.Add(ctx, chunkIDs[i], embeddings[i]); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a vector from the index.
func (idx *VectorIndex) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.vectors, chunkID)
	return nil
}

// Search finds the k nearest neighbours to the query vector.
func (idx *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if k <= 0 {
		k = 10
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(idx.vectors))
	for chunkID, vec := range idx.vectors {
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Similarity: CosineSimilarity(query, vec),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len returns the number of vectors in the index.
func (idx *VectorIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Clear removes all vectors.
func (idx *VectorIndex) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.vectors = make(map[string][]float32)
	return nil
}

// Close releases resources.
func (idx *VectorIndex) Close() error {
	return nil
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// The result is symmetric and bounded in [-1, 1]; mismatched lengths
// compare over the shorter prefix and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Guard against floating point drift outside [-1, 1]
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}
