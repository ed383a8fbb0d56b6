// Package local provides a deterministic offline embedding service.
//
// The embedder derives a pseudo-random unit vector from a hash of the
// input text. The same text always produces the same vector, so identical
// chunks stay identical in the index, while unrelated texts land in
// effectively random directions. It carries no semantic signal and exists
// so the full ingestion and search pipeline works without an API key.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.EmbeddingService = (*Embedder)(nil)

// DefaultDimensions is the vector size used when none is configured.
const DefaultDimensions = 384

// Embedder generates deterministic hash-based embeddings.
type Embedder struct {
	dimensions int
}

// Option configures the Embedder.
type Option func(*Embedder)

// WithDimensions sets the embedding vector size.
func WithDimensions(dims int) Option {
	return func(e *Embedder) {
		if dims > 0 {
			e.dimensions = dims
		}
	}
}

// NewEmbedder creates a deterministic local embedder.
func NewEmbedder(opts ...Option) *Embedder {
	e := &Embedder{dimensions: DefaultDimensions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed generates a deterministic unit vector for the given text.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float32, e.dimensions)
	var norm float64
	for i := range vec {
		v := rng.NormFloat64()
		vec[i] = float32(v)
		norm += v * v
	}

	// Normalise to unit length so cosine similarity reduces to a dot product.
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}

	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the name of the embedding model.
func (e *Embedder) ModelName() string {
	return "local-hash"
}

// Ping validates the embedder, which is always available.
func (e *Embedder) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (e *Embedder) Close() error {
	return nil
}
