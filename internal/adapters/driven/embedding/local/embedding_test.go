package local

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()

	a, err := e.Embed(ctx, "the same input text")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "the same input text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEmbedder_DistinctInputs(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()

	a, err := e.Embed(ctx, "first text")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "second text")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEmbedder_UnitLength(t *testing.T) {
	e := NewEmbedder()

	vec, err := e.Embed(context.Background(), "normalise me")
	require.NoError(t, err)
	require.Len(t, vec, DefaultDimensions)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestEmbedder_WithDimensions(t *testing.T) {
	e := NewEmbedder(WithDimensions(64))
	assert.Equal(t, 64, e.Dimensions())

	vec, err := e.Embed(context.Background(), "small vector")
	require.NoError(t, err)
	assert.Len(t, vec, 64)
}

func TestEmbedder_EmbedBatch(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()

	vectors, err := e.EmbedBatch(ctx, []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	single, err := e.Embed(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, single, vectors[1])
}
