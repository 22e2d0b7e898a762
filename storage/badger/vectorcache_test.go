package badger

import (
	"context"
	"testing"

	"github.com/JDeepLearn/faq-data-loader/ai"
	"github.com/JDeepLearn/faq-data-loader/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorCache_PutGet(t *testing.T) {
	col, cache, err := NewMemoryCollection()
	require.NoError(t, err)
	defer col.Close()
	ctx := context.Background()

	_, ok, err := cache.GetVector(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	vector := mock.GenerateDeterministicVector("How do I reset my password?", 1024)
	require.NoError(t, cache.PutVector(ctx, "k1", vector))

	got, ok, err := cache.GetVector(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, vector, got)
}

func TestVectorCache_WithCachingEmbedder(t *testing.T) {
	col, cache, err := NewMemoryCollection()
	require.NoError(t, err)
	defer col.Close()
	ctx := context.Background()

	embedder := mock.NewMockEmbedderWithDimensions(16)
	caching, err := ai.NewCachingEmbedder(embedder, cache, ai.ModelInfo{Model: "m", Dimensions: 16}, nil)
	require.NoError(t, err)

	first, err := caching.EmbedText(ctx, "How do I update my email?")
	require.NoError(t, err)
	second, err := caching.EmbedText(ctx, "How do I update my email?")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestVectorCache_Closed(t *testing.T) {
	col, cache, err := NewMemoryCollection()
	require.NoError(t, err)
	require.NoError(t, col.Close())

	_, _, err = cache.GetVector(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, cache.PutVector(context.Background(), "k", []float32{1}))
}
