package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedderWithDimensions(16)
	ctx := context.Background()

	v1, err := m.EmbedText(ctx, "How do I reset my password?")
	require.NoError(t, err)
	v2, err := m.EmbedText(ctx, "How do I reset my password?")
	require.NoError(t, err)
	v3, err := m.EmbedText(ctx, "How do I update my email?")
	require.NoError(t, err)

	assert.Len(t, v1, 16)
	assert.Equal(t, v1, v2)
	assert.NotEqual(t, v1, v3)
	assert.Equal(t, 3, m.CallCount())

	var sum float64
	for _, x := range v1 {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)
}

func TestMockEmbedder_DefaultDimensions(t *testing.T) {
	m := NewMockEmbedder()
	v, err := m.EmbedText(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, v, DefaultDimensions)
	assert.Equal(t, DefaultDimensions, NewMockEmbedderWithDimensions(0).Dimensions())
}

func TestMockEmbedder_EmbedTexts(t *testing.T) {
	m := NewMockEmbedderWithDimensions(8)
	vectors, err := m.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, GenerateDeterministicVector("a", 8), vectors[0])

	_, err = m.EmbedTexts(context.Background(), []string{"a", ""})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestMockEmbedder_InjectedBehavior(t *testing.T) {
	m := NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("down")
	}

	_, err := m.EmbedText(context.Background(), "q")
	assert.Error(t, err)

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	_, err = m.EmbedText(context.Background(), "q")
	assert.NoError(t, err)
}
