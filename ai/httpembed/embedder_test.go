package httpembed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchServer answers every request with one vector per input, recording
// the inputs it saw.
func batchServer(t *testing.T, dims int, seen *[][]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if seen != nil {
			*seen = append(*seen, req.Inputs)
		}
		items := make([]map[string]any, len(req.Inputs))
		for i := range req.Inputs {
			items[i] = map[string]any{"vector": vectorOf(dims)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": items, "embedding_dim": dims})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestEmbedder_EmbedText(t *testing.T) {
	server := batchServer(t, 8, nil)

	embedder, err := NewEmbedder(testConfig(server.URL))
	require.NoError(t, err)

	vector, err := embedder.EmbedText(context.Background(), "How do I update my email?")
	require.NoError(t, err)
	assert.Len(t, vector, 8)
}

func TestEmbedder_EmbedTexts_Batches(t *testing.T) {
	var seen [][]string
	server := batchServer(t, 8, &seen)

	embedder, err := NewEmbedder(testConfig(server.URL), WithBatchSize(2))
	require.NoError(t, err)

	texts := []string{"one\ntwo", "three", "four", "five", "six"}
	vectors, err := embedder.EmbedTexts(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vectors, 5)
	assert.Len(t, seen, 3)

	// newlines are stripped on the wire but the caller's slice is untouched
	assert.Equal(t, "one two", seen[0][0])
	assert.Equal(t, "one\ntwo", texts[0])
}

func TestEmbedder_DimensionMismatchIsReturned(t *testing.T) {
	server := batchServer(t, 4, nil)

	embedder, err := NewEmbedder(testConfig(server.URL))
	require.NoError(t, err)

	vector, err := embedder.EmbedText(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, vector, 4)
}

func TestEmbedder_EmptyVectorIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[{"vector":[]}]}`))
	}))
	defer server.Close()

	embedder, err := NewEmbedder(testConfig(server.URL))
	require.NoError(t, err)

	_, err = embedder.EmbedText(context.Background(), "text")
	assert.ErrorIs(t, err, core.ErrServiceUnavailable)
}

func TestEmbedder_BlankText(t *testing.T) {
	embedder, err := NewEmbedder(testConfig("http://127.0.0.1:1"))
	require.NoError(t, err)

	_, err = embedder.EmbedText(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = embedder.EmbedTexts(context.Background(), []string{"ok", " "})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestNewEmbedder_InvalidConfig(t *testing.T) {
	cfg := testConfig("http://localhost:8000")
	cfg.Dimensions = 0

	_, err := NewEmbedder(cfg)
	assert.Error(t, err)
}
