package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JDeepLearn/faq-data-loader/ai"
	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions"`
}

func openAIServer(t *testing.T, dims int, requests *[]embeddingRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if requests != nil {
			*requests = append(*requests, req)
		}
		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			vec := make([]float32, dims)
			vec[0] = float32(i + 1)
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": vec}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data, "model": req.Model})
	}))
	t.Cleanup(server.Close)
	return server
}

func openAIConfig(host string) *ai.Config {
	return ai.NewConfig(
		ai.WithBackend(ai.BackendOpenAI),
		ai.WithEmbeddingHost(host),
		ai.WithEmbeddingModel("text-embedding-3-small"),
		ai.WithDimensions(16),
		ai.WithTimeout(time.Second),
		ai.WithRetry(1, time.Millisecond),
	)
}

func TestEmbedder_EmbedText(t *testing.T) {
	var requests []embeddingRequest
	server := openAIServer(t, 16, &requests)

	embedder, err := NewEmbedder(openAIConfig(server.URL))
	require.NoError(t, err)

	vector, err := embedder.EmbedText(context.Background(), "How do I reset my password?")
	require.NoError(t, err)
	assert.Len(t, vector, 16)

	require.Len(t, requests, 1)
	assert.Equal(t, "text-embedding-3-small", requests[0].Model)
	assert.Equal(t, 16, requests[0].Dimensions)
}

func TestEmbedder_EmbedTexts_KeepsOrder(t *testing.T) {
	server := openAIServer(t, 16, nil)

	embedder, err := NewEmbedder(openAIConfig(server.URL))
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, float32(1), vectors[0][0])
	assert.Equal(t, float32(3), vectors[2][0])
}

func TestEmbedder_ServiceFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	embedder, err := NewEmbedder(openAIConfig(server.URL))
	require.NoError(t, err)

	_, err = embedder.EmbedText(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrServiceUnavailable)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestEmbedder_BlankText(t *testing.T) {
	embedder, err := NewEmbedder(openAIConfig("http://127.0.0.1:1"))
	require.NoError(t, err)

	_, err = embedder.EmbedText(context.Background(), "\t")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
