package ai

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/go-crypt/x/blake2b"
)

// VectorCache stores embeddings by content key.
// Implementations must be thread-safe for concurrent use.
type VectorCache interface {
	// GetVector returns the cached vector for key. The boolean is false on a miss.
	GetVector(ctx context.Context, key string) ([]float32, bool, error)

	// PutVector stores vector under key, replacing any previous value.
	PutVector(ctx context.Context, key string, vector []float32) error
}

// CacheKey derives a cache key from the model and the text using a
// 128-bit BLAKE2b digest. Different models never share entries.
func CacheKey(model, text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// CachingEmbedder serves embeddings from a VectorCache and falls back to
// the wrapped Embedder on a miss. Cache failures are logged and never fail
// the call.
type CachingEmbedder struct {
	embedder Embedder
	cache    VectorCache
	model    string
	dims     int
	logger   *slog.Logger
}

var _ Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps embedder with cache. Only vectors of length dims
// are cached.
func NewCachingEmbedder(embedder Embedder, cache VectorCache, info ModelInfo, logger *slog.Logger) (*CachingEmbedder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if cache == nil {
		return nil, fmt.Errorf("vector cache required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingEmbedder{
		embedder: embedder,
		cache:    cache,
		model:    info.Model,
		dims:     info.Dimensions,
		logger:   logger.With("component", "embedding-cache"),
	}, nil
}

// EmbedText returns the cached vector for text or embeds and caches it.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := CheckTexts(text); err != nil {
		return nil, err
	}

	key := CacheKey(c.model, text)
	if vector, ok := c.lookup(ctx, key); ok {
		return vector, nil
	}

	vector, err := c.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, vector)
	return vector, nil
}

// EmbedTexts embeds only the texts missing from the cache, in one batch.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := CheckTexts(texts...); err != nil {
		return nil, err
	}

	result := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missing []int
	for i, text := range texts {
		keys[i] = CacheKey(c.model, text)
		if vector, ok := c.lookup(ctx, keys[i]); ok {
			result[i] = vector
			continue
		}
		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return result, nil
	}

	pending := make([]string, len(missing))
	for j, i := range missing {
		pending[j] = texts[i]
	}
	vectors, err := c.embedder.EmbedTexts(ctx, pending)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(pending) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(pending), len(vectors))
	}

	for j, i := range missing {
		result[i] = vectors[j]
		c.store(ctx, keys[i], vectors[j])
	}
	return result, nil
}

func (c *CachingEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	vector, ok, err := c.cache.GetVector(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "vector cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !ok || (c.dims > 0 && len(vector) != c.dims) {
		return nil, false
	}
	c.logger.DebugContext(ctx, "vector cache hit", "key", key)
	return vector, true
}

func (c *CachingEmbedder) store(ctx context.Context, key string, vector []float32) {
	if c.dims > 0 && len(vector) != c.dims {
		return
	}
	if err := c.cache.PutVector(ctx, key, vector); err != nil {
		c.logger.WarnContext(ctx, "vector cache write failed", "key", key, "err", err)
	}
}
