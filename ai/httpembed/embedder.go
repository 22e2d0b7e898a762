package httpembed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JDeepLearn/faq-data-loader/ai"
	"github.com/tmc/langchaingo/embeddings"
)

// Embedder implements ai.Embedder on top of Client using langchaingo's
// batching embedder.
type Embedder struct {
	client   *Client
	embedder *embeddings.EmbedderImpl
	dims     int
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config, opts ...Option) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	client := newClient(config, o)

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(o.batchSize),
	)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		client:   client,
		embedder: embedder,
		dims:     config.Dimensions,
		logger:   o.logger.With("component", "http-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config, opts ...Option) (ai.Embedder, error) {
	return newEmbedder(config, opts...)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ai.CheckTexts(text); err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "generating embedding for single text", "length", len(text))

	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to generate embedding", "err", err)
		return nil, err
	}

	if err := ai.CheckVector(ctx, e.logger, vector, e.dims); err != nil {
		return nil, err
	}
	return vector, nil
}

// EmbedTexts generates vector embeddings for multiple text strings in batches.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ai.CheckTexts(texts...); err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "generating embeddings for texts", "count", len(texts))

	// EmbedDocuments rewrites newlines in place.
	input := make([]string, len(texts))
	copy(input, texts)

	vectors, err := e.embedder.EmbedDocuments(ctx, input)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(vectors))
	}

	for _, vector := range vectors {
		if err := ai.CheckVector(ctx, e.logger, vector, e.dims); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}
