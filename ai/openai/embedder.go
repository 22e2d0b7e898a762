package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JDeepLearn/faq-data-loader/ai"
	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/JDeepLearn/faq-data-loader/retry"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder    embeddings.Embedder
	dims        int
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an Embedder.
type Option func(*options)

// WithHTTPClient sets the HTTP client used by the openai client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config, opts ...Option) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.APIKey
	if token == "" {
		token = "none"
	}
	clientOpts := []openai.Option{
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
		openai.WithEmbeddingDimensions(config.Dimensions),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, openai.WithHTTPClient(o.httpClient))
	}

	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:    embedder,
		dims:        config.Dimensions,
		timeout:     config.Timeout,
		maxAttempts: config.MaxRetries + 1,
		retryDelay:  config.RetryDelay,
		logger:      o.logger.With("component", "openai-embedder"),
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

	vectors, err := e.embed(ctx, []string{text})
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to generate embedding", "err", err)
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedder returned empty result", core.ErrServiceUnavailable)
	}

	if err := ai.CheckVector(ctx, e.logger, vectors[0], e.dims); err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ai.CheckTexts(texts...); err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "generating embeddings for texts", "count", len(texts))

	vectors, err := e.embed(ctx, texts)
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

// embed calls the API with a per-attempt timeout and retries failures.
func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := retry.WithBackoff(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		// EmbedDocuments rewrites newlines in place.
		input := make([]string, len(texts))
		copy(input, texts)

		v, err := e.embedder.EmbedDocuments(attemptCtx, input)
		if err != nil {
			return err
		}
		vectors = v
		return nil
	}, e.maxAttempts, e.retryDelay)
	if err != nil {
		if errors.Is(err, core.ErrServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrServiceUnavailable, err)
	}
	return vectors, nil
}
