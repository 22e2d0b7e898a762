package httpembed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/JDeepLearn/faq-data-loader/ai"
	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/JDeepLearn/faq-data-loader/retry"
	"github.com/tmc/langchaingo/embeddings"
	"golang.org/x/time/rate"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 32 << 20

// Client calls a JSON POST /embed service. It implements langchaingo's
// embeddings.EmbedderClient and is safe for concurrent use.
type Client struct {
	endpoint    string
	model       string
	provider    string
	apiKey      string
	username    string
	password    string
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
	limiter     *rate.Limiter
	httpClient  *http.Client
	logger      *slog.Logger
}

var _ embeddings.EmbedderClient = (*Client)(nil)

// Option configures a Client or Embedder.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	batchSize  int
}

// WithHTTPClient sets the HTTP client shared by all requests.
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

// WithBatchSize sets how many texts EmbedTexts sends per request.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(o *options) {
		o.batchSize = size
	}
}

func applyOptions(opts []Option) *options {
	o := &options{batchSize: 32}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.batchSize < 1 {
		o.batchSize = 1
	}
	return o
}

// NewClient creates a client for the service described by config.
func NewClient(config *ai.Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newClient(config, applyOptions(opts)), nil
}

func newClient(config *ai.Config, o *options) *Client {
	c := &Client{
		endpoint:    config.EmbeddingHost + config.EmbeddingPath,
		model:       config.EmbeddingModel,
		provider:    config.EmbeddingProvider,
		apiKey:      config.APIKey,
		username:    config.Username,
		password:    config.Password,
		timeout:     config.Timeout,
		maxAttempts: config.MaxRetries + 1,
		retryDelay:  config.RetryDelay,
		httpClient:  o.httpClient,
		logger:      o.logger.With("component", "embedding-client"),
	}
	if config.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}
	return c
}

// CreateEmbedding embeds texts in one request, retrying transient failures.
// Exhausted retries and rejected requests fail with core.ErrServiceUnavailable.
func (c *Client) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ai.CheckTexts(texts...); err != nil {
		return nil, err
	}

	body, err := json.Marshal(newEmbedRequest(texts, c.model, c.provider))
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", core.ErrInvalidInput, err)
	}

	var vectors [][]float32
	attempt := 0
	err = retry.WithBackoff(ctx, func() error {
		attempt++
		v, err := c.post(ctx, body, len(texts))
		if err != nil {
			c.logger.DebugContext(ctx, "embedding request failed", "attempt", attempt, "err", err)
			return err
		}
		vectors = v
		return nil
	}, c.maxAttempts, c.retryDelay)
	if err != nil {
		c.logger.WarnContext(ctx, "embedding service unavailable", "attempts", attempt, "err", err)
		if errors.Is(err, core.ErrServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrServiceUnavailable, err)
	}
	return vectors, nil
}

// post performs one attempt. Errors wrapped with retry.Permanent are not retried.
func (c *Client) post(ctx context.Context, body []byte, expected int) ([][]float32, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, retry.Permanent(err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	switch {
	case c.apiKey != "":
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	case c.username != "":
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, snippet(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, retry.Permanent(fmt.Errorf("embedding service rejected request with %d: %s", resp.StatusCode, snippet(data)))
	}

	var payload embedResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, retry.Permanent(fmt.Errorf("decode embedding response: %w", err))
	}
	vectors, err := payload.vectors()
	if err != nil {
		return nil, retry.Permanent(err)
	}
	if len(vectors) != expected {
		return nil, retry.Permanent(fmt.Errorf("expected %d embeddings, received %d", expected, len(vectors)))
	}
	if dim := payload.declaredDim(); dim > 0 && len(vectors[0]) != dim {
		c.logger.WarnContext(ctx, "declared embedding dimension differs from vector length", "declared", dim, "got", len(vectors[0]))
	}
	return vectors, nil
}

func snippet(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
