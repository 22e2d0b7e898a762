// Copyright 2026 JDeepLearn
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by Config.Backend.
const (
	BackendHTTP   = "http"
	BackendOpenAI = "openai"
	BackendMock   = "mock"
)

// Config holds configuration for the embedding service.
type Config struct {
	// Backend selects the client implementation: "http" for a plain
	// POST /embed service, "openai" for an OpenAI-compatible API, "mock"
	// for deterministic local vectors.
	Backend string

	// EmbeddingHost is the base URL of the embedding service.
	// Example: "http://localhost:8000" (http) or "http://localhost:11434/v1" (openai)
	EmbeddingHost string

	// EmbeddingPath is the request path for the http backend. Default "/embed".
	EmbeddingPath string

	// EmbeddingModel is the model identifier sent with each request and
	// recorded in document metadata.
	EmbeddingModel string

	// EmbeddingProvider is the provider hint sent with each request and
	// recorded in document metadata.
	EmbeddingProvider string

	// Dimensions is the expected vector length.
	Dimensions int

	// Timeout bounds a single request attempt.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// RetryDelay is the base backoff delay; it doubles on each retry.
	RetryDelay time.Duration

	// RequestsPerSecond limits outgoing requests. Zero disables the limit.
	RequestsPerSecond float64

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Username and Password are sent as basic credentials when set and no
	// APIKey is configured.
	Username string
	Password string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend sets the client implementation.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingPath sets the request path of the http backend.
func WithEmbeddingPath(path string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingPath = path
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingProvider sets the provider hint.
func WithEmbeddingProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingProvider = provider
	}
}

// WithDimensions sets the expected vector length.
func WithDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithRetry sets the retry count and base delay.
func WithRetry(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// WithAPIKey sets a bearer token.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBasicAuth sets basic credentials.
func WithBasicAuth(username, password string) ConfigOption {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

// DefaultConfig returns a Config for a local http embedding service
// producing 1024-dimensional vectors.
func DefaultConfig() *Config {
	return &Config{
		Backend:           BackendHTTP,
		EmbeddingHost:     "http://localhost:8000",
		EmbeddingPath:     "/embed",
		EmbeddingModel:    "granite-embedding-278m-multilingual",
		EmbeddingProvider: "ibm",
		Dimensions:        1024,
		Timeout:           10 * time.Second,
		MaxRetries:        2,
		RetryDelay:        200 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithEmbeddingHost("http://embedder:8000"),
//	    WithDimensions(768),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// The openai backend gets the /v1 suffix most OpenAI-compatible servers
// require; the http backend gets a rooted request path.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendHTTP
	}

	switch c.Backend {
	case BackendOpenAI:
		if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
			c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
		}
	case BackendHTTP:
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		if c.EmbeddingPath == "" {
			c.EmbeddingPath = "/embed"
		}
		if !strings.HasPrefix(c.EmbeddingPath, "/") {
			c.EmbeddingPath = "/" + c.EmbeddingPath
		}
	}
}

// CallBudget is the longest a single embedding call can take against a
// service that hangs: every attempt runs to Timeout and each retry waits
// RetryDelay, doubled per retry. Rate-limit waits are not included.
func (c *Config) CallBudget() time.Duration {
	budget := time.Duration(c.MaxRetries+1) * c.Timeout
	delay := c.RetryDelay
	for range c.MaxRetries {
		budget += delay
		delay *= 2
	}
	return budget
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Backend {
	case BackendHTTP, BackendOpenAI, BackendMock:
	default:
		return fmt.Errorf("ai config: unknown Backend %q", c.Backend)
	}
	if c.Backend != BackendMock && c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Dimensions <= 0 {
		return errors.New("ai config: Dimensions must be greater than 0")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be greater than 0")
	}
	if c.MaxRetries < 0 {
		return errors.New("ai config: MaxRetries must not be negative")
	}
	if c.RetryDelay < 0 {
		return errors.New("ai config: RetryDelay must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("ai config: RequestsPerSecond must not be negative")
	}
	return nil
}
