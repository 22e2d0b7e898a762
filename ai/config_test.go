package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, BackendHTTP, cfg.Backend)
	assert.Equal(t, "http://localhost:8000", cfg.EmbeddingHost)
	assert.Equal(t, "/embed", cfg.EmbeddingPath)
	assert.Equal(t, 1024, cfg.Dimensions)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.RetryDelay)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_CallBudget(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second+600*time.Millisecond, cfg.CallBudget())

	cfg = NewConfig(WithTimeout(time.Second), WithRetry(0, time.Second))
	assert.Equal(t, time.Second, cfg.CallBudget())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with custom host and model", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:9000"),
			WithEmbeddingModel("bge-m3"),
			WithEmbeddingProvider("baai"),
			WithDimensions(768),
		)

		assert.Equal(t, "http://embed:9000", cfg.EmbeddingHost)
		assert.Equal(t, "bge-m3", cfg.EmbeddingModel)
		assert.Equal(t, "baai", cfg.EmbeddingProvider)
		assert.Equal(t, 768, cfg.Dimensions)
		assert.Equal(t, ModelInfo{Provider: "baai", Model: "bge-m3", Dimensions: 768}, cfg.Info())
	})

	t.Run("with retry, rate and auth", func(t *testing.T) {
		cfg := NewConfig(
			WithRetry(5, time.Second),
			WithRateLimit(2.5),
			WithAPIKey("secret"),
			WithBasicAuth("user", "pass"),
			WithTimeout(3*time.Second),
		)

		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, time.Second, cfg.RetryDelay)
		assert.Equal(t, 2.5, cfg.RequestsPerSecond)
		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, "user", cfg.Username)
		assert.Equal(t, "pass", cfg.Password)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
	})
}

func TestConfig_Normalize(t *testing.T) {
	t.Run("openai host gets /v1", func(t *testing.T) {
		cfg := NewConfig(WithBackend("OpenAI"), WithEmbeddingHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, BackendOpenAI, cfg.Backend)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("http path gets rooted", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://embed:8000/"), WithEmbeddingPath("v2/embed"))
		cfg.Normalize()
		assert.Equal(t, "http://embed:8000", cfg.EmbeddingHost)
		assert.Equal(t, "/v2/embed", cfg.EmbeddingPath)
	})

	t.Run("empty backend defaults to http", func(t *testing.T) {
		cfg := NewConfig(WithBackend(""), WithEmbeddingPath(""))
		cfg.Normalize()
		assert.Equal(t, BackendHTTP, cfg.Backend)
		assert.Equal(t, "/embed", cfg.EmbeddingPath)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ConfigOption
		wantErr string
	}{
		{"unknown backend", []ConfigOption{WithBackend("grpc")}, "unknown Backend"},
		{"missing host", []ConfigOption{WithEmbeddingHost("")}, "EmbeddingHost"},
		{"missing model", []ConfigOption{WithEmbeddingModel("")}, "EmbeddingModel"},
		{"zero dims", []ConfigOption{WithDimensions(0)}, "Dimensions"},
		{"zero timeout", []ConfigOption{WithTimeout(0)}, "Timeout"},
		{"negative retries", []ConfigOption{WithRetry(-1, time.Millisecond)}, "MaxRetries"},
		{"negative rate", []ConfigOption{WithRateLimit(-1)}, "RequestsPerSecond"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("mock backend needs no host", func(t *testing.T) {
		cfg := NewConfig(WithBackend(BackendMock), WithEmbeddingHost(""))
		assert.NoError(t, cfg.Validate())
	})
}
