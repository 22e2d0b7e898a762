package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JDeepLearn/faq-data-loader/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Embedding.Backend)
	assert.Equal(t, 1024, cfg.Embedding.Dimensions)
	assert.Equal(t, 10*time.Second, cfg.Embedding.Timeout)
	assert.Equal(t, "couchbase://localhost", cfg.Couchbase.ConnectionString)
	assert.Equal(t, "http://localhost:8094", cfg.Search.URL)
	assert.Equal(t, "faq_vectors", cfg.Search.IndexName)
	assert.True(t, cfg.Search.EnsureIndex)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.StepTimeout)
	assert.Equal(t, "majority", cfg.Pipeline.Durability)
	assert.True(t, cfg.Pipeline.EmbeddingFailOpen)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("FAQ_EMBEDDING_HOST", "http://embedder:9000")
	t.Setenv("FAQ_COUCHBASE_BUCKET", "support")
	t.Setenv("FAQ_PIPELINE_WORKERS", "8")
	t.Setenv("FAQ_PIPELINE_DURABILITY", "none")
	t.Setenv("FAQ_SEARCH_ENSURE_INDEX", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://embedder:9000", cfg.Embedding.Host)
	assert.Equal(t, "support", cfg.Couchbase.Bucket)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, "none", cfg.Pipeline.Durability)
	assert.False(t, cfg.Search.EnsureIndex)
}

func TestLoad_FromEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile(".env", []byte("FAQ_EMBEDDING_MODEL=loaded-from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("FAQ_EMBEDDING_MODEL") })

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "loaded-from-file", cfg.Embedding.Model)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("FAQ_PIPELINE_WORKERS", "not-a-number")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg, err := config.Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(*config.Config)
		wantMissing bool
	}{
		{"missing model", func(c *config.Config) { c.Embedding.Model = "" }, true},
		{"missing host", func(c *config.Config) { c.Embedding.Host = "" }, true},
		{"mock needs no host", func(c *config.Config) { c.Embedding.Backend = "mock"; c.Embedding.Host = "" }, false},
		{"missing bucket", func(c *config.Config) { c.Couchbase.Bucket = "" }, true},
		{"badger ignores couchbase", func(c *config.Config) { c.Pipeline.Store = "badger"; c.Couchbase.Bucket = "" }, false},
		{"missing search url", func(c *config.Config) { c.Search.URL = "" }, true},
		{"search url unused", func(c *config.Config) { c.Search.EnsureIndex = false; c.Search.URL = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantMissing {
				assert.ErrorIs(t, err, config.ErrMissingRequired)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("zero workers", func(t *testing.T) {
		cfg := valid()
		cfg.Pipeline.Workers = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("step timeout below embedding budget", func(t *testing.T) {
		cfg := valid()
		cfg.Embedding.Timeout = 10 * time.Second
		cfg.Embedding.MaxRetries = 2
		cfg.Embedding.RetryDelay = 200 * time.Millisecond
		cfg.Pipeline.StepTimeout = 30 * time.Second
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STEP_TIMEOUT")

		cfg.Pipeline.StepTimeout = 30*time.Second + 600*time.Millisecond
		assert.NoError(t, cfg.Validate())
	})

	t.Run("similarity is lowercased", func(t *testing.T) {
		cfg := valid()
		cfg.Search.Similarity = " Dot_Product "
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "dot_product", cfg.Search.Similarity)
	})

	t.Run("unknown store", func(t *testing.T) {
		cfg := valid()
		cfg.Pipeline.Store = "postgres"
		assert.Error(t, cfg.Validate())
	})
}
