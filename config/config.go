// Package config loads process-level settings for the FAQ loader from the
// environment, with an optional .env file.
//
// Variables use the FAQ_ prefix followed by the section name, for example
// FAQ_EMBEDDING_HOST or FAQ_COUCHBASE_BUCKET.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JDeepLearn/faq-data-loader/ai"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "FAQ"

// Storage backend names.
const (
	StoreCouchbase = "couchbase"
	StoreBadger    = "badger"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	Embedding EmbeddingConfig
	Couchbase CouchbaseConfig
	Search    SearchConfig
	Pipeline  PipelineConfig
	Log       LogConfig
}

type EmbeddingConfig struct {
	Backend    string        `split_words:"true" default:"http"`
	Host       string        `split_words:"true" default:"http://localhost:8000"`
	Path       string        `split_words:"true" default:"/embed"`
	Model      string        `split_words:"true" default:"granite-embedding-278m-multilingual"`
	Provider   string        `split_words:"true" default:"ibm"`
	Dimensions int           `split_words:"true" default:"1024"`
	Timeout    time.Duration `split_words:"true" default:"10s"`
	MaxRetries int           `split_words:"true" default:"2"`
	RetryDelay time.Duration `split_words:"true" default:"200ms"`
	RateLimit  float64       `split_words:"true" default:"0"`
	APIKey     string        `split_words:"true"`
	Username   string        `split_words:"true"`
	Password   string        `split_words:"true"`
	Normalize  bool          `split_words:"true" default:"false"`
	// CachePath enables the on-disk vector cache when set.
	CachePath string `split_words:"true"`
}

type CouchbaseConfig struct {
	ConnectionString string        `split_words:"true" default:"couchbase://localhost"`
	Username         string        `split_words:"true" default:"Administrator"`
	Password         string        `split_words:"true"`
	Bucket           string        `split_words:"true" default:"faq"`
	Scope            string        `split_words:"true" default:"_default"`
	Collection       string        `split_words:"true" default:"_default"`
	ConnectTimeout   time.Duration `split_words:"true" default:"10s"`
	KVTimeout        time.Duration `split_words:"true" default:"5s"`
	ReadyTimeout     time.Duration `split_words:"true" default:"30s"`
}

type SearchConfig struct {
	// URL is the search service admin endpoint.
	URL         string `split_words:"true" default:"http://localhost:8094"`
	IndexName   string `split_words:"true" default:"faq_vectors"`
	Similarity  string `split_words:"true" default:"cosine"`
	EnsureIndex bool   `split_words:"true" default:"true"`
	FailOpen    bool   `split_words:"true" default:"true"`
}

type PipelineConfig struct {
	Workers           int           `split_words:"true" default:"4"`
	IDStrategy        string        `split_words:"true" default:"content"`
	WriteMode         string        `split_words:"true" default:"upsert"`
	Durability        string        `split_words:"true" default:"majority"`
	EmbeddingFailOpen bool          `split_words:"true" default:"true"`
	StepTimeout       time.Duration `split_words:"true" default:"45s"`
	// Store selects the document collection backend.
	Store     string `split_words:"true" default:"couchbase"`
	BadgerDir string `split_words:"true" default:"data/faq"`
}

type LogConfig struct {
	Level  string `split_words:"true" default:"info"`
	Format string `split_words:"true" default:"text"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// A missing .env is fine; variables may come from the shell.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Embedding.Model == "" {
		return fmt.Errorf("%w: %s_EMBEDDING_MODEL", ErrMissingRequired, Prefix)
	}
	if c.Embedding.Backend != "mock" && c.Embedding.Host == "" {
		return fmt.Errorf("%w: %s_EMBEDDING_HOST", ErrMissingRequired, Prefix)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("%s_EMBEDDING_DIMENSIONS must be positive, got %d", Prefix, c.Embedding.Dimensions)
	}
	budget := (&ai.Config{
		Timeout:    c.Embedding.Timeout,
		MaxRetries: c.Embedding.MaxRetries,
		RetryDelay: c.Embedding.RetryDelay,
	}).CallBudget()
	if c.Pipeline.StepTimeout < budget {
		return fmt.Errorf("%s_PIPELINE_STEP_TIMEOUT %s is shorter than the embedding retry budget %s",
			Prefix, c.Pipeline.StepTimeout, budget)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("%s_PIPELINE_WORKERS must be at least 1, got %d", Prefix, c.Pipeline.Workers)
	}

	switch strings.ToLower(c.Pipeline.Store) {
	case StoreCouchbase:
		if c.Couchbase.ConnectionString == "" {
			return fmt.Errorf("%w: %s_COUCHBASE_CONNECTION_STRING", ErrMissingRequired, Prefix)
		}
		if c.Couchbase.Bucket == "" {
			return fmt.Errorf("%w: %s_COUCHBASE_BUCKET", ErrMissingRequired, Prefix)
		}
	case StoreBadger:
		if c.Pipeline.BadgerDir == "" {
			return fmt.Errorf("%w: %s_PIPELINE_BADGER_DIR", ErrMissingRequired, Prefix)
		}
	default:
		return fmt.Errorf("unknown %s_PIPELINE_STORE %q", Prefix, c.Pipeline.Store)
	}

	c.Search.Similarity = strings.ToLower(strings.TrimSpace(c.Search.Similarity))
	if c.Search.EnsureIndex {
		if c.Search.URL == "" {
			return fmt.Errorf("%w: %s_SEARCH_URL", ErrMissingRequired, Prefix)
		}
		if c.Search.IndexName == "" {
			return fmt.Errorf("%w: %s_SEARCH_INDEX_NAME", ErrMissingRequired, Prefix)
		}
	}
	return nil
}
