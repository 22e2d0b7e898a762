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


package faqloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JDeepLearn/faq-data-loader/ai"
	"github.com/JDeepLearn/faq-data-loader/ai/httpembed"
	"github.com/JDeepLearn/faq-data-loader/ai/mock"
	"github.com/JDeepLearn/faq-data-loader/ai/openai"
	"github.com/JDeepLearn/faq-data-loader/config"
	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/JDeepLearn/faq-data-loader/ingestion"
	"github.com/JDeepLearn/faq-data-loader/input"
	"github.com/JDeepLearn/faq-data-loader/searchindex"
	"github.com/JDeepLearn/faq-data-loader/storage"
	"github.com/JDeepLearn/faq-data-loader/storage/badger"
	"github.com/JDeepLearn/faq-data-loader/storage/couchbase"
)

// ErrIndexDisabled is returned by EnsureIndex when no search service is configured.
var ErrIndexDisabled = errors.New("search index provisioning is not configured")

// Loader owns the long-lived handles of one process: the document
// collection, the embedder, the search index provisioner and the pipeline
// built on them.
type Loader struct {
	collection  storage.Collection
	repository  *storage.Repository
	embedder    ai.Embedder
	identifier  core.Identifier
	provisioner *searchindex.Provisioner
	index       searchindex.Definition
	pipeline    *ingestion.Pipeline
	backends    map[string]*badger.Backend
	logger      *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	logger     *slog.Logger
	collection storage.Collection
	embedder   ai.Embedder
	progress   io.Writer
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(o *loaderOptions) {
		o.logger = logger
	}
}

// WithCollection replaces the configured collection. The Loader takes
// ownership and closes it.
func WithCollection(collection storage.Collection) LoaderOption {
	return func(o *loaderOptions) {
		o.collection = collection
	}
}

// WithEmbedder replaces the configured embedding backend.
func WithEmbedder(embedder ai.Embedder) LoaderOption {
	return func(o *loaderOptions) {
		o.embedder = embedder
	}
}

// WithProgress reports pipeline progress to w.
func WithProgress(w io.Writer) LoaderOption {
	return func(o *loaderOptions) {
		o.progress = w
	}
}

// Open builds every component described by cfg. Handles opened before a
// failure are closed before returning.
func Open(cfg *config.Config, opts ...LoaderOption) (*Loader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", core.ErrInvalidInput)
	}
	options := &loaderOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	l := &Loader{logger: options.logger, backends: make(map[string]*badger.Backend)}
	if err := l.open(cfg, options); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func (l *Loader) open(cfg *config.Config, options *loaderOptions) error {
	durability, err := storage.ParseDurability(cfg.Pipeline.Durability)
	if err != nil {
		return err
	}
	mode, err := storage.ParseWriteMode(cfg.Pipeline.WriteMode)
	if err != nil {
		return err
	}
	strategy, err := core.ParseIDStrategy(cfg.Pipeline.IDStrategy)
	if err != nil {
		return err
	}
	l.identifier, err = core.NewIdentifier(strategy)
	if err != nil {
		return err
	}

	l.collection = options.collection
	if l.collection == nil {
		if l.collection, err = l.openCollection(cfg); err != nil {
			return err
		}
	}

	l.repository, err = storage.NewRepository(l.collection,
		storage.WithWriteMode(mode),
		storage.WithLogger(l.logger))
	if err != nil {
		return err
	}

	similarity := strings.ToLower(strings.TrimSpace(cfg.Search.Similarity))
	if similarity == "" {
		similarity = core.DefaultSimilarity
	}

	aiConfig := EmbeddingConfig(cfg)
	l.embedder = options.embedder
	if l.embedder == nil {
		if l.embedder, err = NewEmbedder(aiConfig, l.logger); err != nil {
			return err
		}
	}
	if cfg.Embedding.CachePath != "" {
		if err := l.attachCache(cfg, aiConfig.Info()); err != nil {
			return err
		}
	}

	if cfg.Search.URL != "" {
		l.provisioner, err = searchindex.NewProvisioner(cfg.Search.URL,
			searchindex.WithBasicAuth(cfg.Couchbase.Username, cfg.Couchbase.Password),
			searchindex.WithLogger(l.logger))
		if err != nil {
			return err
		}
		l.index = searchindex.Definition{
			Name:       cfg.Search.IndexName,
			Bucket:     cfg.Couchbase.Bucket,
			Scope:      cfg.Couchbase.Scope,
			Collection: cfg.Couchbase.Collection,
			Dims:       cfg.Embedding.Dimensions,
			Similarity: similarity,
		}.WithDefaults()
	}

	builder, err := core.NewBuilder(core.Provenance{
		Provider:   cfg.Embedding.Provider,
		ModelName:  cfg.Embedding.Model,
		ModelDim:   cfg.Embedding.Dimensions,
		Similarity: similarity,
	}, core.WithNormalization(cfg.Embedding.Normalize || similarity == "dot_product"))
	if err != nil {
		return err
	}

	pipelineOpts := []ingestion.Option{
		ingestion.WithPoolSize(cfg.Pipeline.Workers),
		ingestion.WithLogger(l.logger),
		ingestion.WithDurability(durability),
		ingestion.WithEmbeddingPolicy(ingestion.PolicyFor(cfg.Pipeline.EmbeddingFailOpen)),
		ingestion.WithIndexPolicy(ingestion.PolicyFor(cfg.Search.FailOpen)),
		ingestion.WithStepTimeout(cfg.Pipeline.StepTimeout),
	}
	if cfg.Search.EnsureIndex && l.provisioner != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithIndex(l.provisioner, l.index))
	}
	if options.progress != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithProgress(options.progress, 10))
	}

	l.pipeline, err = ingestion.NewPipeline(l.identifier, l.embedder, builder, l.repository, pipelineOpts...)
	return err
}

func (l *Loader) openCollection(cfg *config.Config) (storage.Collection, error) {
	switch strings.ToLower(cfg.Pipeline.Store) {
	case config.StoreBadger:
		backend, err := l.openBackend(cfg.Pipeline.BadgerDir)
		if err != nil {
			return nil, err
		}
		return badger.NewCollection(backend), nil
	case config.StoreCouchbase, "":
		col, err := couchbase.Open(couchbase.Config{
			ConnectionString: cfg.Couchbase.ConnectionString,
			Username:         cfg.Couchbase.Username,
			Password:         cfg.Couchbase.Password,
			Bucket:           cfg.Couchbase.Bucket,
			Scope:            cfg.Couchbase.Scope,
			Collection:       cfg.Couchbase.Collection,
			ConnectTimeout:   cfg.Couchbase.ConnectTimeout,
			KVTimeout:        cfg.Couchbase.KVTimeout,
			ReadyTimeout:     cfg.Couchbase.ReadyTimeout,
		}, l.logger)
		if err != nil {
			return nil, err
		}
		return col, nil
	default:
		return nil, fmt.Errorf("%w: unknown store %q", core.ErrInvalidInput, cfg.Pipeline.Store)
	}
}

// openBackend opens the badger directory at path once; later calls for the
// same path share the handle.
func (l *Loader) openBackend(path string) (*badger.Backend, error) {
	if backend, ok := l.backends[path]; ok {
		return backend, nil
	}
	backend, err := badger.OpenBackend(path, false, l.logger)
	if err != nil {
		return nil, err
	}
	l.backends[path] = backend
	return backend, nil
}

// attachCache wraps the embedder with a badger vector cache.
func (l *Loader) attachCache(cfg *config.Config, info ai.ModelInfo) error {
	backend, err := l.openBackend(cfg.Embedding.CachePath)
	if err != nil {
		return fmt.Errorf("failed to open vector cache: %w", err)
	}
	cached, err := ai.NewCachingEmbedder(l.embedder, badger.NewVectorCache(backend), info, l.logger)
	if err != nil {
		return err
	}
	l.embedder = cached
	return nil
}

// EmbeddingConfig converts process settings into an ai.Config.
func EmbeddingConfig(cfg *config.Config) *ai.Config {
	e := cfg.Embedding
	return ai.NewConfig(
		ai.WithBackend(e.Backend),
		ai.WithEmbeddingHost(e.Host),
		ai.WithEmbeddingPath(e.Path),
		ai.WithEmbeddingModel(e.Model),
		ai.WithEmbeddingProvider(e.Provider),
		ai.WithDimensions(e.Dimensions),
		ai.WithTimeout(e.Timeout),
		ai.WithRetry(e.MaxRetries, e.RetryDelay),
		ai.WithRateLimit(e.RateLimit),
		ai.WithAPIKey(e.APIKey),
		ai.WithBasicAuth(e.Username, e.Password),
	)
}

// NewEmbedder creates the embedder selected by cfg.Backend.
func NewEmbedder(cfg *ai.Config, logger *slog.Logger) (ai.Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Backend {
	case ai.BackendOpenAI:
		return openai.NewEmbedder(cfg, openai.WithLogger(logger))
	case ai.BackendMock:
		return mock.NewMockEmbedderWithDimensions(cfg.Dimensions), nil
	default:
		return httpembed.NewEmbedder(cfg, httpembed.WithLogger(logger))
	}
}

// Load runs the pipeline over faqs.
func (l *Loader) Load(ctx context.Context, faqs []core.FAQ) (ingestion.Outcome, error) {
	return l.pipeline.Run(ctx, faqs)
}

// LoadFile reads the records at path and runs the pipeline over them.
func (l *Loader) LoadFile(ctx context.Context, path string) (ingestion.Outcome, error) {
	faqs, err := input.ReadFile(path)
	if err != nil {
		return ingestion.Outcome{}, err
	}
	l.logger.InfoContext(ctx, "records read", "path", path, "count", len(faqs))
	return l.Load(ctx, faqs)
}

// EnsureIndex provisions the configured search index.
func (l *Loader) EnsureIndex(ctx context.Context) (searchindex.State, error) {
	if l.provisioner == nil {
		return searchindex.StateUnknown, ErrIndexDisabled
	}
	return l.provisioner.Ensure(ctx, l.index)
}

// Get fetches one stored document.
func (l *Loader) Get(ctx context.Context, id string) (*core.Document, error) {
	return l.repository.Get(ctx, id)
}

// Identify returns the id the configured strategy assigns to faq.
func (l *Loader) Identify(faq *core.FAQ) (string, error) {
	return l.identifier.Identify(faq)
}

// Close releases the pipeline and closes storage handles.
func (l *Loader) Close() error {
	if l.pipeline != nil {
		l.pipeline.Release()
	}

	var errs []error
	if l.collection != nil {
		if err := l.collection.Close(); err != nil {
			l.logger.Error("error closing collection", "err", err)
			errs = append(errs, err)
		}
	}
	for path, backend := range l.backends {
		if backend.IsClosed() {
			continue
		}
		if err := backend.Close(); err != nil {
			l.logger.Error("error closing badger backend", "path", path, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
