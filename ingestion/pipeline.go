package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/JDeepLearn/faq-data-loader/ai"
	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/JDeepLearn/faq-data-loader/logging"
	"github.com/JDeepLearn/faq-data-loader/searchindex"
	"github.com/JDeepLearn/faq-data-loader/storage"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// Defaults for a new Pipeline.
const (
	DefaultPoolSize    = 4
	DefaultStepTimeout = 45 * time.Second
)

// Policy decides what happens when a tolerated dependency fails.
type Policy int

const (
	// PolicyFailOpen continues with degraded data: a record is persisted
	// without a vector, or the batch proceeds without a ready index.
	PolicyFailOpen Policy = iota
	// PolicyFailClosed fails the affected unit: the record, or the batch.
	PolicyFailClosed
)

func (p Policy) String() string {
	if p == PolicyFailClosed {
		return "fail-closed"
	}
	return "fail-open"
}

// PolicyFor returns PolicyFailOpen when failOpen is true.
func PolicyFor(failOpen bool) Policy {
	if failOpen {
		return PolicyFailOpen
	}
	return PolicyFailClosed
}

// Persister writes documents. *storage.Repository implements it.
type Persister interface {
	Persist(ctx context.Context, doc *core.Document, durability storage.Durability) (storage.PersistResult, error)
}

// IndexEnsurer provisions the search index. *searchindex.Provisioner implements it.
type IndexEnsurer interface {
	Ensure(ctx context.Context, def searchindex.Definition) (searchindex.State, error)
}

// Pipeline ingests batches of FAQ records: each record is identified,
// embedded, built into a document and persisted on a bounded worker pool.
type Pipeline struct {
	identifier core.Identifier
	embedder   ai.Embedder
	builder    *core.Builder
	repository Persister

	provisioner IndexEnsurer
	index       searchindex.Definition

	pool             *ants.Pool
	embeddingPolicy  Policy
	indexPolicy      Policy
	durability       storage.Durability
	stepTimeout      time.Duration
	progressWriter   io.Writer
	progressInterval int
	logger           *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is 4, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithEmbeddingPolicy sets how embedding failures are handled.
// Default is PolicyFailOpen.
func WithEmbeddingPolicy(policy Policy) Option {
	return func(p *Pipeline) error {
		p.embeddingPolicy = policy
		return nil
	}
}

// WithIndexPolicy sets how a provisioning failure is handled.
// Default is PolicyFailOpen.
func WithIndexPolicy(policy Policy) Option {
	return func(p *Pipeline) error {
		p.indexPolicy = policy
		return nil
	}
}

// WithDurability sets the durability requested for every write.
// Default is storage.DurabilityMajority.
func WithDurability(durability storage.Durability) Option {
	return func(p *Pipeline) error {
		p.durability = durability
		return nil
	}
}

// WithStepTimeout bounds each embedding and persistence call.
// Default is 30 seconds.
func WithStepTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout <= 0 {
			return fmt.Errorf("step timeout must be positive, got %s", timeout)
		}
		p.stepTimeout = timeout
		return nil
	}
}

// WithProgress reports progress to w every interval records.
func WithProgress(w io.Writer, interval int) Option {
	return func(p *Pipeline) error {
		p.progressWriter = w
		p.progressInterval = interval
		return nil
	}
}

// WithIndex provisions def with provisioner once per batch, before any write.
// Without it no index is provisioned.
func WithIndex(provisioner IndexEnsurer, def searchindex.Definition) Option {
	return func(p *Pipeline) error {
		if provisioner == nil {
			return ErrProvisionerRequired
		}
		p.provisioner = provisioner
		p.index = def
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	identifier core.Identifier,
	embedder ai.Embedder,
	builder *core.Builder,
	repository Persister,
	opts ...Option,
) (*Pipeline, error) {
	if identifier == nil {
		return nil, ErrIdentifierRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		identifier:      identifier,
		embedder:        embedder,
		builder:         builder,
		repository:      repository,
		pool:            pool,
		embeddingPolicy: PolicyFailOpen,
		indexPolicy:     PolicyFailOpen,
		durability:      storage.DurabilityMajority,
		stepTimeout:     DefaultStepTimeout,
		logger:          slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// Run ingests faqs and returns the aggregate outcome once every submitted
// record has finished.
//
// Item-level failures are counted and logged, never returned. Run returns
// an error only when provisioning fails under PolicyFailClosed or when ctx
// is canceled; in the latter case records already in flight are completed
// and the rest are counted as Unprocessed.
func (p *Pipeline) Run(ctx context.Context, faqs []core.FAQ) (Outcome, error) {
	if logging.RunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, uuid.NewString())
	}

	if len(faqs) == 0 {
		p.logger.InfoContext(ctx, "empty batch, nothing to ingest")
		return Outcome{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Outcome{Unprocessed: len(faqs)}, fmt.Errorf("%w: %w", ErrCanceled, context.Cause(ctx))
	}

	p.logger.InfoContext(ctx, "starting ingestion",
		"records", len(faqs),
		"workers", p.pool.Cap(),
		"id_strategy", p.identifier.Strategy().String(),
		"durability", p.durability.String(),
		"embedding_policy", p.embeddingPolicy.String())

	var warnings []string
	if p.provisioner != nil {
		if _, err := p.provisioner.Ensure(ctx, p.index); err != nil {
			if p.indexPolicy == PolicyFailClosed {
				p.logger.ErrorContext(ctx, "search index provisioning failed, aborting batch",
					"index", p.index.Name, "kind", core.Kind(err), "err", err)
				return Outcome{Unprocessed: len(faqs)}, err
			}
			p.logger.WarnContext(ctx, "search index provisioning failed, continuing without index",
				"index", p.index.Name, "kind", core.Kind(err), "err", err)
			warnings = append(warnings, fmt.Sprintf("search index %s not provisioned: %v", p.index.Name, err))
		}
	}

	var progress *ProgressTracker
	if p.progressWriter != nil {
		progress = NewProgressTracker(p.progressWriter, len(faqs), p.progressInterval)
		progress.Start()
	}

	var (
		c         counters
		wg        sync.WaitGroup
		submitted int
	)
	for i := range faqs {
		if ctx.Err() != nil {
			break
		}
		faq := &faqs[i]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			status := p.process(ctx, i, faq, &c)
			if progress != nil && status != statusUnprocessed {
				progress.Done(status == statusDone)
			}
		})
		if err != nil {
			wg.Done()
			c.failed.Add(1)
			p.logger.ErrorContext(ctx, "failed to schedule record", "index", i, "err", err)
		}
		submitted++
	}

	// Join barrier: no outcome is visible before every submitted record finishes.
	wg.Wait()
	if progress != nil {
		progress.Finish()
	}

	outcome := c.outcome()
	outcome.Unprocessed += len(faqs) - submitted
	outcome.Warnings = warnings

	p.logger.InfoContext(ctx, "ingestion finished",
		"upserted", outcome.Upserted,
		"skipped", outcome.Skipped,
		"failed", outcome.Failed,
		"degraded", outcome.Degraded,
		"downgraded", outcome.Downgraded,
		"unprocessed", outcome.Unprocessed)

	if outcome.Unprocessed > 0 {
		cause := context.Cause(ctx)
		if cause == nil {
			cause = ctx.Err()
		}
		return outcome, fmt.Errorf("%w: %d of %d records not processed: %w",
			ErrCanceled, outcome.Unprocessed, len(faqs), cause)
	}
	return outcome, nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
