package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JDeepLearn/faq-data-loader/core"
)

// PersistResult describes how a document was written.
type PersistResult struct {
	ID         string
	Mode       WriteMode
	Durability Durability
	// Downgraded is true when the requested durability was impossible and
	// the document was written with DurabilityNone instead.
	Downgraded bool
}

// Repository persists FAQ documents to a Collection with the configured
// write mode and a one-step durability fallback.
type Repository struct {
	collection Collection
	mode       WriteMode
	logger     *slog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithWriteMode sets the write mode.
// Default is ModeUpsert.
func WithWriteMode(mode WriteMode) RepositoryOption {
	return func(r *Repository) {
		r.mode = mode
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		r.logger = logger
	}
}

// NewRepository creates a Repository over collection.
func NewRepository(collection Collection, opts ...RepositoryOption) (*Repository, error) {
	if collection == nil {
		return nil, ErrCollectionRequired
	}
	r := &Repository{
		collection: collection,
		mode:       ModeUpsert,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "repository")
	return r, nil
}

// Persist writes doc with the requested durability.
//
// If the collection reports ErrDurabilityImpossible the write is retried
// exactly once with DurabilityNone and the result is marked Downgraded.
// An insert on an existing key fails with core.ErrAlreadyExists; any other
// failure is core.ErrBackend.
func (r *Repository) Persist(ctx context.Context, doc *core.Document, durability Durability) (PersistResult, error) {
	if doc == nil || core.IsBlank(doc.ID) {
		return PersistResult{}, fmt.Errorf("%w: document id is required", core.ErrInvalidInput)
	}

	result := PersistResult{ID: doc.ID, Mode: r.mode, Durability: durability}
	err := r.write(ctx, doc, durability)
	if errors.Is(err, ErrDurabilityImpossible) && durability != DurabilityNone {
		r.logger.WarnContext(ctx, "durability unavailable, retrying without durability",
			"faq_id", doc.ID, "requested", durability.String(), "err", err)
		result.Durability = DurabilityNone
		result.Downgraded = true
		err = r.write(ctx, doc, DurabilityNone)
	}
	if err != nil {
		return result, classify(err)
	}

	r.logger.DebugContext(ctx, "document persisted",
		"faq_id", doc.ID, "mode", r.mode.String(), "durability", result.Durability.String())
	return result, nil
}

// Get retrieves a document by id.
func (r *Repository) Get(ctx context.Context, id string) (*core.Document, error) {
	if core.IsBlank(id) {
		return nil, fmt.Errorf("%w: document id is required", core.ErrInvalidInput)
	}
	doc, err := r.collection.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrBackend, err)
	}
	return doc, nil
}

// Close closes the underlying collection.
func (r *Repository) Close() error {
	return r.collection.Close()
}

func (r *Repository) write(ctx context.Context, doc *core.Document, durability Durability) error {
	if r.mode == ModeInsert {
		return r.collection.Insert(ctx, doc, durability)
	}
	return r.collection.Upsert(ctx, doc, durability)
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrDocumentExists):
		return fmt.Errorf("%w: %w", core.ErrAlreadyExists, err)
	case errors.Is(err, ErrDurabilityImpossible):
		return fmt.Errorf("%w: %w", core.ErrDurabilityImpossible, err)
	default:
		return fmt.Errorf("%w: %w", core.ErrBackend, err)
	}
}
