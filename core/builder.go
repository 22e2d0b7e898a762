package core

import (
	"fmt"
	"time"
)

// Builder assembles persistable documents. It is stateless apart from the
// provenance it stamps on each document and is safe for concurrent use.
type Builder struct {
	provenance Provenance
	normalize  bool
	now        func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock replaces the time source used for created_at/indexed_at.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithNormalization scales every attached vector to unit length.
func WithNormalization(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.normalize = enabled
	}
}

// NewBuilder creates a Builder. Empty provenance fields fall back to the
// package defaults; ModelDim must be positive.
func NewBuilder(provenance Provenance, opts ...BuilderOption) (*Builder, error) {
	if provenance.ModelDim <= 0 {
		return nil, fmt.Errorf("%w: model dimension must be positive, got %d", ErrInvalidInput, provenance.ModelDim)
	}
	if provenance.Similarity == "" {
		provenance.Similarity = DefaultSimilarity
	}
	if provenance.Source == "" {
		provenance.Source = DefaultSource
	}
	if provenance.ContentVersion == "" {
		provenance.ContentVersion = DefaultContentVersion
	}

	b := &Builder{
		provenance: provenance,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Provenance returns the metadata stamped on built documents.
func (b *Builder) Provenance() Provenance {
	return b.provenance
}

// Build assembles a document from an id, a record and an optional vector.
// A nil vector yields a document without embedding. A vector whose length
// differs from the model dimension is rejected with ErrDimensionMismatch.
func (b *Builder) Build(id string, faq *FAQ, vector []float32) (*Document, error) {
	if IsBlank(id) {
		return nil, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	if faq == nil {
		return nil, fmt.Errorf("%w: record is nil", ErrInvalidInput)
	}
	if IsBlank(faq.Question) {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if IsBlank(faq.Answer) {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}
	if vector != nil && len(vector) != b.provenance.ModelDim {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, b.provenance.ModelDim, len(vector))
	}

	if vector != nil && b.normalize {
		vector = NormalizeVector(vector)
	}

	at := b.now().UTC()
	return &Document{
		ID:       id,
		Type:     DocumentType,
		Category: faq.Category,
		Question: faq.Question,
		Answer:   faq.Answer,
		Image:    faq.Image,
		Link:     faq.Link,
		Vector:   vector,
		Meta: Meta{
			Provider:       b.provenance.Provider,
			ModelName:      b.provenance.ModelName,
			ModelDim:       b.provenance.ModelDim,
			Similarity:     b.provenance.Similarity,
			Source:         b.provenance.Source,
			ContentVersion: b.provenance.ContentVersion,
			CreatedAt:      at,
			IndexedAt:      at,
		},
	}, nil
}
