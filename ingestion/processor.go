package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/JDeepLearn/faq-data-loader/logging"
	"github.com/JDeepLearn/faq-data-loader/storage"
)

// recordStatus is how one record ended.
type recordStatus int

const (
	// statusDone covers upserted and skipped records.
	statusDone recordStatus = iota
	statusFailed
	// statusUnprocessed marks a record never started because the run was canceled.
	statusUnprocessed
)

// process runs one record through identify, embed, build and persist, and
// records its outcome in c.
func (p *Pipeline) process(ctx context.Context, index int, faq *core.FAQ, c *counters) recordStatus {
	// Records that have not started when the run is canceled are left alone.
	if ctx.Err() != nil {
		c.unprocessed.Add(1)
		return statusUnprocessed
	}
	// A started record runs to completion even if the run is canceled.
	work := context.WithoutCancel(ctx)

	id, err := p.identifier.Identify(faq)
	if err != nil {
		p.fail(ctx, index, "", "identify", err, c)
		return statusFailed
	}
	work = logging.WithFAQID(work, id)

	vector, err := p.embed(work, faq.Question)
	degraded := false
	if err != nil {
		if p.embeddingPolicy == PolicyFailClosed {
			p.fail(work, index, id, "embed", err, c)
			return statusFailed
		}
		degraded = true
		vector = nil
		p.logger.WarnContext(work, "degraded ingestion, persisting without vector",
			"faq_id", id, "kind", core.Kind(err), "err", err)
	}

	doc, err := p.builder.Build(id, faq, vector)
	if err != nil {
		p.fail(work, index, id, "build", err, c)
		return statusFailed
	}

	result, err := p.persist(work, doc)
	switch {
	case err == nil:
		c.upserted.Add(1)
		if degraded {
			c.degraded.Add(1)
		}
		if result.Downgraded {
			c.downgraded.Add(1)
		}
		p.logger.DebugContext(work, "record ingested", "faq_id", id, "has_vector", doc.HasVector())
		return statusDone
	case errors.Is(err, core.ErrAlreadyExists):
		c.skipped.Add(1)
		p.logger.InfoContext(work, "document already exists, skipped", "faq_id", id)
		return statusDone
	default:
		p.fail(work, index, id, "persist", err, c)
		return statusFailed
	}
}

// embed fetches the question vector under the step timeout. A vector whose
// length differs from the model dimension is an ErrDimensionMismatch so the
// embedding policy decides its fate; it is never truncated or padded.
func (p *Pipeline) embed(ctx context.Context, question string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	defer cancel()

	vector, err := p.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, err
	}
	if dims := p.builder.Provenance().ModelDim; len(vector) != dims {
		return nil, fmt.Errorf("%w: expected %d, got %d", core.ErrDimensionMismatch, dims, len(vector))
	}
	return vector, nil
}

func (p *Pipeline) persist(ctx context.Context, doc *core.Document) (storage.PersistResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	defer cancel()
	return p.repository.Persist(ctx, doc, p.durability)
}

// fail counts a failed record and logs it once.
func (p *Pipeline) fail(ctx context.Context, index int, id, step string, err error, c *counters) {
	c.failed.Add(1)
	p.logger.ErrorContext(ctx, "record failed",
		"index", index, "faq_id", id, "step", step, "kind", core.Kind(err), "err", err)
}
