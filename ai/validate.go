package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JDeepLearn/faq-data-loader/core"
)

// CheckTexts rejects an empty batch or any blank text with core.ErrInvalidInput.
func CheckTexts(texts ...string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: no text to embed", core.ErrInvalidInput)
	}
	for i, text := range texts {
		if core.IsBlank(text) {
			return fmt.Errorf("%w: text %d is blank", core.ErrInvalidInput, i)
		}
	}
	return nil
}

// CheckVector rejects an empty vector and logs a warning when its length
// differs from dims. A mismatched vector is not an error here.
func CheckVector(ctx context.Context, logger *slog.Logger, vector []float32, dims int) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty embedding returned", core.ErrServiceUnavailable)
	}
	if dims > 0 && len(vector) != dims {
		logger.WarnContext(ctx, "embedding dimension mismatch", "expected", dims, "got", len(vector))
	}
	return nil
}
