package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Blank text fails with core.ErrInvalidInput without contacting the
	// service. A vector whose length differs from the configured dimension
	// is logged and still returned; callers decide whether it is fatal.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ModelInfo describes the model behind an Embedder. It is stamped on
// documents as provenance.
type ModelInfo struct {
	Provider   string
	Model      string
	Dimensions int
}

// Info returns the ModelInfo described by the configuration.
func (c *Config) Info() ModelInfo {
	return ModelInfo{
		Provider:   c.EmbeddingProvider,
		Model:      c.EmbeddingModel,
		Dimensions: c.Dimensions,
	}
}
