// Package mock provides a test double implementation of ai.Embedder.
//
// MockEmbedder produces deterministic, unit-length vectors derived from an
// FNV hash of the input text, so tests and dry runs get stable embeddings
// without an external service.
//
// # Usage in Tests
//
//	embedder := mock.NewMockEmbedderWithDimensions(1024)
//	vector, err := embedder.EmbedText(ctx, "How do I reset my password?")
//
//	// Custom behavior injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, core.ErrServiceUnavailable
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
package mock
