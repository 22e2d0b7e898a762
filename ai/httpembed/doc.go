// Package httpembed implements ai.Embedder against a plain JSON embedding
// service, such as a self-hosted Granite or sentence-transformers server.
//
// The wire contract is POST {host}{path} with
//
//	{"text": "...", "inputs": ["..."], "model": "...", "provider": "..."}
//
// and a response carrying "embedding", "vector" or "embeddings[].vector".
// Each attempt is bounded by Config.Timeout; network errors, timeouts, 429
// and 5xx responses are retried Config.MaxRetries times with exponential
// backoff starting at Config.RetryDelay.
//
// Client satisfies langchaingo's embeddings.EmbedderClient, and Embedder
// wraps it with embeddings.NewEmbedder for newline stripping and batching.
package httpembed
