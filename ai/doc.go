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


// Package ai provides the embedding abstraction used by the FAQ loader.
//
// The Embedder interface turns question text into a fixed-length vector.
// The ingestion pipeline depends only on this interface; concrete clients
// live in sub-packages.
//
// # Implementation Packages
//
//   - ai/httpembed: a JSON POST /embed service, wrapped in a langchaingo embedder
//   - ai/openai: OpenAI-compatible embedding APIs through langchaingo
//   - ai/mock: deterministic vectors for tests and dry runs
//
// # Failure Semantics
//
// All implementations share the same contract:
//
//   - blank text fails with core.ErrInvalidInput and makes no request
//   - a service that stays unreachable fails with core.ErrServiceUnavailable
//   - an empty vector is an error
//   - a vector of unexpected length is logged as a warning and returned
//
// # Caching
//
// CachingEmbedder wraps any Embedder with a VectorCache keyed by
// CacheKey(model, text), so unchanged questions are not re-embedded on
// subsequent runs.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithEmbeddingHost("http://localhost:8000"))
//	embedder, err := httpembed.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "How do I reset my password?")
package ai
