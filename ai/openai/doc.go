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


// Package openai provides an ai.Embedder for OpenAI-compatible embedding
// APIs such as OpenAI, Ollama, LocalAI or vLLM.
//
// The client is built with langchaingo. Config.EmbeddingHost gets the /v1
// suffix automatically, Config.APIKey becomes the bearer token ("none" for
// local services), and Config.Dimensions is requested from models that
// support shortened embeddings.
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithBackend(ai.BackendOpenAI),
//	    ai.WithEmbeddingHost("http://localhost:11434"),
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	    ai.WithDimensions(768),
//	)
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "How do I reset my password?")
package openai
