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


// Package storage provides the document persistence layer for the FAQ loader.
//
// Collection is the key-value port implemented by the backends:
//
//   - storage/couchbase: a Couchbase collection through gocb v2
//   - storage/badger: an embedded BadgerDB collection for local runs and tests
//
// Repository sits on top of a Collection and applies the loader's write
// rules: upsert or insert mode, and a single durability downgrade when the
// cluster cannot honour the requested level.
//
// # Constructor Return Type Pattern
//
// Backend constructors return concrete types so callers can reach
// backend-specific helpers (the badger VectorCache shares its Backend, for
// instance); consumers should depend on Collection.
//
// # Usage
//
//	col, err := badger.OpenCollection("/var/lib/faq", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo, err := storage.NewRepository(col, storage.WithWriteMode(storage.ModeUpsert))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
//	result, err := repo.Persist(ctx, doc, storage.DurabilityMajority)
//
// # Serialization
//
// Documents are stored as JSON bodies with the id as the key. Cached
// embedding vectors use a compact mus-go binary encoding (MarshalVector).
//
// # Thread Safety
//
// All collection implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
