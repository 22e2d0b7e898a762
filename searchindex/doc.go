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


// Package searchindex provisions the Couchbase Search (FTS) vector index
// that covers the FAQ collection.
//
// Provisioner.Ensure is idempotent. It lists the existing index
// definitions, creates the index only when it is missing, and treats a
// 400 "already exists" reply as success, so concurrent loaders converge
// on one index. Within a process, concurrent calls for the same index
// name share a single round of requests.
//
// The index definition is the minimal vector mapping accepted by
// Couchbase 7.6 and later: documents are routed by their "type" field into
// a "{scope}.{collection}" type mapping that indexes question_vector as a
// vector field of the configured dimension and similarity.
//
// # Usage
//
//	p, err := searchindex.NewProvisioner("http://localhost:8094",
//	    searchindex.WithBasicAuth("Administrator", "password"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	state, err := p.Ensure(ctx, searchindex.Definition{
//	    Name:       "faq_vectors",
//	    Bucket:     "faq",
//	    Scope:      "_default",
//	    Collection: "faqs",
//	    Dims:       1024,
//	})
package searchindex
