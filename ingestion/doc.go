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


// Package ingestion provides pipeline orchestration for loading FAQ records.
//
// Pipeline.Run drives one batch:
//   - provisions the search index once, before any write (WithIndex)
//   - identifies, embeds, builds and persists each record on a bounded
//     ants worker pool
//   - aggregates per-record results into an Outcome after a join barrier
//
// One bad record never aborts the batch: item-level failures are counted
// and logged with the record id and error kind. Embedding failures and
// provisioning failures are governed by fail-open or fail-closed policies.
//
// Cancellation is cooperative. Once the context is done no new record
// starts; records already in flight complete their writes.
package ingestion
