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


package core

import (
	"context"
	"errors"
)

// Ingestion error taxonomy. Every failure surfaced by the pipeline wraps
// exactly one of these so callers can classify it with errors.Is.
var (
	// ErrInvalidInput indicates a malformed or missing required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrServiceUnavailable indicates the embedding service could not be
	// reached or kept failing after retries.
	ErrServiceUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// configured model dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrAlreadyExists indicates an insert-only write hit an existing document.
	ErrAlreadyExists = errors.New("document already exists")

	// ErrDurabilityImpossible indicates the store cannot satisfy the
	// requested durability level.
	ErrDurabilityImpossible = errors.New("durability impossible")

	// ErrBackend indicates any other persistence failure.
	ErrBackend = errors.New("storage backend error")

	// ErrProvision indicates the search index could not be checked or created.
	ErrProvision = errors.New("search index provisioning failed")
)

// Error kinds as they appear in logs.
const (
	KindInvalidInput         = "invalid_input"
	KindServiceUnavailable   = "service_unavailable"
	KindDimensionMismatch    = "dimension_mismatch"
	KindAlreadyExists        = "already_exists"
	KindDurabilityImpossible = "durability_impossible"
	KindBackend              = "backend_error"
	KindProvision            = "provision_error"
	KindCanceled             = "canceled"
	KindUnknown              = "unknown"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidInput, KindInvalidInput},
	{ErrDimensionMismatch, KindDimensionMismatch},
	{ErrServiceUnavailable, KindServiceUnavailable},
	{ErrAlreadyExists, KindAlreadyExists},
	{ErrDurabilityImpossible, KindDurabilityImpossible},
	{ErrBackend, KindBackend},
	{ErrProvision, KindProvision},
}

// Kind returns the taxonomy label of err, or "" for a nil error.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindUnknown
}
