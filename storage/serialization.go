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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// float32Size is the encoded size of a vector element.
const float32Size = 4

// MarshalDocument serializes a Document to its JSON body. The id is the
// storage key and is not part of the body.
func MarshalDocument(doc *core.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalDocument deserializes a JSON body stored under id.
func UnmarshalDocument(id string, data []byte) (*core.Document, error) {
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	doc.ID = id
	return &doc, nil
}

// MarshalVector serializes a vector as a varint length followed by raw
// little-endian float32 values.
func MarshalVector(vector []float32) []byte {
	size := varint.Int.Size(len(vector))
	for _, f := range vector {
		size += raw.Float32.Size(f)
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(vector), buf)
	for _, f := range vector {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes a vector written by MarshalVector.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative vector length %d", ErrSerializationFailed, length)
	}
	if length > (len(data)-n)/float32Size {
		return nil, fmt.Errorf("%w: %d elements declared, %d bytes left", ErrTruncatedData, length, len(data)-n)
	}

	vector := make([]float32, length)
	for i := range vector {
		f, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrSerializationFailed, i, err)
		}
		vector[i] = f
		n += m
	}
	return vector, nil
}
