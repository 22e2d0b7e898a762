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


package badger

// NewMemoryCollection creates an in-memory collection and a vector cache
// sharing its backend, for testing. Closing the collection closes both.
func NewMemoryCollection() (*Collection, *VectorCache, error) {
	col, err := OpenCollection("", true)
	if err != nil {
		return nil, nil, err
	}
	return col, NewVectorCache(col.Backend()), nil
}
