// Copyright 2025 ContractHub
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


package search

import "errors"

var (
	// ErrStoreRequired is returned when a store is not provided.
	ErrStoreRequired = errors.New("store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrComposerRequired is returned when an answer composer is not provided.
	ErrComposerRequired = errors.New("answer composer required")

	// ErrIndexUnsupported is returned when the delegated strategy is requested
	// for a store that does not implement storage.VectorIndex.
	ErrIndexUnsupported = errors.New("store does not support delegated ranking")

	// ErrUnknownStrategy is returned for a strategy value the searcher does
	// not recognize.
	ErrUnknownStrategy = errors.New("unknown ranking strategy")
)
