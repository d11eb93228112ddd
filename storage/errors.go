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


package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrConstraint indicates a write referencing a tenant or document
	// that does not exist. The write is rejected; no partial insert is
	// retained.
	ErrConstraint = errors.New("constraint violation")

	// ErrDuplicateKey indicates a duplicate key violation, such as
	// creating a tenant with a username that is already taken.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrBackendUnavailable indicates the backend cannot be reached.
	// Callers must fail closed rather than fall back to a different
	// ranking strategy with different metric semantics.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")
)
