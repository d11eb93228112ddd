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


// Package storage provides the tenant-scoped storage abstraction for the
// retrieval backend.
//
// This package defines the Store interface that decouples the engine from
// its storage implementation. Two backends exist:
//
//   - storage/badger: BadgerDB key-value backend. Candidate ranking is
//     performed in-process (brute force) by the search package.
//   - storage/sqlite: SQLite backend that additionally implements
//     VectorIndex, pushing distance computation and top-k selection into
//     the store (delegated index).
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.Store interface to enforce
// abstraction and keep backends swappable:
//
//	store, err := sqlite.New(path)  // returns storage.Store
//
// The search package discovers delegated-index capability with a type
// assertion against storage.VectorIndex; a backend that does not implement
// it can only serve the brute-force strategy.
//
// # Tenant Isolation
//
// Every operation takes the owning tenant's ID and must never read or write
// rows belonging to another tenant, regardless of any document filter. A
// cross-tenant result is a defect in the backend, not a runtime condition
// the caller is expected to handle.
//
// # Atomicity
//
// PutDocument writes a document and all of its chunks as a single atomic
// unit: either everything becomes visible to subsequent reads or nothing
// does. Reads operate on snapshots, so an in-flight candidate scan is not
// corrupted by a concurrent delete.
//
// # Thread Safety
//
// All Store implementations must be thread-safe and support concurrent
// access from multiple goroutines.
package storage
