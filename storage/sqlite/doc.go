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


// Package sqlite implements storage.Store on SQLite via the pure-Go
// modernc.org/sqlite driver.
//
// Unlike the BadgerDB backend, this store also implements
// storage.VectorIndex: a registered vec_distance scalar function lets the
// database compute cosine distances and select the top k rows itself
// (ORDER BY distance, insertion order, LIMIT k), so ranking is delegated
// to the engine instead of scanning chunks in process.
//
// Embeddings are stored as little-endian float32 BLOBs; chunk metadata is
// stored as JSON text. Schema changes ship as embedded migrations applied
// at open time.
package sqlite
