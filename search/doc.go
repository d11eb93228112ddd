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


// Package search ranks stored chunks by similarity to a query.
//
// The Searcher embeds the query once and ranks candidates by ascending
// cosine distance under one of two strategies:
//   - StrategyBruteForce scans the tenant's chunks in process and sorts
//     them, keeping insertion order on equal distances.
//   - StrategyDelegated hands ranking to the store, which must implement
//     storage.VectorIndex. There is no silent fallback: constructing a
//     delegated searcher over a store without the capability fails.
//
// Both strategies use the same distance and tie-break, so they order
// identically over the same data. Each hit carries a relevance score in
// [0, 1] and a display confidence rounded to two decimals and clamped to
// [0.50, 0.99].
package search
