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


// Package ingestion turns parsed document chunks into stored, embedded
// records.
//
// Parsing is outside this package: callers hand the Pipeline a list of
// ParsedChunk values produced by whatever extracted text from the upload.
// The pipeline embeds every chunk text on a worker pool, then writes the
// document and all chunks through one atomic store call. An embedding
// failure on any chunk fails the whole ingest; nothing becomes visible.
package ingestion
