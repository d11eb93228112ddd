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


// Package ai defines the interfaces between the retrieval engine and its AI
// collaborators: embedding generation and answer composition.
//
// The engine ships with a deterministic placeholder embedder (ai/hash) that
// maps text to fixed-length vectors via a cryptographic digest. It carries no
// semantic meaning; the Embedder interface exists so a real model (ai/openai)
// can be swapped in without touching any downstream component.
//
// Answer composition is likewise a collaborator, not engine logic: the engine
// produces ranked evidence and hands it to an AnswerComposer. The default
// composer returns a canned sentence.
//
// # Implementations
//
//   - ai/hash: deterministic digest-based embedder (the default)
//   - ai/openai: OpenAI-compatible embedding API via langchaingo
//   - ai/mock: test doubles with injectable behavior
//
// All implementations must be safe for concurrent use.
package ai
