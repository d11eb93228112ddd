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


package core

import "fmt"

// ValidateTenant validates a Tenant according to domain rules.
//
// Validation rules:
//   - Username must not be empty
//
// NOT validated:
//   - ID (0 is valid before the store assigns one from a sequence)
func ValidateTenant(tenant *Tenant) error {
	if tenant == nil {
		return fmt.Errorf("%w: tenant is nil", ErrInvalidTenant)
	}

	if tenant.Username == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTenant, ErrEmptyUsername)
	}

	return nil
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - TenantId must be set
//
// NOT validated:
//   - ID (0 is valid before the store assigns one from a sequence)
//   - Status and Risk (free-form labels, empty is filled with defaults)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	if doc.TenantId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrMissingTenant)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//
// NOT validated:
//   - Embedding (conformed to the store dimension at write time, never rejected)
//   - Id, DocumentId, TenantId (assigned by the store during PutDocument)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	return nil
}
