package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateTenant(t *testing.T) {
	tests := []struct {
		name    string
		tenant  *Tenant
		wantErr error
	}{
		{
			name:   "valid tenant",
			tenant: &Tenant{Username: "acme"},
		},
		{
			name:   "valid tenant with id and timestamp",
			tenant: &Tenant{Id: 7, Username: "acme", CreatedAt: time.Now().UTC()},
		},
		{
			name:    "nil tenant",
			tenant:  nil,
			wantErr: ErrInvalidTenant,
		},
		{
			name:    "empty username",
			tenant:  &Tenant{},
			wantErr: ErrEmptyUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTenant(tt.tenant)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTenant() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTenant() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc:  &Document{TenantId: 1, Filename: "msa.pdf"},
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty filename",
			doc:     &Document{TenantId: 1},
			wantErr: ErrEmptyFilename,
		},
		{
			name:    "missing tenant",
			doc:     &Document{Filename: "msa.pdf"},
			wantErr: ErrMissingTenant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:  "valid chunk",
			chunk: &Chunk{Text: "Liability cap: Limited to 12 months' fees."},
		},
		{
			name:  "chunk without embedding is valid",
			chunk: &Chunk{Text: "some text", Embedding: nil},
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty text",
			chunk:   &Chunk{},
			wantErr: ErrEmptyChunkText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
