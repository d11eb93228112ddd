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

import (
	"time"

	"github.com/contracthub/retrieval/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Serializers are assembled by hand from mus-go primitives. Timestamps are
// stored as Unix microseconds.
var (
	embeddingMUS = ord.NewSliceSer[float32](raw.Float32)
	metadataMUS  = ord.NewMapSer[string, string](ord.String, ord.String)
	tenantMUS    = tenantSer{}
	documentMUS  = documentSer{}
	chunkMUS     = chunkSer{}
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	return core.ID(v), err
}

// MarshalTenant serializes a Tenant to bytes.
func MarshalTenant(tenant *core.Tenant) []byte {
	buf := make([]byte, tenantMUS.Size(*tenant))
	tenantMUS.Marshal(*tenant, buf)
	return buf
}

// UnmarshalTenant deserializes a Tenant from bytes.
func UnmarshalTenant(data []byte) (*core.Tenant, error) {
	tenant, _, err := tenantMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, documentMUS.Size(*doc))
	documentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := documentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, chunkMUS.Size(*chunk))
	chunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := chunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

type tenantSer struct{}

func (tenantSer) Marshal(t core.Tenant, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(t.Id), bs)
	n += ord.String.Marshal(t.Username, bs[n:])
	n += varint.Int64.Marshal(t.CreatedAt.UnixMicro(), bs[n:])
	return n
}

func (tenantSer) Unmarshal(bs []byte) (t core.Tenant, n int, err error) {
	var (
		id uint64
		n1 int
		ts int64
	)
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	t.Id = core.ID(id)
	t.Username, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	ts, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.CreatedAt = time.UnixMicro(ts).UTC()
	return
}

func (tenantSer) Size(t core.Tenant) int {
	return varint.Uint64.Size(uint64(t.Id)) +
		ord.String.Size(t.Username) +
		varint.Int64.Size(t.CreatedAt.UnixMicro())
}

type documentSer struct{}

func (documentSer) Marshal(d core.Document, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(d.Id), bs)
	n += varint.Uint64.Marshal(uint64(d.TenantId), bs[n:])
	n += ord.String.Marshal(d.Filename, bs[n:])
	n += varint.Int64.Marshal(d.UploadedAt.UnixMicro(), bs[n:])
	hasExpiry := d.ExpiresAt != nil
	n += ord.Bool.Marshal(hasExpiry, bs[n:])
	if hasExpiry {
		n += varint.Int64.Marshal(d.ExpiresAt.UnixMicro(), bs[n:])
	}
	n += ord.String.Marshal(d.Status, bs[n:])
	n += ord.String.Marshal(d.Risk, bs[n:])
	return n
}

func (documentSer) Unmarshal(bs []byte) (d core.Document, n int, err error) {
	var (
		id        uint64
		n1        int
		ts        int64
		hasExpiry bool
	)
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	d.Id = core.ID(id)
	id, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.TenantId = core.ID(id)
	d.Filename, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	ts, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.UploadedAt = time.UnixMicro(ts).UTC()
	hasExpiry, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if hasExpiry {
		ts, n1, err = varint.Int64.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		expiry := time.UnixMicro(ts).UTC()
		d.ExpiresAt = &expiry
	}
	d.Status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Risk, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (documentSer) Size(d core.Document) int {
	size := varint.Uint64.Size(uint64(d.Id)) +
		varint.Uint64.Size(uint64(d.TenantId)) +
		ord.String.Size(d.Filename) +
		varint.Int64.Size(d.UploadedAt.UnixMicro()) +
		ord.Bool.Size(d.ExpiresAt != nil)
	if d.ExpiresAt != nil {
		size += varint.Int64.Size(d.ExpiresAt.UnixMicro())
	}
	return size +
		ord.String.Size(d.Status) +
		ord.String.Size(d.Risk)
}

type chunkSer struct{}

func (chunkSer) Marshal(c core.Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(c.Id, bs)
	n += varint.Uint64.Marshal(uint64(c.DocumentId), bs[n:])
	n += varint.Uint64.Marshal(uint64(c.TenantId), bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += embeddingMUS.Marshal(c.Embedding, bs[n:])
	n += metadataMUS.Marshal(c.Metadata, bs[n:])
	return n
}

func (chunkSer) Unmarshal(bs []byte) (c core.Chunk, n int, err error) {
	var (
		id uint64
		n1 int
	)
	c.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	id, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.DocumentId = core.ID(id)
	id, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.TenantId = core.ID(id)
	c.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Embedding, n1, err = embeddingMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkSer) Size(c core.Chunk) int {
	return ord.String.Size(c.Id) +
		varint.Uint64.Size(uint64(c.DocumentId)) +
		varint.Uint64.Size(uint64(c.TenantId)) +
		ord.String.Size(c.Text) +
		embeddingMUS.Size(c.Embedding) +
		metadataMUS.Size(c.Metadata)
}
