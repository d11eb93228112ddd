package hash

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/contracthub/retrieval/ai"
	"github.com/contracthub/retrieval/core"
)

// Embedder is a deterministic placeholder for a real embedding model.
// It hashes the UTF-8 bytes of the text with SHA-256, slices the digest into
// consecutive 4-byte big-endian unsigned integers, and maps each through
// (v mod 1000) / 1000.0, producing components in [0, 1). The digest yields
// 8 raw components; the vector is then padded with trailing zeros or
// truncated from the tail to the configured dimension.
//
// Identical input always produces a bit-identical vector. Beyond the
// avalanche behavior of the hash there is no semantic guarantee: distinct
// texts are expected, not guaranteed, to map to distinct vectors.
type Embedder struct {
	dim int
}

var _ ai.Embedder = (*Embedder)(nil)

// rawComponents is the number of components a SHA-256 digest yields.
const rawComponents = sha256.Size / 4

// New creates a deterministic hash embedder producing vectors of length dim.
// A non-positive dim falls back to core.DefaultEmbeddingDim.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = core.DefaultEmbeddingDim
	}
	return &Embedder{dim: dim}
}

// Dimension returns the length of the vectors this embedder produces.
func (e *Embedder) Dimension() int {
	return e.dim
}

// EmbedText generates the deterministic embedding for a single text.
// It is a pure function of the text and never fails.
func (e *Embedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))
	raw := make([]float32, rawComponents)
	for i := 0; i < rawComponents; i++ {
		v := binary.BigEndian.Uint32(digest[i*4:])
		raw[i] = float32(v%1000) / 1000.0
	}
	return core.Conform(raw, e.dim), nil
}

// EmbedTexts generates embeddings for multiple texts, in input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}
