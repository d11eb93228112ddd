package ai

import (
	"context"

	"github.com/contracthub/retrieval/core"
)

// Embedder generates vector embeddings from text for similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Identical input must always yield an identical vector for
	// deterministic implementations.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AnswerComposer produces prose from ranked evidence. The retrieval engine
// never fabricates answer text itself; it passes the evidence list to a
// composer and returns whatever the composer says.
// Implementations must be thread-safe for concurrent use.
type AnswerComposer interface {
	// Compose builds an answer to question from the ranked evidence.
	// An empty evidence list is a valid input.
	Compose(ctx context.Context, question string, evidence []*core.RetrievedChunk) (string, error)
}

// StaticComposer is an AnswerComposer that always returns the same text.
// It stands in for a generative model, which is outside the engine's scope.
type StaticComposer struct {
	Answer string
}

var _ AnswerComposer = (*StaticComposer)(nil)

// DefaultAnswer is what a StaticComposer with an empty Answer returns.
const DefaultAnswer = "This is a mock answer based on your documents."

// Compose returns the configured static answer.
func (c *StaticComposer) Compose(_ context.Context, _ string, _ []*core.RetrievedChunk) (string, error) {
	if c.Answer == "" {
		return DefaultAnswer, nil
	}
	return c.Answer, nil
}
