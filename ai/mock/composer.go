package mock

import (
	"context"

	"github.com/contracthub/retrieval/core"
)

// MockComposer is a test double for ai.AnswerComposer.
type MockComposer struct {
	// ComposeFunc is called by Compose if set.
	ComposeFunc func(ctx context.Context, question string, evidence []*core.RetrievedChunk) (string, error)

	callCount int
}

// NewMockComposer creates a mock composer returning a fixed sentence.
func NewMockComposer() *MockComposer {
	return &MockComposer{}
}

// Compose returns the injected answer, or a fixed sentence by default.
func (m *MockComposer) Compose(ctx context.Context, question string, evidence []*core.RetrievedChunk) (string, error) {
	m.callCount++

	if m.ComposeFunc != nil {
		return m.ComposeFunc(ctx, question, evidence)
	}
	return "mock answer", nil
}

// CallCount returns the number of times Compose was called.
func (m *MockComposer) CallCount() int {
	return m.callCount
}
