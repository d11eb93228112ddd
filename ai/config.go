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


package ai

import (
	"errors"
	"strings"

	"github.com/contracthub/retrieval/core"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for an OpenAI-compatible embedding API.
	// Example: "http://localhost:11434/v1" for a local server.
	// Only used by the ai/openai embedder; the hash embedder ignores it.
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// Dimension is the fixed embedding vector length. Every vector written
	// to storage is conformed to this length.
	// Default: core.DefaultEmbeddingDim
	Dimension int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithDimension sets the embedding vector length.
func WithDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dim
	}
}

// NewConfig creates a Config with defaults, then applies the options.
func NewConfig(opts ...ConfigOption) *Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultConfig returns a Config suitable for the deterministic hash embedder.
func DefaultConfig() *Config {
	return &Config{
		Dimension: core.DefaultEmbeddingDim,
	}
}

// Validate checks the configuration and normalizes trailing slashes on the
// host URL. The host and model are only required when an API-backed embedder
// is in use; Dimension must always be positive.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Dimension <= 0 {
		return errors.New("embedding dimension must be positive")
	}
	c.EmbeddingHost = strings.TrimRight(c.EmbeddingHost, "/")
	return nil
}

// ValidateForAPI checks the configuration for an API-backed embedder, which
// additionally requires a host and model.
func (c *Config) ValidateForAPI() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.EmbeddingHost == "" {
		return errors.New("embedding host is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("embedding model is required")
	}
	return nil
}
