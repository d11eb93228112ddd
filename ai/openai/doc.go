// Package openai implements the ai.Embedder interface against any
// OpenAI-compatible embedding API (OpenAI itself, Ollama, vLLM, ...).
//
// It is the production replacement for the deterministic hash embedder:
// wiring it in changes nothing downstream because every stored vector is
// conformed to the configured dimension at the storage boundary.
package openai
