// Package backend provides the backend invocation interface, the registry
// of configured backends, and the concrete model clients.
package backend

import (
	"context"
	"errors"
	"time"
)

// InvokeOptions carries per-call generation parameters.
type InvokeOptions struct {
	// Temperature is the sampling temperature.
	Temperature float64
	// MaxTokens is the generation token limit. Zero means the client default.
	MaxTokens int
	// Timeout bounds the call. Zero means the caller's context governs alone.
	Timeout time.Duration
}

// Invoker is the single interface the orchestrator depends on. Each real
// backend (Ollama, OpenRouter, Anthropic, Gemini) implements it once;
// vendor request/response shapes never leak past this boundary.
type Invoker interface {
	// Invoke sends the payload to the backend and returns the generated text.
	Invoke(ctx context.Context, payload string, opts InvokeOptions) (string, error)
	// Name returns the invoker's identifier for logging.
	Name() string
}

// ErrEmptyOutput is returned when a backend responds successfully but with
// no content. Treated as a failed attempt so fallback can proceed.
var ErrEmptyOutput = errors.New("backend returned empty output")
