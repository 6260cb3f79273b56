package backend

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockInvoker returns deterministic responses for local runs and tests.
// It can be configured to fail, to delay, and it counts invocations.
type MockInvoker struct {
	name            string
	responses       map[string]string
	defaultResponse string
	delay           time.Duration
	err             error

	mu    sync.Mutex
	calls int
}

// NewMockInvoker creates a mock invoker with a default response.
func NewMockInvoker(name string) *MockInvoker {
	return &MockInvoker{
		name:            name,
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// WithResponse registers a canned response for an exact payload.
func (m *MockInvoker) WithResponse(payload, response string) *MockInvoker {
	m.responses[payload] = response
	return m
}

// WithDefaultResponse overrides the fallback response prefix.
func (m *MockInvoker) WithDefaultResponse(response string) *MockInvoker {
	m.defaultResponse = response
	return m
}

// WithDelay makes every invocation sleep before responding.
func (m *MockInvoker) WithDelay(d time.Duration) *MockInvoker {
	m.delay = d
	return m
}

// WithError makes every invocation fail with the given error.
func (m *MockInvoker) WithError(err error) *MockInvoker {
	m.err = err
	return m
}

// Name returns the invoker identifier.
func (m *MockInvoker) Name() string {
	return m.name
}

// Calls returns how many times Invoke has been called.
func (m *MockInvoker) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Invoke returns the configured response for the payload, honoring the
// configured delay, error, and context cancellation.
func (m *MockInvoker) Invoke(ctx context.Context, payload string, _ InvokeOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}

	if response, ok := m.responses[payload]; ok {
		return response, nil
	}
	return fmt.Sprintf("%s %s", m.defaultResponse, payload), nil
}
