package mocks

import (
	"context"
	"sync"

	"github.com/dgarridoh/studykit-api/internal/generation"
)

// MockModelClient implements generation.ModelClient for testing.
type MockModelClient struct {
	// GenerateFn overrides Generate behavior when set.
	GenerateFn func(ctx context.Context, prompt string) (string, error)

	// Response and Err are the defaults when GenerateFn is nil.
	Response string
	Err      error

	mu      sync.Mutex
	count   int
	prompts []string
}

// Compile-time check
var _ generation.ModelClient = (*MockModelClient)(nil)

// Generate implements generation.ModelClient.
func (m *MockModelClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.count++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// CallCount returns how many times Generate was invoked.
func (m *MockModelClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Prompts returns a copy of all prompts passed to Generate.
func (m *MockModelClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
