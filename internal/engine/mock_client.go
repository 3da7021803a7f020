package engine

import (
	"context"
	"sync"

	"github.com/sortwise/sortwise/internal/common"
)

// MockClient is a test implementation of the ollama.Client interface.
// It replays scripted responses and records every prompt it receives.
type MockClient struct {
	Err       error
	ModelName string
	Responses []string
	Prompts   []string
	Healthy   bool
	calls     int
	mu        sync.Mutex
}

// NewMockClient creates a mock inference client returning the given
// responses in order.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{Responses: responses, Healthy: true, ModelName: "mock-model"}
}

// Generate replays the next scripted response, or the configured error.
func (m *MockClient) Generate(_ context.Context, prompt, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}

	if m.calls < len(m.Responses) {
		resp := m.Responses[m.calls]
		m.calls++
		return resp, nil
	}

	return "", common.ErrMaxRetries
}

// HealthCheck reports the scripted health state.
func (m *MockClient) HealthCheck(context.Context) bool {
	return m.Healthy
}

// Model returns the mock model identifier.
func (m *MockClient) Model() string {
	return m.ModelName
}

// Calls returns how many Generate requests the mock served.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
