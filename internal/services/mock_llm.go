package services

import "context"

// MockAIProvider is a configurable AIProvider for testing.
type MockAIProvider struct {
	GenerateResponseFunc func(ctx context.Context, prompt string) (string, error)
	HealthyFunc          func(ctx context.Context) bool

	// Prompts records every prompt passed to GenerateResponse
	Prompts []string
}

// Ensure MockAIProvider implements AIProvider interface
var _ AIProvider = (*MockAIProvider)(nil)

func (m *MockAIProvider) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt)
	}
	return "The narrator pauses, then continues the tale.", nil
}

func (m *MockAIProvider) Healthy(ctx context.Context) bool {
	if m.HealthyFunc != nil {
		return m.HealthyFunc(ctx)
	}
	return true
}
