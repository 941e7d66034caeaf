package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnthropicProvider_Healthy(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	provider := NewAnthropicProvider("test-key", "claude-sonnet-4-0", logger)
	assert.True(t, provider.Healthy(context.Background()))

	unconfigured := NewAnthropicProvider("", "claude-sonnet-4-0", logger)
	assert.False(t, unconfigured.Healthy(context.Background()))
}

func TestMockAIProvider_RecordsPrompts(t *testing.T) {
	mock := &MockAIProvider{}

	resp, err := mock.GenerateResponse(context.Background(), "first prompt")
	assert.NoError(t, err)
	assert.NotEmpty(t, resp)

	_, _ = mock.GenerateResponse(context.Background(), "second prompt")
	assert.Equal(t, []string{"first prompt", "second prompt"}, mock.Prompts)
	assert.True(t, mock.Healthy(context.Background()))
}
