package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/rpg-context/pkg/prompts"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	DefaultAnthropicTemperature = 0.7
	DefaultAnthropicMaxTokens   = 1024
)

// FallbackNarration is returned when the provider cannot reach the API. The
// session keeps moving with a degraded narration instead of an error.
const FallbackNarration = "The world responds to your action, though the details are unclear at this moment. The Game Master's connection seems to be experiencing difficulties."

// AnthropicProvider implements AIProvider for Anthropic Claude
type AnthropicProvider struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure AnthropicProvider implements AIProvider interface
var _ AIProvider = (*AnthropicProvider)(nil)

type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AnthropicChatRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []AnthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
}

type AnthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type AnthropicChatResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []AnthropicContentBlock `json:"content"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewAnthropicProvider(apiKey string, modelName string, logger *slog.Logger) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// GenerateResponse sends the rendered prompt to the messages API. On any
// transport or API failure it logs and returns the fallback narration.
func (a *AnthropicProvider) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	temperature := DefaultAnthropicTemperature
	reqBody := AnthropicChatRequest{
		Model:       a.modelName,
		MaxTokens:   DefaultAnthropicMaxTokens,
		Temperature: &temperature,
		System:      prompts.GMSystemPrompt,
		Messages: []AnthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	text, err := a.send(ctx, reqBody)
	if err != nil {
		a.logger.Warn("Anthropic request failed, using fallback narration", "error", err)
		return FallbackNarration, nil
	}
	return text, nil
}

func (a *AnthropicProvider) send(ctx context.Context, reqBody AnthropicChatRequest) (string, error) {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicBaseURL+"/messages", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp AnthropicChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil {
			return "", fmt.Errorf("anthropic API error (%d): %s", resp.StatusCode, chatResp.Error.Message)
		}
		return "", fmt.Errorf("anthropic API returned status %d", resp.StatusCode)
	}

	if len(chatResp.Content) == 0 {
		return "", fmt.Errorf("anthropic API returned empty content")
	}

	return chatResp.Content[0].Text, nil
}

// Healthy reports readiness. The messages API has no ping endpoint; a
// configured key is treated as ready and failures degrade per-request.
func (a *AnthropicProvider) Healthy(ctx context.Context) bool {
	return a.apiKey != ""
}
