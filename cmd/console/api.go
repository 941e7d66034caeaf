package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/rpg-context/pkg/prompts"
	"github.com/jwebster45206/rpg-context/pkg/state"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusServiceUnavailable
}

// CreateSessionRequest matches the API request structure
type CreateSessionRequest struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// MutationResponse matches the API mutation response structure
type MutationResponse struct {
	Context *state.PlayerContext `json:"context"`
}

func createSession(client *http.Client, baseURL string, playerID, playerName string) (*state.PlayerContext, error) {
	req := CreateSessionRequest{
		PlayerID:   playerID,
		PlayerName: playerName,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/sessions",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create session: %s", errorResp.Error)
	}

	var created MutationResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}

	return created.Context, nil
}

func getContext(client *http.Client, baseURL string, sessionID string) (*state.PlayerContext, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get session: %s", errorResp.Error)
	}

	var pc state.PlayerContext
	if err := json.Unmarshal(body, &pc); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &pc, nil
}

func getSummary(client *http.Client, baseURL string, sessionID string) (*prompts.ContextSummary, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s/summary", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get summary: %s", errorResp.Error)
	}

	var summary prompts.ContextSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary response: %w", err)
	}
	return &summary, nil
}

// NarrateRequest matches the API request structure
type NarrateRequest struct {
	Type    string `json:"type,omitempty"`
	Command string `json:"command"`
	Target  string `json:"target,omitempty"`
}

// NarrateResponse matches the API response structure
type NarrateResponse struct {
	SessionID string               `json:"session_id"`
	Narration string               `json:"narration"`
	Context   *state.PlayerContext `json:"context"`
}

func sendCommand(client *http.Client, baseURL string, sessionID string, command string) (*NarrateResponse, error) {
	req := NarrateRequest{Command: command}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/narrate", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("command failed: %s", errorResp.Error)
	}

	var narrateResp NarrateResponse
	if err := json.Unmarshal(body, &narrateResp); err != nil {
		return nil, fmt.Errorf("failed to parse narrate response: %w", err)
	}

	return &narrateResp, nil
}
