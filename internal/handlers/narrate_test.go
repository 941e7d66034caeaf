package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/rpg-context/internal/engine"
	"github.com/jwebster45206/rpg-context/internal/services"
	"github.com/jwebster45206/rpg-context/pkg/state"
	"github.com/jwebster45206/rpg-context/pkg/storage"
)

func newNarrateTest(t *testing.T) (*NarrateHandler, *engine.Manager, *services.MockAIProvider) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := engine.NewManager(storage.NewMockStore(), services.NewMockCache(), 0, logger)
	provider := &services.MockAIProvider{}
	return NewNarrateHandler(manager, provider, logger), manager, provider
}

func TestNarrateHandler(t *testing.T) {
	handler, manager, provider := newNarrateTest(t)
	pc, _, err := manager.CreateSession(context.Background(), "player-1", "Aria")
	require.NoError(t, err)

	provider.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return "The elder smiles and beckons you closer.", nil
	}

	body, _ := json.Marshal(NarrateRequest{Type: "talk", Command: "approach the elder"})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+pc.SessionID+"/narrate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp NarrateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "The elder smiles and beckons you closer.", resp.Narration)
	assert.Equal(t, "approach the elder", resp.Action.Command)
	assert.Equal(t, state.ActionTalk, resp.Action.Type)
	assert.Equal(t, resp.Narration, resp.Action.Outcome)
	require.NotNil(t, resp.Context)
	assert.Equal(t, 1, resp.Context.SessionStats.TotalActions)

	// the provider saw the rendered context prompt
	require.Len(t, provider.Prompts, 1)
	assert.Contains(t, provider.Prompts[0], "GAME MASTER CONTEXT")
	assert.Contains(t, provider.Prompts[0], "starting_village")
}

func TestNarrateHandler_MissingCommand(t *testing.T) {
	handler, manager, _ := newNarrateTest(t)
	pc, _, err := manager.CreateSession(context.Background(), "player-1", "Aria")
	require.NoError(t, err)

	body, _ := json.Marshal(NarrateRequest{})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+pc.SessionID+"/narrate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNarrateHandler_SessionNotFound(t *testing.T) {
	handler, _, _ := newNarrateTest(t)

	body, _ := json.Marshal(NarrateRequest{Command: "look around"})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/00000000-0000-0000-0000-000000000000/narrate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNarrateHandler_MethodNotAllowed(t *testing.T) {
	handler, _, _ := newNarrateTest(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/00000000-0000-0000-0000-000000000000/narrate", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestNarrateHandler_ProviderError(t *testing.T) {
	handler, manager, provider := newNarrateTest(t)
	pc, _, err := manager.CreateSession(context.Background(), "player-1", "Aria")
	require.NoError(t, err)

	provider.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", assert.AnError
	}

	body, _ := json.Marshal(NarrateRequest{Command: "look around"})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+pc.SessionID+"/narrate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	// failed narration leaves no action behind
	final, err := manager.GetContext(context.Background(), pc.SessionID)
	require.NoError(t, err)
	assert.Empty(t, final.Actions)
}
