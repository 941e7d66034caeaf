package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/rpg-context/internal/engine"
	"github.com/jwebster45206/rpg-context/internal/services"
	"github.com/jwebster45206/rpg-context/pkg/state"
)

// NarrateHandler runs one game turn: it renders the narrator prompt from the
// session's current context, asks the AI provider for a narration, and records
// the command with that narration as its outcome.
type NarrateHandler struct {
	manager  *engine.Manager
	provider services.AIProvider
	logger   *slog.Logger
}

func NewNarrateHandler(manager *engine.Manager, provider services.AIProvider, logger *slog.Logger) *NarrateHandler {
	return &NarrateHandler{
		manager:  manager,
		provider: provider,
		logger:   logger,
	}
}

// NarrateRequest defines the request body for a player command.
type NarrateRequest struct {
	Type    string `json:"type,omitempty"`
	Command string `json:"command"`
	Target  string `json:"target,omitempty"`
}

// NarrateResponse is the narrator's reply plus the updated context.
type NarrateResponse struct {
	SessionID string               `json:"session_id"`
	Narration string               `json:"narration"`
	Action    state.ActionEvent    `json:"action"`
	Context   *state.PlayerContext `json:"context"`
}

// ServeHTTP handles POST /v1/sessions/{id}/narrate.
func (h *NarrateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeJSON(h.logger, w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed. Supported methods: POST"})
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	sessionID := strings.TrimSuffix(path, "/narrate")
	if _, err := uuid.Parse(sessionID); err != nil {
		h.logger.Warn("Invalid session ID", "id", sessionID, "error", err)
		writeJSON(h.logger, w, http.StatusBadRequest, ErrorResponse{Error: "Invalid session ID format"})
		return
	}

	var req NarrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeJSON(h.logger, w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		writeJSON(h.logger, w, http.StatusBadRequest, ErrorResponse{Error: "command field is required"})
		return
	}

	prompt, err := h.manager.GeneratePrompt(r.Context(), sessionID)
	if err != nil {
		writeEngineError(h.logger, w, err)
		return
	}

	narration, err := h.provider.GenerateResponse(r.Context(), prompt)
	if err != nil {
		h.logger.Error("AI provider failed", "session_id", sessionID, "error", err)
		writeJSON(h.logger, w, http.StatusBadGateway, ErrorResponse{Error: "Narrator unavailable"})
		return
	}

	pc, event, err := h.manager.RecordAction(r.Context(), sessionID,
		state.ParseActionType(req.Type), req.Command, req.Target, narration, nil)
	if err != nil {
		writeEngineError(h.logger, w, err)
		return
	}

	recorded, _ := event.(state.ActionRecorded)
	writeJSON(h.logger, w, http.StatusOK, NarrateResponse{
		SessionID: sessionID,
		Narration: narration,
		Action:    recorded.Action,
		Context:   pc,
	})
}
