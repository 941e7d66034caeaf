package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/rpg-context/internal/engine"
	"github.com/jwebster45206/rpg-context/pkg/state"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionHandler exposes session lifecycle and context mutation endpoints.
type SessionHandler struct {
	manager *engine.Manager
	logger  *slog.Logger
}

func NewSessionHandler(manager *engine.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

// writeJSON encodes a response body with the given status code.
func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeEngineError maps engine errors onto HTTP status codes: validation
// failures are the caller's fault, missing sessions are 404, everything else
// is a server problem.
func writeEngineError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var ve *state.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: ve.Error()})
	case errors.Is(err, engine.ErrSessionNotFound):
		writeJSON(logger, w, http.StatusNotFound, ErrorResponse{Error: "Session not found"})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(logger, w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func (h *SessionHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	writeJSON(h.logger, w, status, body)
}

func (h *SessionHandler) writeError(w http.ResponseWriter, err error) {
	writeEngineError(h.logger, w, err)
}

// MutationResponse pairs the updated context with the event the operation
// produced.
type MutationResponse struct {
	Context *state.PlayerContext `json:"context"`
	Event   state.Event          `json:"event,omitempty"`
}

// ServeHTTP routes session requests.
// Routes:
// POST /v1/sessions                       - Create session
// GET /v1/sessions/{id}                   - Read player context
// DELETE /v1/sessions/{id}                - Delete session
// POST /v1/sessions/{id}/actions          - Record an action
// GET /v1/sessions/{id}/actions           - List recent actions
// POST /v1/sessions/{id}/location         - Move the player
// POST /v1/sessions/{id}/npcs             - Record an NPC interaction
// POST /v1/sessions/{id}/health           - Apply a health delta
// POST /v1/sessions/{id}/reputation       - Apply a reputation delta
// GET /v1/sessions/{id}/prompt            - Render the narrator prompt
// GET /v1/sessions/{id}/summary           - Structured context summary
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")

	if path == "" {
		if r.Method != http.MethodPost {
			h.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed. Supported methods: POST"})
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	sessionID := parts[0]
	if _, err := uuid.Parse(sessionID); err != nil {
		h.logger.Warn("Invalid session ID", "id", sessionID, "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid session ID format"})
		return
	}

	var sub string
	if len(parts) == 2 {
		sub = parts[1]
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, sessionID)
	case sub == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, sessionID)
	case sub == "actions" && r.Method == http.MethodPost:
		h.handleRecordAction(w, r, sessionID)
	case sub == "actions" && r.Method == http.MethodGet:
		h.handleListActions(w, r, sessionID)
	case sub == "location" && r.Method == http.MethodPost:
		h.handleUpdateLocation(w, r, sessionID)
	case sub == "npcs" && r.Method == http.MethodPost:
		h.handleNPCInteraction(w, r, sessionID)
	case sub == "health" && r.Method == http.MethodPost:
		h.handleHealthChange(w, r, sessionID)
	case sub == "reputation" && r.Method == http.MethodPost:
		h.handleReputationChange(w, r, sessionID)
	case sub == "prompt" && r.Method == http.MethodGet:
		h.handlePrompt(w, r, sessionID)
	case sub == "summary" && r.Method == http.MethodGet:
		h.handleSummary(w, r, sessionID)
	default:
		h.logger.Warn("Unknown session route", "method", r.Method, "path", r.URL.Path)
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
	}
}

// CreateSessionRequest defines the request body for creating a new session.
type CreateSessionRequest struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	pc, event, err := h.manager.CreateSession(r.Context(), req.PlayerID, req.PlayerName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, MutationResponse{Context: pc, Event: event})
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, sessionID string) {
	pc, err := h.manager.GetContext(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pc)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.manager.DeleteSession(r.Context(), sessionID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordActionRequest defines the request body for recording a player action.
type RecordActionRequest struct {
	Type         string   `json:"type"`
	Command      string   `json:"command"`
	Target       string   `json:"target,omitempty"`
	Outcome      string   `json:"outcome"`
	Consequences []string `json:"consequences,omitempty"`
}

func (h *SessionHandler) handleRecordAction(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req RecordActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	pc, event, err := h.manager.RecordAction(r.Context(), sessionID,
		state.ParseActionType(req.Type), req.Command, req.Target, req.Outcome, req.Consequences)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MutationResponse{Context: pc, Event: event})
}

func (h *SessionHandler) handleListActions(w http.ResponseWriter, r *http.Request, sessionID string) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	actions, err := h.manager.GetRecentActions(r.Context(), sessionID, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if actions == nil {
		actions = []state.ActionEvent{}
	}
	h.writeJSON(w, http.StatusOK, actions)
}

// UpdateLocationRequest defines the request body for moving the player.
type UpdateLocationRequest struct {
	Location string `json:"location"`
}

func (h *SessionHandler) handleUpdateLocation(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	pc, event, err := h.manager.UpdateLocation(r.Context(), sessionID, req.Location)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MutationResponse{Context: pc, Event: event})
}

// NPCInteractionRequest defines the request body for recording an NPC interaction.
type NPCInteractionRequest struct {
	NPCID             string   `json:"npc_id"`
	NPCName           string   `json:"npc_name"`
	DispositionChange int      `json:"disposition_change"`
	Facts             []string `json:"facts,omitempty"`
}

func (h *SessionHandler) handleNPCInteraction(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req NPCInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	pc, event, err := h.manager.UpdateNPCRelationship(r.Context(), sessionID,
		req.NPCID, req.NPCName, req.DispositionChange, req.Facts)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MutationResponse{Context: pc, Event: event})
}

// DeltaRequest defines the request body for health and reputation changes.
type DeltaRequest struct {
	Delta int `json:"delta"`
}

func (h *SessionHandler) handleHealthChange(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req DeltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	pc, event, err := h.manager.UpdateCharacterHealth(r.Context(), sessionID, req.Delta)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MutationResponse{Context: pc, Event: event})
}

func (h *SessionHandler) handleReputationChange(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req DeltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	pc, event, err := h.manager.UpdateReputation(r.Context(), sessionID, req.Delta)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MutationResponse{Context: pc, Event: event})
}

// PromptResponse carries the rendered narrator prompt.
type PromptResponse struct {
	SessionID string `json:"session_id"`
	Prompt    string `json:"prompt"`
}

func (h *SessionHandler) handlePrompt(w http.ResponseWriter, r *http.Request, sessionID string) {
	prompt, err := h.manager.GeneratePrompt(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, PromptResponse{SessionID: sessionID, Prompt: prompt})
}

func (h *SessionHandler) handleSummary(w http.ResponseWriter, r *http.Request, sessionID string) {
	summary, err := h.manager.GetSummary(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}
