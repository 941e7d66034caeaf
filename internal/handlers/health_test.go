package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/rpg-context/internal/services"
	"github.com/jwebster45206/rpg-context/pkg/storage"
)

func TestHealthHandler_AllHealthy(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	handler := NewHealthHandler(storage.NewMockStore(), services.NewMockCache(), &services.MockAIProvider{}, logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "rpg-context", resp.Service)
	assert.Equal(t, "healthy", resp.Components["store"])
	assert.Equal(t, "healthy", resp.Components["cache"])
	assert.Equal(t, "healthy", resp.Components["ai_provider"])
}

func TestHealthHandler_StoreDown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := storage.NewMockStore()
	store.SetPingError(errors.New("connection refused"))
	handler := NewHealthHandler(store, services.NewMockCache(), &services.MockAIProvider{}, logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["store"])
}

func TestHealthHandler_ProviderDownDoesNotGateReadiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	provider := &services.MockAIProvider{
		HealthyFunc: func(ctx context.Context) bool { return false },
	}
	handler := NewHealthHandler(storage.NewMockStore(), services.NewMockCache(), provider, logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["ai_provider"])
}
