package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/rpg-context/internal/services"
	"github.com/jwebster45206/rpg-context/pkg/storage"
)

type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Service    string                 `json:"service"`
	Components map[string]interface{} `json:"components"`
}

type HealthHandler struct {
	store    storage.Store
	cache    services.Cache
	provider services.AIProvider
	logger   *slog.Logger
}

func NewHealthHandler(store storage.Store, cache services.Cache, provider services.AIProvider, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:    store,
		cache:    cache,
		provider: provider,
		logger:   logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	components := make(map[string]interface{})
	overallStatus := "healthy"

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Store health check failed", "error", err)
		components["store"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["store"] = "healthy"
	}

	if err := h.cache.Ping(ctx); err != nil {
		h.logger.Warn("Cache health check failed", "error", err)
		components["cache"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["cache"] = "healthy"
	}

	// Provider health does not gate readiness: narration degrades to a
	// fallback response when the provider is down.
	if h.provider.Healthy(ctx) {
		components["ai_provider"] = "healthy"
	} else {
		components["ai_provider"] = "unhealthy"
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "rpg-context",
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
