package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/rpg-context/internal/config"
	"github.com/jwebster45206/rpg-context/internal/engine"
	"github.com/jwebster45206/rpg-context/internal/handlers"
	"github.com/jwebster45206/rpg-context/internal/logger"
	"github.com/jwebster45206/rpg-context/internal/middleware"
	"github.com/jwebster45206/rpg-context/internal/services"
	"github.com/jwebster45206/rpg-context/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting RPG Context API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"ai_provider", cfg.AIProvider,
		"model_name", cfg.ModelName)

	var provider services.AIProvider
	switch strings.ToLower(cfg.AIProvider) {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		provider = services.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic AI provider")
	case "mock":
		provider = &services.MockAIProvider{}
		log.Info("Using mock AI provider")
	default:
		log.Error("Invalid AI provider specified", "provider", cfg.AIProvider, "supported", []string{"anthropic", "mock"})
		os.Exit(1)
	}

	store, err := storage.NewRedisStore(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to configure store", "error", err)
		os.Exit(1)
	}

	cache, err := services.NewRedisCache(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to configure cache", "error", err)
		os.Exit(1)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer startupCancel()
	if err := store.WaitForConnection(startupCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	manager := engine.NewManager(store, cache, cfg.CacheTTL, log)

	sweeper := engine.NewSweeper(manager, cfg.CleanupInterval, cfg.MaxContextAge, log)
	go func() {
		if err := sweeper.Start(); err != nil {
			log.Error("Cleanup sweeper stopped", "error", err)
		}
	}()

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, cache, provider, log)
	mux.Handle("/health", healthHandler)

	narrateHandler := handlers.NewNarrateHandler(manager, provider, log)
	mux.Handle("POST /v1/sessions/{id}/narrate", narrateHandler)

	sessionHandler := handlers.NewSessionHandler(manager, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // narrate requests wait on the AI provider
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	sweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}
	if err := cache.Close(); err != nil {
		log.Error("Error closing cache connection", "error", err)
	}

	log.Info("Server exited")
}
