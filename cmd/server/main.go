package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/recipe-finder/internal/api"
	"github.com/socialchef/recipe-finder/internal/app"
	"github.com/socialchef/recipe-finder/internal/config"
	"github.com/socialchef/recipe-finder/internal/sentry"
	"github.com/socialchef/recipe-finder/internal/services/ai"
	"github.com/socialchef/recipe-finder/internal/services/recipe"
	"github.com/socialchef/recipe-finder/internal/worker"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, shutdown := app.InitObservability(ctx, cfg, cfg.ServiceName)
	defer shutdown()

	prompts, err := ai.LoadPrompts(cfg.PromptsDir)
	if err != nil {
		log.Fatalf("Failed to load prompts: %v", err)
	}

	// Retrieval pipeline
	comps, closeRAG, err := app.NewRAG(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open embedding store: %v", err)
	}
	defer closeRAG()

	var retriever recipe.ContentRetriever
	if comps != nil {
		retriever = comps.Retriever
		if cfg.RAG.DocumentsDir != "" && cfg.RAG.Store == "memory" {
			go func() {
				defer sentry.Recover()
				if _, err := comps.Ingestor.IngestDirectory(ctx, cfg.RAG.DocumentsDir); err != nil {
					logger.Error("Failed to ingest documents directory", "dir", cfg.RAG.DocumentsDir, "error", err)
				}
			}()
		}
	}

	orchestrator, err := recipe.NewOrchestrator(recipe.Config{
		Chat:                 recipe.NewChatBackend(cfg),
		Retriever:            retriever,
		Image:                app.NewImageBackend(cfg),
		Prompts:              prompts,
		AvailableIngredients: cfg.AvailableIngredients,
		Logger:               logger,
	})
	if err != nil {
		log.Fatalf("Failed to build recipe orchestrator: %v", err)
	}

	opts := api.Options{
		Config:  cfg,
		Recipes: orchestrator,
		Logger:  logger,
	}
	if comps != nil {
		opts.Ingestor = comps.Ingestor
	}

	// Uploads go through the worker only when it shares our store.
	if cfg.RedisURL != "" && cfg.RAG.Store == "pgvector" {
		queue, err := worker.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to create task queue client: %v", err)
		}
		defer queue.Close()
		opts.Queue = queue
	}

	apiServer := api.NewServer(opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(apiServer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "models", orchestrator.DisplayNames())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
