package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/recipe-finder/internal/app"
	"github.com/socialchef/recipe-finder/internal/config"
	"github.com/socialchef/recipe-finder/internal/sentry"
	"github.com/socialchef/recipe-finder/internal/worker"
)

const concurrency = 4

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RedisURL == "" {
		log.Fatal("REDIS_URL is required for the worker")
	}
	if cfg.RAG.Store != "pgvector" {
		log.Fatalf("Worker requires RAG store pgvector, got %q", cfg.RAG.Store)
	}

	logger, shutdown := app.InitObservability(ctx, cfg, cfg.ServiceName+"-worker")
	defer shutdown()

	comps, closeRAG, err := app.NewRAG(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open embedding store: %v", err)
	}
	defer closeRAG()

	workerMetrics, err := worker.NewWorkerMetrics()
	if err != nil {
		slog.Warn("Failed to init worker metrics", "error", err)
	}

	processor := worker.NewDocumentProcessor(comps.Ingestor, workerMetrics)

	srv, err := worker.NewServer(cfg.RedisURL, concurrency)
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}
	mux := worker.NewServeMux(processor)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutting down worker...")
		srv.Shutdown()
	}()

	slog.Info("Starting worker", "concurrency", concurrency, "store", comps.Store.Name())

	if err := srv.Run(mux); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
