package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docqa-labs/docqa/internal/api/handlers"
	"github.com/docqa-labs/docqa/internal/chunker"
	"github.com/docqa-labs/docqa/internal/config"
	"github.com/docqa-labs/docqa/internal/jobs"
	"github.com/docqa-labs/docqa/internal/limiter"
	"github.com/docqa-labs/docqa/internal/openai"
	"github.com/docqa-labs/docqa/internal/server"
	"github.com/docqa-labs/docqa/internal/service"
	"github.com/docqa-labs/docqa/internal/telemetry"
	"github.com/docqa-labs/docqa/internal/vectorindex"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the docqa API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("DOCQA_OPENAI_API_KEY is required")
	}

	if cfg.SentryDSN != "" {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	index := vectorindex.New(cfg.EmbeddingDimensions)
	limits := limiter.New(cfg.MaxQuestionsPerDay, cfg.QuestionWindow)
	suggestionStore := jobs.NewSuggestionStore()

	client := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	chunkCfg := chunker.Config{Size: cfg.ChunkSize, Overlap: cfg.ChunkOverlap}
	retrievalSvc := service.NewRetrievalService(client, client, index, limits, suggestionStore, chunkCfg, cfg.SearchTopK)

	suggestionProcessor := jobs.NewSuggestionWorker(suggestionStore, client)
	suggestionWorker := jobs.NewWorker(suggestionProcessor, 10*time.Second)
	go suggestionWorker.Start(ctx)
	log.Println("suggestion worker started")

	routerCfg := server.RouterConfig{
		IngestHandler: handlers.NewIngestHandler(retrievalSvc),
		AskHandler:    handlers.NewAskHandler(retrievalSvc, suggestionStore),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	suggestionWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
