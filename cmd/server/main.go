package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gridbill/internal/audit"
	"gridbill/internal/classify"
	"gridbill/internal/config"
	"gridbill/internal/extract"
	"gridbill/internal/fewshot"
	"gridbill/internal/handler"
	"gridbill/internal/ingest"
	"gridbill/internal/llm"
	"gridbill/internal/llm/claude"
	"gridbill/internal/llm/openai"
	"gridbill/internal/logger"
	"gridbill/internal/ocr/noop"
	"gridbill/internal/pipeline"
	"gridbill/internal/prompt"
	"gridbill/internal/repository/postgres"
	"gridbill/internal/router"
	"gridbill/internal/service"
	s3storage "gridbill/internal/storage/s3"
	"gridbill/internal/validator"
	"gridbill/internal/validator/bill"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	fileRepo := postgres.NewFileMetaRepo(db)
	extractionRepo := postgres.NewExtractionRepo(db)
	correctionRepo := postgres.NewCorrectionRepo(db)
	driftRepo := postgres.NewDriftRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Register LLM providers and build the extraction and audit clients.
	// Extraction gets retry around provider failover; audit gets retry only,
	// since the audit pass must stay on an independent provider.
	llm.RegisterProvider("claude", func(c *config.LLMProviderConfig) (llm.Client, error) {
		return claude.NewClient(c), nil
	})
	llm.RegisterProvider("openai", func(c *config.LLMProviderConfig) (llm.Client, error) {
		return openai.NewClient(c), nil
	})

	extractionClient, err := buildExtractionClient(&cfg.LLM, zlog)
	if err != nil {
		return err
	}
	auditBase, err := llm.New(&cfg.LLM.Audit)
	if err != nil {
		return fmt.Errorf("failed to build audit client: %w", err)
	}
	auditClient := llm.NewRetryClient(auditBase, zlog)

	// Build the pipeline
	prompts, err := prompt.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	registry := validator.NewRegistry()
	bill.RegisterAll(registry)

	ingestor := ingest.NewIngestor(noop.NewNoopEngine(), zlog)
	classifier := classify.NewClassifier(extractionClient, prompts, zlog)
	extractor := extract.NewExtractor(extractionClient, prompts, zlog)
	validation := validator.NewEngine(registry, zlog)
	auditor := audit.NewAuditor(auditClient, prompts, zlog)
	fewShot := fewshot.NewProvider(correctionRepo, cfg.Pipeline.FewShotMaxShots, cfg.Pipeline.FewShotMinRecurrence, zlog)

	pipe := pipeline.New(
		ingestor, classifier, extractor, validation, auditor, fewShot, prompts,
		extractionClient.Model(), auditClient.Model(), zlog,
	)

	// Initialize services
	extractionSvc := service.NewExtractionService(fileRepo, extractionRepo, s3Client, &cfg.S3)
	correctionSvc := service.NewCorrectionService(correctionRepo, extractionRepo)
	driftSvc := service.NewDriftService(driftRepo, extractionRepo)

	// Initialize handlers
	extractionH := handler.NewExtractionHandler(extractionSvc)
	correctionH := handler.NewCorrectionHandler(correctionSvc)
	driftH := handler.NewDriftHandler(driftSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, extractionH, correctionH, driftH, healthH)

	// Run the queue worker alongside the HTTP server
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := service.NewExtractQueueWorker(extractionRepo, fileRepo, driftRepo, s3Client, pipe, service.ExtractQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
		Bucket:       cfg.S3.Bucket,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone

	return nil
}

// buildExtractionClient assembles the extraction client: the primary
// provider, wrapped in failover when a fallback is configured, wrapped in
// retry.
func buildExtractionClient(cfg *config.LLMConfig, zlog *zap.Logger) (llm.Client, error) {
	primary, err := llm.New(&cfg.Extraction)
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction client: %w", err)
	}

	inner := primary
	if fb := cfg.FallbackConfig(); fb != nil {
		fallback, err := llm.New(fb)
		if err != nil {
			return nil, fmt.Errorf("failed to build fallback client: %w", err)
		}
		inner = llm.NewFailoverClient(zlog, primary, fallback)
	}

	return llm.NewRetryClient(inner, zlog), nil
}
