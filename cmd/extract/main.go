// Command extract runs the extraction pipeline over a single local document
// and prints the assembled result as JSON. It talks to the configured LLM
// providers but needs no database or object storage, which makes it useful
// for prompt work and for debugging a problem bill.
// Usage: extract <path-to-document>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gridbill/internal/audit"
	"gridbill/internal/classify"
	"gridbill/internal/config"
	"gridbill/internal/domain"
	"gridbill/internal/extract"
	"gridbill/internal/ingest"
	"gridbill/internal/llm"
	"gridbill/internal/llm/claude"
	"gridbill/internal/llm/openai"
	"gridbill/internal/logger"
	"gridbill/internal/ocr/noop"
	"gridbill/internal/pipeline"
	"gridbill/internal/prompt"
	"gridbill/internal/validator"
	"gridbill/internal/validator/bill"
)

// noFewShot satisfies port.FewShotProvider without a corrections store.
type noFewShot struct{}

func (noFewShot) Context(ctx context.Context, utilityName string, commodity domain.CommodityType) (string, string, error) {
	return "", "", nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Println("Usage: extract <path-to-document>")
		os.Exit(1)
	}
	path := os.Args[1]

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	zlog, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	llm.RegisterProvider("claude", func(c *config.LLMProviderConfig) (llm.Client, error) {
		return claude.NewClient(c), nil
	})
	llm.RegisterProvider("openai", func(c *config.LLMProviderConfig) (llm.Client, error) {
		return openai.NewClient(c), nil
	})

	extractionClient, err := llm.New(&cfg.LLM.Extraction)
	if err != nil {
		return fmt.Errorf("building extraction client: %w", err)
	}
	auditBase, err := llm.New(&cfg.LLM.Audit)
	if err != nil {
		return fmt.Errorf("building audit client: %w", err)
	}
	retryExtraction := llm.NewRetryClient(extractionClient, zlog)
	retryAudit := llm.NewRetryClient(auditBase, zlog)

	prompts, err := prompt.NewRegistry()
	if err != nil {
		return fmt.Errorf("loading prompts: %w", err)
	}

	registry := validator.NewRegistry()
	bill.RegisterAll(registry)

	pipe := pipeline.New(
		ingest.NewIngestor(noop.NewNoopEngine(), zlog),
		classify.NewClassifier(retryExtraction, prompts, zlog),
		extract.NewExtractor(retryExtraction, prompts, zlog),
		validator.NewEngine(registry, zlog),
		audit.NewAuditor(retryAudit, prompts, zlog),
		noFewShot{},
		prompts,
		retryExtraction.Model(), retryAudit.Model(),
		zlog,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := pipe.Process(ctx, raw, path)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
