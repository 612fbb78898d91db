package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"gridbill/internal/domain"
	"gridbill/internal/pipeline"
	"gridbill/internal/port"
)

// ExtractQueueConfig holds settings for the extraction queue worker.
type ExtractQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
	Bucket       string
}

// ExtractQueueWorker polls for pending extractions and runs them through the
// pipeline. Claimed rows are marked processing inside the claim query, so
// multiple workers can poll the same table safely.
type ExtractQueueWorker struct {
	extractionRepo port.ExtractionRepository
	fileRepo       port.FileMetaRepository
	driftRepo      port.DriftRepository
	storage        port.ObjectStorage
	pipeline       *pipeline.Pipeline
	cfg            ExtractQueueConfig
	wg             sync.WaitGroup
}

// NewExtractQueueWorker creates a new ExtractQueueWorker.
func NewExtractQueueWorker(
	extractionRepo port.ExtractionRepository,
	fileRepo port.FileMetaRepository,
	driftRepo port.DriftRepository,
	storage port.ObjectStorage,
	p *pipeline.Pipeline,
	cfg ExtractQueueConfig,
) *ExtractQueueWorker {
	return &ExtractQueueWorker{
		extractionRepo: extractionRepo,
		fileRepo:       fileRepo,
		driftRepo:      driftRepo,
		storage:        storage,
		pipeline:       p,
		cfg:            cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extractions have finished.
func (w *ExtractQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("extractQueueWorker: started (poll=%s, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("extractQueueWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("extractQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			recs, err := w.extractionRepo.ClaimPending(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("extractQueueWorker: ClaimPending error: %v", err)
				continue
			}

			for i := range recs {
				rec := recs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// A fresh context independent of the poll context so
					// in-flight extractions complete even during shutdown.
					runCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
					defer cancel()

					log.Printf("extractQueueWorker: dispatching extraction %s", rec.ID)
					w.run(runCtx, &rec)
				}()
			}
		}
	}
}

// run executes one extraction end to end and persists the outcome.
func (w *ExtractQueueWorker) run(ctx context.Context, rec *domain.ExtractionRecord) {
	meta, err := w.fileRepo.GetByID(ctx, rec.FileID)
	if err != nil {
		w.fail(ctx, rec, fmt.Sprintf("loading file metadata: %v", err))
		return
	}

	raw, err := w.storage.Download(ctx, w.cfg.Bucket, meta.StorageKey)
	if err != nil {
		w.fail(ctx, rec, fmt.Sprintf("downloading document: %v", err))
		return
	}

	result, err := w.pipeline.Process(ctx, raw, rec.ID.String())
	if err != nil {
		w.fail(ctx, rec, fmt.Sprintf("pipeline: %v", err))
		return
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		w.fail(ctx, rec, fmt.Sprintf("encoding result: %v", err))
		return
	}

	now := time.Now().UTC()
	rec.UtilityName = result.Document.Header.UtilityName.Value
	rec.Commodity = result.Classification.Commodity
	rec.Complexity = result.Classification.Complexity
	rec.ConfidenceScore = result.ConfidenceScore
	rec.ConfidenceTier = result.ConfidenceTier
	rec.Status = domain.ExtractionStatusCompleted
	rec.Error = ""
	rec.Result = resultJSON
	rec.Flags = result.Flags
	rec.ExtractionModel = result.Metadata.ExtractionModel
	rec.AuditModel = result.Metadata.AuditModel
	rec.ProcessingTimeMS = result.Metadata.ProcessingTimeMS
	rec.CompletedAt = &now

	if err := w.extractionRepo.SaveResult(ctx, rec); err != nil {
		log.Printf("extractQueueWorker: failed to save result for %s: %v", rec.ID, err)
		return
	}

	w.pinBaselineIfFirst(ctx, rec, result)

	log.Printf("extractQueueWorker: extraction %s completed (score=%.4f, tier=%s, degraded=%t)",
		rec.ID, result.ConfidenceScore, result.ConfidenceTier, result.Degraded)
}

// pinBaselineIfFirst pins the first completed extraction of a physical
// document as its drift baseline. Later reruns are compared against it and
// never replace it implicitly; repinning is an explicit operator action.
// Degraded and fatal-flagged results never pin.
func (w *ExtractQueueWorker) pinBaselineIfFirst(ctx context.Context, rec *domain.ExtractionRecord, result *domain.ExtractionResult) {
	sha := result.Metadata.SourceSHA256
	if sha == "" || result.Degraded {
		return
	}
	for _, f := range result.Flags {
		if f == "fatal_triggered" {
			return
		}
	}

	if _, err := w.driftRepo.GetBySHA256(ctx, sha); err == nil {
		return
	} else if err != domain.ErrNotFound {
		log.Printf("extractQueueWorker: baseline lookup failed for %s: %v", sha, err)
		return
	}

	baseline := &domain.DriftBaseline{
		SourceSHA256: sha,
		ExtractionID: rec.ID,
		Result:       rec.Result,
		Model:        rec.ExtractionModel,
	}
	if err := w.driftRepo.Upsert(ctx, baseline); err != nil {
		log.Printf("extractQueueWorker: failed to pin baseline for %s: %v", sha, err)
		return
	}
	log.Printf("extractQueueWorker: pinned drift baseline for %s (extraction %s)", sha, rec.ID)
}

func (w *ExtractQueueWorker) fail(ctx context.Context, rec *domain.ExtractionRecord, msg string) {
	log.Printf("extractQueueWorker: extraction %s failed: %s", rec.ID, msg)
	if err := w.extractionRepo.UpdateStatus(ctx, rec.ID, domain.ExtractionStatusFailed, msg); err != nil {
		log.Printf("extractQueueWorker: failed to mark extraction %s failed: %v", rec.ID, err)
	}
}
