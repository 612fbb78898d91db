package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"gridbill/internal/domain"
	"gridbill/internal/drift"
	"gridbill/internal/port"
)

// DriftService compares reprocessing runs against the pinned baseline for a
// physical document and lets operators move the pin.
type DriftService interface {
	Compare(ctx context.Context, extractionID uuid.UUID) (*domain.DriftReport, error)
	PinBaseline(ctx context.Context, extractionID uuid.UUID) (*domain.DriftBaseline, error)
}

type driftService struct {
	driftRepo      port.DriftRepository
	extractionRepo port.ExtractionRepository
}

// NewDriftService creates a new DriftService implementation.
func NewDriftService(driftRepo port.DriftRepository, extractionRepo port.ExtractionRepository) DriftService {
	return &driftService{
		driftRepo:      driftRepo,
		extractionRepo: extractionRepo,
	}
}

func (s *driftService) Compare(ctx context.Context, extractionID uuid.UUID) (*domain.DriftReport, error) {
	rec, result, err := s.loadCompleted(ctx, extractionID)
	if err != nil {
		return nil, err
	}

	baseline, err := s.driftRepo.GetBySHA256(ctx, result.Metadata.SourceSHA256)
	if err != nil {
		return nil, err
	}
	if baseline.ExtractionID == rec.ID {
		return nil, domain.ErrBaselineIsSelf
	}

	return drift.Compare(baseline, result)
}

func (s *driftService) PinBaseline(ctx context.Context, extractionID uuid.UUID) (*domain.DriftBaseline, error) {
	rec, result, err := s.loadCompleted(ctx, extractionID)
	if err != nil {
		return nil, err
	}

	baseline := &domain.DriftBaseline{
		SourceSHA256: result.Metadata.SourceSHA256,
		ExtractionID: rec.ID,
		Result:       rec.Result,
		Model:        rec.ExtractionModel,
	}
	if err := s.driftRepo.Upsert(ctx, baseline); err != nil {
		return nil, fmt.Errorf("pinning baseline: %w", err)
	}

	log.Printf("driftService.PinBaseline: pinned extraction %s for %s", rec.ID, baseline.SourceSHA256)
	return baseline, nil
}

func (s *driftService) loadCompleted(ctx context.Context, extractionID uuid.UUID) (*domain.ExtractionRecord, *domain.ExtractionResult, error) {
	rec, err := s.extractionRepo.GetByID(ctx, extractionID)
	if err != nil {
		return nil, nil, err
	}
	if rec.Status != domain.ExtractionStatusCompleted {
		return nil, nil, fmt.Errorf("extraction %s (status %s): %w", rec.ID, rec.Status, domain.ErrExtractionNotDone)
	}

	var result domain.ExtractionResult
	if err := json.Unmarshal(rec.Result, &result); err != nil {
		return nil, nil, fmt.Errorf("decoding stored result for %s: %w", rec.ID, err)
	}
	if result.Metadata.SourceSHA256 == "" {
		return nil, nil, fmt.Errorf("extraction %s has no source hash", rec.ID)
	}
	return rec, &result, nil
}
