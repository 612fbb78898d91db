package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

// CorrectionInput is the DTO for reviewer correction submissions.
type CorrectionInput struct {
	ExtractionID   uuid.UUID
	FieldPath      string
	ExtractedValue string
	CorrectedValue string
	Note           string
}

// CorrectionService records reviewer fixes. Corrections are keyed by a
// pattern of utility, commodity and field path so recurring mistakes can be
// surfaced as few-shot prompt context.
type CorrectionService interface {
	Create(ctx context.Context, input CorrectionInput) (*domain.Correction, error)
	ListByExtraction(ctx context.Context, extractionID uuid.UUID) ([]domain.Correction, error)
}

type correctionService struct {
	correctionRepo port.CorrectionRepository
	extractionRepo port.ExtractionRepository
}

// NewCorrectionService creates a new CorrectionService implementation.
func NewCorrectionService(
	correctionRepo port.CorrectionRepository,
	extractionRepo port.ExtractionRepository,
) CorrectionService {
	return &correctionService{
		correctionRepo: correctionRepo,
		extractionRepo: extractionRepo,
	}
}

func (s *correctionService) Create(ctx context.Context, input CorrectionInput) (*domain.Correction, error) {
	rec, err := s.extractionRepo.GetByID(ctx, input.ExtractionID)
	if err != nil {
		return nil, err
	}

	c := &domain.Correction{
		ID:             uuid.New(),
		ExtractionID:   rec.ID,
		UtilityName:    rec.UtilityName,
		Commodity:      rec.Commodity,
		FieldPath:      input.FieldPath,
		ExtractedValue: input.ExtractedValue,
		CorrectedValue: input.CorrectedValue,
		Pattern:        CorrectionPattern(rec.UtilityName, rec.Commodity, input.FieldPath),
		Note:           input.Note,
	}
	if err := s.correctionRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating correction: %w", err)
	}

	log.Printf("correctionService.Create: recorded correction on %s for extraction %s", c.FieldPath, rec.ID)
	return c, nil
}

func (s *correctionService) ListByExtraction(ctx context.Context, extractionID uuid.UUID) ([]domain.Correction, error) {
	return s.correctionRepo.ListByExtraction(ctx, extractionID)
}

// CorrectionPattern builds the recurrence key for a correction. Two
// corrections share a pattern when they fix the same field on bills from the
// same utility and commodity.
func CorrectionPattern(utilityName string, commodity domain.CommodityType, fieldPath string) string {
	return fmt.Sprintf("%s|%s|%s", utilityName, commodity, fieldPath)
}
