package port

import (
	"context"

	"github.com/google/uuid"

	"gridbill/internal/domain"
)

// RecurringCorrection is a correction pattern seen at least minRecurrence
// times for one utility and commodity.
type RecurringCorrection struct {
	Pattern        string `db:"pattern" json:"pattern"`
	FieldPath      string `db:"field_path" json:"field_path"`
	ExtractedValue string `db:"extracted_value" json:"extracted_value"`
	CorrectedValue string `db:"corrected_value" json:"corrected_value"`
	Occurrences    int    `db:"occurrences" json:"occurrences"`
}

// CorrectionRepository persists reviewer corrections and surfaces the
// recurring ones used to build few-shot prompt context.
type CorrectionRepository interface {
	Create(ctx context.Context, c *domain.Correction) error
	ListByExtraction(ctx context.Context, extractionID uuid.UUID) ([]domain.Correction, error)
	ListRecurring(ctx context.Context, utilityName string, commodity domain.CommodityType, minRecurrence int) ([]RecurringCorrection, error)
}
