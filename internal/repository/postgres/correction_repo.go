package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

type correctionRepo struct {
	db *sqlx.DB
}

// NewCorrectionRepo creates a new PostgreSQL-backed CorrectionRepository.
func NewCorrectionRepo(db *sqlx.DB) port.CorrectionRepository {
	return &correctionRepo{db: db}
}

func (r *correctionRepo) Create(ctx context.Context, c *domain.Correction) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO corrections
		(id, extraction_id, utility_name, commodity_type, field_path,
		 extracted_value, corrected_value, pattern, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ExtractionID, c.UtilityName, c.Commodity, c.FieldPath,
		c.ExtractedValue, c.CorrectedValue, c.Pattern, c.Note, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("correctionRepo.Create: %w", err)
	}
	return nil
}

func (r *correctionRepo) ListByExtraction(ctx context.Context, extractionID uuid.UUID) ([]domain.Correction, error) {
	var out []domain.Correction
	err := r.db.SelectContext(ctx, &out,
		"SELECT * FROM corrections WHERE extraction_id = $1 ORDER BY created_at", extractionID)
	if err != nil {
		return nil, fmt.Errorf("correctionRepo.ListByExtraction: %w", err)
	}
	return out, nil
}

// ListRecurring groups corrections by pattern and keeps the groups seen at
// least minRecurrence times, most frequent first. The representative
// extracted/corrected pair is the most recent one in the group.
func (r *correctionRepo) ListRecurring(ctx context.Context, utilityName string, commodity domain.CommodityType, minRecurrence int) ([]port.RecurringCorrection, error) {
	query := `SELECT DISTINCT ON (pattern)
			pattern,
			field_path,
			extracted_value,
			corrected_value,
			COUNT(*) OVER (PARTITION BY pattern) AS occurrences
		FROM corrections
		WHERE utility_name = $1 AND commodity_type = $2
		ORDER BY pattern, created_at DESC`

	var all []port.RecurringCorrection
	if err := r.db.SelectContext(ctx, &all, query, utilityName, commodity); err != nil {
		return nil, fmt.Errorf("correctionRepo.ListRecurring: %w", err)
	}

	out := make([]port.RecurringCorrection, 0, len(all))
	for _, rec := range all {
		if rec.Occurrences >= minRecurrence {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Occurrences > out[j].Occurrences })
	return out, nil
}
