package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

type driftRepo struct {
	db *sqlx.DB
}

// NewDriftRepo creates a new PostgreSQL-backed DriftRepository.
func NewDriftRepo(db *sqlx.DB) port.DriftRepository {
	return &driftRepo{db: db}
}

// Upsert pins the baseline for a source hash, replacing any earlier one.
// One baseline per physical document is the invariant.
func (r *driftRepo) Upsert(ctx context.Context, baseline *domain.DriftBaseline) error {
	if baseline.ID == uuid.Nil {
		baseline.ID = uuid.New()
	}
	if baseline.CreatedAt.IsZero() {
		baseline.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO drift_baselines
		(id, source_sha256, extraction_id, result, model, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (source_sha256) DO UPDATE SET
			id = EXCLUDED.id,
			extraction_id = EXCLUDED.extraction_id,
			result = EXCLUDED.result,
			model = EXCLUDED.model,
			created_at = EXCLUDED.created_at`

	_, err := r.db.ExecContext(ctx, query,
		baseline.ID, baseline.SourceSHA256, baseline.ExtractionID,
		baseline.Result, baseline.Model, baseline.CreatedAt)
	if err != nil {
		return fmt.Errorf("driftRepo.Upsert: %w", err)
	}
	return nil
}

func (r *driftRepo) GetBySHA256(ctx context.Context, sha string) (*domain.DriftBaseline, error) {
	var baseline domain.DriftBaseline
	err := r.db.GetContext(ctx, &baseline,
		"SELECT * FROM drift_baselines WHERE source_sha256 = $1", sha)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("driftRepo.GetBySHA256: %w", err)
	}
	return &baseline, nil
}
