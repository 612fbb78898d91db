package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

type extractionRepo struct {
	db *sqlx.DB
}

// NewExtractionRepo creates a new PostgreSQL-backed ExtractionRepository.
func NewExtractionRepo(db *sqlx.DB) port.ExtractionRepository {
	return &extractionRepo{db: db}
}

func (r *extractionRepo) Create(ctx context.Context, rec *domain.ExtractionRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := packFlags(rec); err != nil {
		return fmt.Errorf("extractionRepo.Create: %w", err)
	}

	query := `INSERT INTO extractions
		(id, file_id, utility_name, commodity_type, complexity_tier, confidence_score,
		 confidence_tier, status, error, result, flags, extraction_model, audit_model,
		 processing_time_ms, created_at, updated_at, completed_at)
		VALUES (:id, :file_id, :utility_name, :commodity_type, :complexity_tier, :confidence_score,
		 :confidence_tier, :status, :error, :result, :flags, :extraction_model, :audit_model,
		 :processing_time_ms, :created_at, :updated_at, :completed_at)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("extractionRepo.Create: %w", err)
	}
	return nil
}

func (r *extractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error) {
	var rec domain.ExtractionRecord
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM extractions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("extractionRepo.GetByID: %w", err)
	}
	if err := unpackFlags(&rec); err != nil {
		return nil, fmt.Errorf("extractionRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *extractionRepo) List(ctx context.Context, filter port.ExtractionListFilter) ([]domain.ExtractionRecord, error) {
	var conds []string
	var args []interface{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if filter.UtilityName != "" {
		add("utility_name", filter.UtilityName)
	}
	if filter.Commodity != "" {
		add("commodity_type", filter.Commodity)
	}
	if filter.Status != "" {
		add("status", filter.Status)
	}
	if filter.ConfidenceTier != "" {
		add("confidence_tier", filter.ConfidenceTier)
	}

	query := "SELECT * FROM extractions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var recs []domain.ExtractionRecord
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("extractionRepo.List: %w", err)
	}
	for i := range recs {
		if err := unpackFlags(&recs[i]); err != nil {
			return nil, fmt.Errorf("extractionRepo.List: %w", err)
		}
	}
	return recs, nil
}

// ClaimPending flips up to limit pending rows to processing in one
// statement. SKIP LOCKED keeps concurrent workers from claiming the same
// document.
func (r *extractionRepo) ClaimPending(ctx context.Context, limit int) ([]domain.ExtractionRecord, error) {
	query := `UPDATE extractions SET status = $1, updated_at = $2
		WHERE id IN (
			SELECT id FROM extractions WHERE status = $3
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`

	rows, err := r.db.QueryxContext(ctx, query,
		domain.ExtractionStatusProcessing, time.Now().UTC(), domain.ExtractionStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("extractionRepo.ClaimPending: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []domain.ExtractionRecord
	for rows.Next() {
		var rec domain.ExtractionRecord
		if err := rows.StructScan(&rec); err != nil {
			return nil, fmt.Errorf("extractionRepo.ClaimPending scan: %w", err)
		}
		if err := unpackFlags(&rec); err != nil {
			return nil, fmt.Errorf("extractionRepo.ClaimPending: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("extractionRepo.ClaimPending rows: %w", err)
	}
	return recs, nil
}

func (r *extractionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExtractionStatus, errMsg string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE extractions SET status = $1, error = $2, updated_at = $3 WHERE id = $4",
		status, errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("extractionRepo.UpdateStatus: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("extractionRepo.UpdateStatus rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *extractionRepo) SaveResult(ctx context.Context, rec *domain.ExtractionRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	if err := packFlags(rec); err != nil {
		return fmt.Errorf("extractionRepo.SaveResult: %w", err)
	}

	query := `UPDATE extractions SET
		utility_name = :utility_name, commodity_type = :commodity_type,
		complexity_tier = :complexity_tier, confidence_score = :confidence_score,
		confidence_tier = :confidence_tier, status = :status, error = :error,
		result = :result, flags = :flags, extraction_model = :extraction_model,
		audit_model = :audit_model, processing_time_ms = :processing_time_ms,
		updated_at = :updated_at, completed_at = :completed_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		return fmt.Errorf("extractionRepo.SaveResult: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("extractionRepo.SaveResult rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func packFlags(rec *domain.ExtractionRecord) error {
	flags := rec.Flags
	if flags == nil {
		flags = []string{}
	}
	raw, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("marshaling flags: %w", err)
	}
	rec.FlagsRaw = raw
	return nil
}

func unpackFlags(rec *domain.ExtractionRecord) error {
	if len(rec.FlagsRaw) == 0 {
		rec.Flags = nil
		return nil
	}
	if err := json.Unmarshal(rec.FlagsRaw, &rec.Flags); err != nil {
		return fmt.Errorf("unmarshaling flags: %w", err)
	}
	return nil
}
