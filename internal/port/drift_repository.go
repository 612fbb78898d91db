package port

import (
	"context"

	"gridbill/internal/domain"
)

// DriftRepository pins and retrieves baseline extractions keyed by the
// source document hash. Upsert replaces any existing baseline for the hash.
type DriftRepository interface {
	Upsert(ctx context.Context, baseline *domain.DriftBaseline) error
	GetBySHA256(ctx context.Context, sha string) (*domain.DriftBaseline, error)
}
