package port

import (
	"context"

	"github.com/google/uuid"

	"gridbill/internal/domain"
)

// ExtractionListFilter narrows List queries. Zero values mean "any".
type ExtractionListFilter struct {
	UtilityName    string
	Commodity      domain.CommodityType
	Status         domain.ExtractionStatus
	ConfidenceTier domain.ConfidenceTier
	Limit          int
	Offset         int
}

// ExtractionRepository persists extraction lifecycle rows. ClaimPending
// atomically marks up to limit pending rows as processing so concurrent
// workers never pick up the same document twice.
type ExtractionRepository interface {
	Create(ctx context.Context, rec *domain.ExtractionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error)
	List(ctx context.Context, filter ExtractionListFilter) ([]domain.ExtractionRecord, error)
	ClaimPending(ctx context.Context, limit int) ([]domain.ExtractionRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExtractionStatus, errMsg string) error
	SaveResult(ctx context.Context, rec *domain.ExtractionRecord) error
}
