package port

import (
	"context"

	"github.com/google/uuid"

	"gridbill/internal/domain"
)

// FileMetaRepository persists metadata about uploaded source documents.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FileMeta, error)
	GetBySHA256(ctx context.Context, sha string) (*domain.FileMeta, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
