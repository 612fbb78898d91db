package port

import (
	"context"

	"gridbill/internal/domain"
)

// FewShotProvider builds the correction-derived prompt context for a
// utility and commodity. Context returns an empty string when no recurring
// corrections exist.
type FewShotProvider interface {
	Context(ctx context.Context, utilityName string, commodity domain.CommodityType) (block string, hash string, err error)
}
