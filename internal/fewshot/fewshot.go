package fewshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

// Provider builds prompt context from recurring reviewer corrections. A
// mistake seen once is noise; one seen repeatedly for the same utility is a
// layout quirk worth telling the model about.
type Provider struct {
	repo          port.CorrectionRepository
	maxShots      int
	minRecurrence int
	logger        *zap.Logger
}

func NewProvider(repo port.CorrectionRepository, maxShots, minRecurrence int, logger *zap.Logger) *Provider {
	if maxShots <= 0 {
		maxShots = 5
	}
	if minRecurrence <= 0 {
		minRecurrence = 2
	}
	return &Provider{repo: repo, maxShots: maxShots, minRecurrence: minRecurrence, logger: logger}
}

// Context returns the correction block for a utility and commodity, plus a
// stable hash of it for provenance tracking. Both are empty when no
// correction pattern recurs often enough.
func (p *Provider) Context(ctx context.Context, utilityName string, commodity domain.CommodityType) (string, string, error) {
	if utilityName == "" {
		return "", "", nil
	}

	recurring, err := p.repo.ListRecurring(ctx, utilityName, commodity, p.minRecurrence)
	if err != nil {
		return "", "", fmt.Errorf("listing recurring corrections: %w", err)
	}
	if len(recurring) == 0 {
		return "", "", nil
	}
	if len(recurring) > p.maxShots {
		recurring = recurring[:p.maxShots]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Known extraction mistakes on %s bills\n", utilityName)
	b.WriteString("Reviewers repeatedly corrected these errors on this utility's layout. Do not repeat them:\n")
	for _, r := range recurring {
		fmt.Fprintf(&b, "- %s: previously extracted %q but the correct value was %q (corrected %d times)\n",
			r.FieldPath, r.ExtractedValue, r.CorrectedValue, r.Occurrences)
	}
	block := strings.TrimRight(b.String(), "\n")

	sum := sha256.Sum256([]byte(block))
	hash := hex.EncodeToString(sum[:])

	p.logger.Debug("few-shot context built",
		zap.String("utility", utilityName),
		zap.Int("patterns", len(recurring)))

	return block, hash, nil
}
