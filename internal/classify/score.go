package classify

import "gridbill/internal/domain"

// ScoreComplexity computes the additive complexity score for a bill. The
// weights and thresholds are load-bearing business rules shared with the
// confidence thresholds, so they must not be tuned independently.
func ScoreComplexity(signals domain.SignalFlags, lineItemCount, pageCount int) int {
	score := 0

	if signals.HasMultiMeter {
		score += 3
	}
	if signals.HasNetMetering {
		score += 3
	}
	if signals.HasPriorPeriodAdjustments {
		score += 3
	}
	if signals.HasMultiPageCharges {
		score += 3
	}

	if signals.HasTOU {
		score++
	}
	if signals.HasDemandCharges {
		score++
	}
	if signals.HasSupplierSplit {
		score++
	}
	if signals.HasTieredRates {
		score++
	}

	if signals.HasMultipleVATRates {
		score += 2
	}
	if signals.HasCalorificConversion {
		score += 2
	}
	if signals.HasContractedCapacity {
		score++
	}

	switch {
	case lineItemCount > 30:
		score += 3
	case lineItemCount > 15:
		score++
	}

	if pageCount > 5 {
		score += 2
	}

	return score
}

// TierFor maps a complexity score to its tier.
func TierFor(score int) domain.ComplexityTier {
	switch {
	case score <= 2:
		return domain.ComplexitySimple
	case score <= 6:
		return domain.ComplexityStandard
	case score <= 10:
		return domain.ComplexityComplex
	default:
		return domain.ComplexityPathological
	}
}
