package confidence

import "gridbill/internal/domain"

// DetermineTier routes a scored extraction to a review tier. A triggered
// fatal always forces full review, even at a perfect score. Harder
// documents get a lower accept bar: complex extractions accumulate small
// penalties even when essentially correct.
func DetermineTier(score float64, fatalTriggered bool, complexity domain.ComplexityTier) domain.ConfidenceTier {
	if fatalTriggered {
		return domain.TierFullReview
	}

	autoAccept, targeted := 0.95, 0.82
	if complexity == domain.ComplexityComplex || complexity == domain.ComplexityPathological {
		autoAccept, targeted = 0.90, 0.75
	}

	switch {
	case score >= autoAccept:
		return domain.TierAutoAccept
	case score >= targeted:
		return domain.TierTargetedReview
	default:
		return domain.TierFullReview
	}
}
