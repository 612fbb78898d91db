package confidence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gridbill/internal/confidence"
	"gridbill/internal/domain"
)

// cleanDocument is a healthy extraction with every confident field above
// the low-confidence threshold.
func cleanDocument() *domain.BillDocument {
	return &domain.BillDocument{
		Header: domain.BillHeader{
			UtilityName:   domain.ConfidentString{Value: "Pacific Gas & Electric", Confidence: 0.98},
			InvoiceNumber: domain.ConfidentString{Value: "INV-100234", Confidence: 0.95},
		},
		Account: domain.Account{
			AccountNumber: domain.ConfidentString{Value: "1023456789", Confidence: 0.97},
		},
		Charges: []domain.Charge{
			{
				Description: "Energy charges",
				Amount:      domain.MonetaryAmount{Value: 142.10, Currency: "USD", Confidence: 0.96},
			},
		},
		Totals: domain.Totals{
			TotalAmountDue: domain.MonetaryAmount{Value: 184.27, Currency: "USD", Confidence: 0.99},
		},
	}
}

func TestCompute_CleanExtraction(t *testing.T) {
	res := confidence.Compute(confidence.Input{
		Document:     cleanDocument(),
		Complexity:   domain.ComplexitySimple,
		ImageQuality: 0.9,
	})

	assert.InDelta(t, 1.0, res.Score, 0.0001)
	assert.False(t, res.FatalTriggered)
	assert.Equal(t, domain.TierAutoAccept, res.Tier)
	assert.Empty(t, res.Penalties)
}

func TestCompute_FatalIssueForcesFullReview(t *testing.T) {
	res := confidence.Compute(confidence.Input{
		Document:   cleanDocument(),
		Complexity: domain.ComplexitySimple,
		Validation: domain.ValidationReport{
			Issues: []domain.ValidationIssue{
				{Field: "meters[0].consumption", Severity: domain.SeverityFatal, RuleID: "unit_commodity", Message: "therms on an electricity bill"},
			},
		},
		ImageQuality: 0.9,
	})

	assert.True(t, res.FatalTriggered)
	assert.Equal(t, domain.TierFullReview, res.Tier)
	assert.InDelta(t, 0.0, res.Score, 0.0001)
}

func TestCompute_MathWarningPenalizedByFieldBucket(t *testing.T) {
	res := confidence.Compute(confidence.Input{
		Document:   cleanDocument(),
		Complexity: domain.ComplexitySimple,
		Validation: domain.ValidationReport{
			Issues: []domain.ValidationIssue{
				{Field: "charges[2].amount", Severity: domain.SeverityWarning, RuleID: "line_math"},
				{Field: "totals.current_charges", Severity: domain.SeverityWarning, RuleID: "grand_total"},
			},
		},
		ImageQuality: 0.9,
	})

	// charges[2].amount is a medium bucket (0.08), current_charges high (0.20).
	assert.InDelta(t, 0.72, res.Score, 0.0001)
	assert.False(t, res.FatalTriggered)
	assert.Equal(t, domain.TierFullReview, res.Tier)
	assert.Len(t, res.Penalties, 2)
}

func TestCompute_LogicWarningsDoNotScore(t *testing.T) {
	res := confidence.Compute(confidence.Input{
		Document:   cleanDocument(),
		Complexity: domain.ComplexitySimple,
		Validation: domain.ValidationReport{
			Issues: []domain.ValidationIssue{
				{Field: "account.billing_period", Severity: domain.SeverityInfo, RuleID: "billing_period", Message: "unusually short"},
				{Field: "charges[0].amount", Severity: domain.SeverityWarning, RuleID: "negative_amount"},
			},
		},
		ImageQuality: 0.9,
	})

	assert.InDelta(t, 1.0, res.Score, 0.0001)
	assert.Equal(t, domain.TierAutoAccept, res.Tier)
}

func TestCompute_AuditMismatches(t *testing.T) {
	t.Run("fatal mismatch dominates a perfect score", func(t *testing.T) {
		res := confidence.Compute(confidence.Input{
			Document:   cleanDocument(),
			Complexity: domain.ComplexitySimple,
			Audit: &domain.AuditReport{
				Mismatches: []domain.AuditMismatch{
					{Field: "total_amount_due", ExtractionValue: "184.27", AuditValue: "1842.70", Severity: domain.MismatchFatal},
				},
			},
			ImageQuality: 0.9,
		})
		assert.True(t, res.FatalTriggered)
		assert.Equal(t, domain.TierFullReview, res.Tier)
	})

	t.Run("low mismatches only nick the score", func(t *testing.T) {
		res := confidence.Compute(confidence.Input{
			Document:   cleanDocument(),
			Complexity: domain.ComplexitySimple,
			Audit: &domain.AuditReport{
				Mismatches: []domain.AuditMismatch{
					{Field: "previous_balance", Severity: domain.MismatchLow},
				},
			},
			ImageQuality: 0.9,
		})
		assert.InDelta(t, 0.97, res.Score, 0.0001)
		assert.Equal(t, domain.TierAutoAccept, res.Tier)
	})
}

func TestCompute_LowFieldConfidence(t *testing.T) {
	doc := cleanDocument()
	doc.Totals.TotalAmountDue.Confidence = 0.55
	doc.Header.UtilityName.Confidence = 0.70

	res := confidence.Compute(confidence.Input{
		Document:     doc,
		Complexity:   domain.ComplexitySimple,
		ImageQuality: 0.9,
	})

	// total_amount_due is a fatal-bucket field: low confidence on it costs
	// 0.15 and trips the fatal flag. utility_name lands in the low bucket
	// with no deduction.
	assert.True(t, res.FatalTriggered)
	assert.Equal(t, domain.TierFullReview, res.Tier)
	assert.InDelta(t, 0.85, res.Score, 0.0001)
	assert.Len(t, res.Penalties, 1)
	assert.Equal(t, "low_confidence:totals.total_amount_due", res.Penalties[0].Label)
}

func TestCompute_SourceQualityPenalties(t *testing.T) {
	res := confidence.Compute(confidence.Input{
		Document:     cleanDocument(),
		Complexity:   domain.ComplexitySimple,
		ImageQuality: 0.4,
		OCRApplied:   true,
	})

	assert.InDelta(t, 0.87, res.Score, 0.0001)
	assert.Equal(t, domain.TierTargetedReview, res.Tier)
}

func TestCompute_ScoreClampedAtZero(t *testing.T) {
	issues := make([]domain.ValidationIssue, 3)
	for i := range issues {
		issues[i] = domain.ValidationIssue{Field: "meters[0].consumption", Severity: domain.SeverityFatal, RuleID: "unit_commodity"}
	}
	res := confidence.Compute(confidence.Input{
		Document:     cleanDocument(),
		Complexity:   domain.ComplexitySimple,
		Validation:   domain.ValidationReport{Issues: issues},
		ImageQuality: 0.9,
	})
	assert.Equal(t, 0.0, res.Score)
}

func TestDetermineTier(t *testing.T) {
	tests := []struct {
		name       string
		score      float64
		fatal      bool
		complexity domain.ComplexityTier
		want       domain.ConfidenceTier
	}{
		{"perfect simple", 1.0, false, domain.ComplexitySimple, domain.TierAutoAccept},
		{"accept boundary", 0.95, false, domain.ComplexityStandard, domain.TierAutoAccept},
		{"just under accept", 0.9499, false, domain.ComplexityStandard, domain.TierTargetedReview},
		{"targeted boundary", 0.82, false, domain.ComplexityStandard, domain.TierTargetedReview},
		{"below targeted", 0.8199, false, domain.ComplexityStandard, domain.TierFullReview},
		{"complex lowers accept bar", 0.91, false, domain.ComplexityComplex, domain.TierAutoAccept},
		{"pathological targeted band", 0.76, false, domain.ComplexityPathological, domain.TierTargetedReview},
		{"fatal beats perfect score", 1.0, true, domain.ComplexitySimple, domain.TierFullReview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, confidence.DetermineTier(tt.score, tt.fatal, tt.complexity))
		})
	}
}

func TestFieldWeight(t *testing.T) {
	tests := []struct {
		field string
		want  domain.MismatchSeverity
	}{
		{"total_amount_due", domain.MismatchFatal},
		{"totals.total_amount_due", domain.MismatchFatal},
		{"account_number", domain.MismatchFatal},
		{"meters[3].consumption", domain.MismatchFatal},
		{"meters[0].multiplier", domain.MismatchFatal},
		{"charges[12].amount", domain.MismatchMedium},
		{"charges[0].category", domain.MismatchMedium},
		{"meters[1].tou_periods", domain.MismatchHigh},
		{"meters[0].demand", domain.MismatchHigh},
		{"totals.current_charges", domain.MismatchHigh},
		{"header.supplier_name", domain.MismatchMedium},
		{"totals.previous_balance", domain.MismatchLow},
		{"header.utility_name", domain.MismatchLow},
		{"something_unmapped", domain.MismatchLow},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, confidence.FieldWeight(tt.field))
		})
	}
}
