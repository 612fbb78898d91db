package bill_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
	"gridbill/internal/validator/bill"
)

func TestLineMath_Clean(t *testing.T) {
	doc := &domain.BillDocument{
		Charges: []domain.Charge{pricedCharge("Energy charges", 1000, 0.15, 150.00)},
	}

	issues := bill.NewLineMathValidator().Validate(context.Background(), usInput(doc))

	assert.Empty(t, issues)
	require.NotNil(t, doc.Charges[0].MathCheck)
	assert.Equal(t, domain.MathClean, doc.Charges[0].MathCheck.Disposition)
	assert.Equal(t, 150.00, doc.Charges[0].MathCheck.Expected)
}

func TestLineMath_RoundingVariance(t *testing.T) {
	// 123 x 0.1234 rounds to 15.18; a two cent gap is within the US base
	// tolerance.
	doc := &domain.BillDocument{
		Charges: []domain.Charge{pricedCharge("Energy charges", 123, 0.1234, 15.20)},
	}

	issues := bill.NewLineMathValidator().Validate(context.Background(), usInput(doc))

	assert.Empty(t, issues)
	assert.Equal(t, domain.MathRoundingVariance, doc.Charges[0].MathCheck.Disposition)
}

func TestLineMath_MinimumBill(t *testing.T) {
	c := pricedCharge("Basic service charge", 10, 1.00, 25.00)
	c.Category = domain.ChargeCategoryFixed
	doc := &domain.BillDocument{Charges: []domain.Charge{c}}

	issues := bill.NewLineMathValidator().Validate(context.Background(), usInput(doc))

	require.Len(t, issues, 1)
	assert.Equal(t, domain.SeverityInfo, issues[0].Severity)
	assert.Equal(t, domain.MathMinimumBill, doc.Charges[0].MathCheck.Disposition)
}

func TestLineMath_UtilityAdjustment(t *testing.T) {
	// Variance is above tolerance but under two percent of the stated
	// amount, the shape of a utility-side proration.
	doc := &domain.BillDocument{
		Charges: []domain.Charge{pricedCharge("Energy charges", 1015, 0.10, 100.00)},
	}

	issues := bill.NewLineMathValidator().Validate(context.Background(), usInput(doc))

	require.Len(t, issues, 1)
	assert.Equal(t, domain.SeverityInfo, issues[0].Severity)
	assert.Equal(t, domain.MathUtilityAdjustment, doc.Charges[0].MathCheck.Disposition)
}

func TestLineMath_Discrepancy(t *testing.T) {
	doc := &domain.BillDocument{
		Charges: []domain.Charge{pricedCharge("Energy charges", 1000, 0.10, 150.00)},
	}

	issues := bill.NewLineMathValidator().Validate(context.Background(), usInput(doc))

	require.Len(t, issues, 1)
	assert.Equal(t, domain.SeverityWarning, issues[0].Severity)
	assert.Equal(t, "charges[0].amount", issues[0].Field)
	assert.Equal(t, "100.00", issues[0].Expected)
	assert.Equal(t, "150.00", issues[0].Actual)
	assert.Equal(t, domain.MathDiscrepancy, doc.Charges[0].MathCheck.Disposition)
}

func TestLineMath_SkipsUnpricedLines(t *testing.T) {
	doc := &domain.BillDocument{
		Charges: []domain.Charge{
			{Description: "State tax", Amount: domain.MonetaryAmount{Value: 12.30}},
		},
	}

	issues := bill.NewLineMathValidator().Validate(context.Background(), usInput(doc))

	assert.Empty(t, issues)
	assert.Nil(t, doc.Charges[0].MathCheck)
}
