package bill_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
	"gridbill/internal/validator/bill"
)

func TestSectionSubtotals(t *testing.T) {
	supply := pricedCharge("Energy charges", 1000, 0.12, 120.00)
	delivery := domain.Charge{
		Description: "Delivery charges",
		Category:    domain.ChargeCategoryRider,
		Section:     domain.SectionDistribution,
		Amount:      domain.MonetaryAmount{Value: 45.50},
	}
	tax := domain.Charge{
		Description: "Sales tax",
		Category:    domain.ChargeCategoryTax,
		Section:     domain.SectionTaxes,
		Amount:      domain.MonetaryAmount{Value: 9.93},
	}

	t.Run("matching subtotals", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: []domain.Charge{supply, delivery, tax},
			Totals: domain.Totals{
				SectionSubtotals: map[domain.ChargeSection]float64{
					domain.SectionSupply:       120.00,
					domain.SectionDistribution: 45.50,
					domain.SectionTaxes:        9.93,
				},
			},
		}
		issues := bill.NewSectionSubtotalsValidator().Validate(context.Background(), usInput(doc))
		assert.Empty(t, issues)
	})

	t.Run("drifted subtotal flagged", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: []domain.Charge{supply, delivery, tax},
			Totals: domain.Totals{
				SectionSubtotals: map[domain.ChargeSection]float64{
					domain.SectionSupply: 135.00,
					domain.SectionTaxes:  9.93,
				},
			},
		}
		issues := bill.NewSectionSubtotalsValidator().Validate(context.Background(), usInput(doc))
		require.Len(t, issues, 1)
		assert.Equal(t, "totals.section_subtotals.supply", issues[0].Field)
		assert.Equal(t, domain.SeverityWarning, issues[0].Severity)
	})

	t.Run("not applicable without stated subtotals", func(t *testing.T) {
		doc := &domain.BillDocument{Charges: []domain.Charge{supply}}
		assert.False(t, bill.NewSectionSubtotalsValidator().Applies(usInput(doc)))
	})
}

func TestGrandTotal(t *testing.T) {
	charges := []domain.Charge{
		pricedCharge("Energy charges", 1000, 0.12, 120.00),
		{Description: "Sales tax", Amount: domain.MonetaryAmount{Value: 9.93}},
	}

	t.Run("sums against total amount due", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: charges,
			Totals:  domain.Totals{TotalAmountDue: domain.MonetaryAmount{Value: 129.93}},
		}
		issues := bill.NewGrandTotalValidator().Validate(context.Background(), usInput(doc))
		assert.Empty(t, issues)
	})

	t.Run("prefers current charges when present", func(t *testing.T) {
		// Total due includes a prior balance the lines never carried.
		doc := &domain.BillDocument{
			Charges: charges,
			Totals: domain.Totals{
				CurrentCharges: &domain.MonetaryAmount{Value: 129.93},
				TotalAmountDue: domain.MonetaryAmount{Value: 310.45},
			},
		}
		issues := bill.NewGrandTotalValidator().Validate(context.Background(), usInput(doc))
		assert.Empty(t, issues)
	})

	t.Run("mismatch warns", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: charges,
			Totals:  domain.Totals{TotalAmountDue: domain.MonetaryAmount{Value: 150.00}},
		}
		issues := bill.NewGrandTotalValidator().Validate(context.Background(), usInput(doc))
		require.Len(t, issues, 1)
		assert.Equal(t, domain.SeverityWarning, issues[0].Severity)
		assert.Equal(t, "totals.total_amount_due", issues[0].Field)
	})

	t.Run("minimum bill downgrades to info", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: charges,
			Totals: domain.Totals{
				TotalAmountDue:     domain.MonetaryAmount{Value: 150.00},
				MinimumBillApplied: true,
			},
		}
		issues := bill.NewGrandTotalValidator().Validate(context.Background(), usInput(doc))
		require.Len(t, issues, 1)
		assert.Equal(t, domain.SeverityInfo, issues[0].Severity)
	})

	t.Run("no charges no check", func(t *testing.T) {
		doc := &domain.BillDocument{
			Totals: domain.Totals{TotalAmountDue: domain.MonetaryAmount{Value: 25.00}},
		}
		issues := bill.NewGrandTotalValidator().Validate(context.Background(), usInput(doc))
		assert.Empty(t, issues)
	})
}
