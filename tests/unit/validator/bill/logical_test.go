package bill_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
	"gridbill/internal/validator/bill"
)

func TestUnitCommodity(t *testing.T) {
	t.Run("gas unit on electricity bill is fatal", func(t *testing.T) {
		doc := &domain.BillDocument{
			Meters: []domain.Meter{{
				MeterID:     "G-100",
				Consumption: domain.Consumption{RawValue: 85, RawUnit: "therms"},
			}},
		}
		issues := bill.NewUnitCommodityValidator().Validate(context.Background(), usInput(doc))
		require.Len(t, issues, 1)
		assert.Equal(t, domain.SeverityFatal, issues[0].Severity)
		assert.Equal(t, "meters[0].consumption", issues[0].Field)
	})

	t.Run("kWh on a US gas bill is fatal", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: []domain.Charge{{
				Description:  "Gas usage",
				QuantityUnit: "kWh",
				Amount:       domain.MonetaryAmount{Value: 40.00},
			}},
		}
		in := usInput(doc)
		in.Classification.Commodity = domain.CommodityNaturalGas
		issues := bill.NewUnitCommodityValidator().Validate(context.Background(), in)
		require.Len(t, issues, 1)
		assert.Equal(t, domain.SeverityFatal, issues[0].Severity)
	})

	t.Run("kWh on a German gas bill is normal", func(t *testing.T) {
		// European gas is billed in energy units after calorific conversion.
		doc := &domain.BillDocument{
			Meters: []domain.Meter{{
				MeterID:     "G-100",
				Consumption: domain.Consumption{RawValue: 4500, RawUnit: "kWh"},
			}},
		}
		issues := bill.NewUnitCommodityValidator().Validate(context.Background(), deInput(doc, domain.CommodityNaturalGas))
		assert.Empty(t, issues)
	})

	t.Run("consistent units pass", func(t *testing.T) {
		doc := &domain.BillDocument{
			Meters: []domain.Meter{{
				MeterID:     "E-1",
				Consumption: domain.Consumption{RawValue: 500, RawUnit: "kWh"},
			}},
		}
		issues := bill.NewUnitCommodityValidator().Validate(context.Background(), usInput(doc))
		assert.Empty(t, issues)
	})
}

func TestBillingPeriod(t *testing.T) {
	day := 24 * time.Hour
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	docWith := func(end time.Time) *domain.BillDocument {
		return &domain.BillDocument{
			Account: domain.Account{BillingPeriodStart: &start, BillingPeriodEnd: &end},
		}
	}

	t.Run("normal month passes", func(t *testing.T) {
		issues := bill.NewBillingPeriodValidator().Validate(context.Background(), usInput(docWith(start.Add(30*day))))
		assert.Empty(t, issues)
	})

	t.Run("inverted range warns", func(t *testing.T) {
		issues := bill.NewBillingPeriodValidator().Validate(context.Background(), usInput(docWith(start.Add(-3*day))))
		require.Len(t, issues, 1)
		assert.Equal(t, "account.billing_period", issues[0].Field)
		assert.Equal(t, domain.SeverityWarning, issues[0].Severity)
	})

	t.Run("short period warns", func(t *testing.T) {
		issues := bill.NewBillingPeriodValidator().Validate(context.Background(), usInput(docWith(start.Add(7*day))))
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "short")
	})

	t.Run("not applicable without both dates", func(t *testing.T) {
		doc := &domain.BillDocument{Account: domain.Account{BillingPeriodStart: &start}}
		assert.False(t, bill.NewBillingPeriodValidator().Applies(usInput(doc)))
	})
}

func TestNegativeAmount(t *testing.T) {
	t.Run("negative non-credit line warns", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: []domain.Charge{{
				Description: "Energy charges",
				Category:    domain.ChargeCategoryEnergy,
				Amount:      domain.MonetaryAmount{Value: -42.10},
			}},
		}
		issues := bill.NewNegativeAmountValidator().Validate(context.Background(), usInput(doc))
		require.Len(t, issues, 1)
		assert.Equal(t, domain.SeverityWarning, issues[0].Severity)
	})

	t.Run("credits and adjustments may be negative", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: []domain.Charge{
				{Description: "Solar export credit", Category: domain.ChargeCategoryCredit, Amount: domain.MonetaryAmount{Value: -30.00}},
				{Description: "Prior period adjustment", Category: domain.ChargeCategoryAdjustment, Amount: domain.MonetaryAmount{Value: -12.50}},
			},
		}
		issues := bill.NewNegativeAmountValidator().Validate(context.Background(), usInput(doc))
		assert.Empty(t, issues)
	})
}

func TestFlaggedData(t *testing.T) {
	t.Run("promised demand missing", func(t *testing.T) {
		doc := &domain.BillDocument{}
		in := usInput(doc)
		in.Classification.Signals.HasDemandCharges = true
		issues := bill.NewFlaggedDataValidator().Validate(context.Background(), in)
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "demand")
	})

	t.Run("demand satisfied by a charge category", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: []domain.Charge{{
				Description: "Demand charge",
				Category:    domain.ChargeCategoryDemand,
				Amount:      domain.MonetaryAmount{Value: 210.00},
			}},
		}
		in := usInput(doc)
		in.Classification.Signals.HasDemandCharges = true
		issues := bill.NewFlaggedDataValidator().Validate(context.Background(), in)
		assert.Empty(t, issues)
	})

	t.Run("promised tou missing", func(t *testing.T) {
		doc := &domain.BillDocument{
			Meters: []domain.Meter{{MeterID: "E-1"}},
		}
		in := usInput(doc)
		in.Classification.Signals.HasTOU = true
		issues := bill.NewFlaggedDataValidator().Validate(context.Background(), in)
		require.Len(t, issues, 1)
	})

	t.Run("promised supplier split missing", func(t *testing.T) {
		doc := &domain.BillDocument{
			Charges: []domain.Charge{{
				Description: "Delivery",
				Owner:       domain.ChargeOwnerUtility,
				Amount:      domain.MonetaryAmount{Value: 50.00},
			}},
		}
		in := usInput(doc)
		in.Classification.Signals.HasSupplierSplit = true
		issues := bill.NewFlaggedDataValidator().Validate(context.Background(), in)
		require.Len(t, issues, 1)
		assert.Equal(t, "charges", issues[0].Field)
	})

	t.Run("no signals no issues", func(t *testing.T) {
		issues := bill.NewFlaggedDataValidator().Validate(context.Background(), usInput(&domain.BillDocument{}))
		assert.Empty(t, issues)
	})
}
