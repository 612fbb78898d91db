package bill

import (
	"context"
	"fmt"

	"gridbill/internal/domain"
	"gridbill/internal/locale"
	"gridbill/internal/validator"
)

var gasOnlyUnits = map[string]bool{
	"therms":     true,
	"CCF":        true,
	"MCF":        true,
	"dekatherms": true,
}

var electricOnlyUnits = map[string]bool{
	"kWh": true,
	"kW":  true,
}

// unitCommodityValidator catches unit/commodity contradictions. These are
// fatal: a therms figure on an electricity bill means the extraction read
// the wrong document region entirely.
type unitCommodityValidator struct{}

func NewUnitCommodityValidator() validator.Validator { return &unitCommodityValidator{} }

func (v *unitCommodityValidator) RuleID() string                  { return "unit_commodity" }
func (v *unitCommodityValidator) RuleName() string                { return "Unit Commodity Consistency" }
func (v *unitCommodityValidator) Applies(_ *validator.Input) bool { return true }

func (v *unitCommodityValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	commodity := in.Classification.Commodity
	country := in.Classification.Locale.CountryCode

	check := func(field, unit string) {
		switch {
		case commodity == domain.CommodityElectricity && gasOnlyUnits[unit]:
			issues = append(issues, issue(v.RuleID(), field, domain.SeverityFatal,
				fmt.Sprintf("gas unit %q on an electricity invoice", unit), "", unit))
		case commodity == domain.CommodityNaturalGas && country == "US" && electricOnlyUnits[unit]:
			issues = append(issues, issue(v.RuleID(), field, domain.SeverityFatal,
				fmt.Sprintf("electric unit %q on a US gas invoice", unit), "", unit))
		}
	}

	for i := range in.Document.Meters {
		check(fmt.Sprintf("meters[%d].consumption", i), in.Document.Meters[i].Consumption.RawUnit)
	}
	for i := range in.Document.Charges {
		check(fmt.Sprintf("charges[%d].quantity_unit", i), in.Document.Charges[i].QuantityUnit)
	}

	return issues
}

// billingPeriodValidator sanity-checks the billing period length.
type billingPeriodValidator struct{}

func NewBillingPeriodValidator() validator.Validator { return &billingPeriodValidator{} }

func (v *billingPeriodValidator) RuleID() string   { return "billing_period" }
func (v *billingPeriodValidator) RuleName() string { return "Billing Period Length" }
func (v *billingPeriodValidator) Applies(in *validator.Input) bool {
	return in.Document.Account.BillingPeriodStart != nil && in.Document.Account.BillingPeriodEnd != nil
}

func (v *billingPeriodValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	check := locale.ValidateBillingPeriod(*in.Document.Account.BillingPeriodStart, *in.Document.Account.BillingPeriodEnd)
	if !check.Valid {
		return []domain.ValidationIssue{issue(v.RuleID(), "account.billing_period", domain.SeverityWarning,
			"billing period is not a plausible date range", "", fmt.Sprintf("%d days", check.Days))}
	}
	if check.Warning != "" {
		return []domain.ValidationIssue{issue(v.RuleID(), "account.billing_period", domain.SeverityWarning,
			check.Warning, "", fmt.Sprintf("%d days", check.Days))}
	}
	return nil
}

// negativeAmountValidator flags negative amounts outside credit and
// adjustment lines.
type negativeAmountValidator struct{}

func NewNegativeAmountValidator() validator.Validator { return &negativeAmountValidator{} }

func (v *negativeAmountValidator) RuleID() string                  { return "negative_amount" }
func (v *negativeAmountValidator) RuleName() string                { return "Negative Amount" }
func (v *negativeAmountValidator) Applies(_ *validator.Input) bool { return true }

func (v *negativeAmountValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for i := range in.Document.Charges {
		c := &in.Document.Charges[i]
		if c.Amount.Value >= 0 {
			continue
		}
		if c.Category == domain.ChargeCategoryCredit || c.Category == domain.ChargeCategoryAdjustment {
			continue
		}
		issues = append(issues, issue(v.RuleID(),
			fmt.Sprintf("charges[%d].amount", i), domain.SeverityWarning,
			fmt.Sprintf("negative amount on non-credit line %q", c.Description),
			"", fmtf(c.Amount.Value)))
	}
	return issues
}

// flaggedDataValidator checks that data promised by classification signals
// actually made it into the extraction.
type flaggedDataValidator struct{}

func NewFlaggedDataValidator() validator.Validator { return &flaggedDataValidator{} }

func (v *flaggedDataValidator) RuleID() string                  { return "missing_flagged_data" }
func (v *flaggedDataValidator) RuleName() string                { return "Missing Flagged Data" }
func (v *flaggedDataValidator) Applies(_ *validator.Input) bool { return true }

func (v *flaggedDataValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	doc := in.Document
	signals := in.Classification.Signals

	if signals.HasDemandCharges {
		found := false
		for i := range doc.Meters {
			if doc.Meters[i].Demand != nil {
				found = true
			}
		}
		for i := range doc.Charges {
			if doc.Charges[i].Category == domain.ChargeCategoryDemand {
				found = true
			}
		}
		if !found {
			issues = append(issues, issue(v.RuleID(), "meters", domain.SeverityWarning,
				"classification flagged demand charges but none were extracted", "", ""))
		}
	}

	if signals.HasTOU {
		found := false
		for i := range doc.Meters {
			if len(doc.Meters[i].TOUPeriods) > 0 {
				found = true
			}
		}
		if !found {
			issues = append(issues, issue(v.RuleID(), "meters", domain.SeverityWarning,
				"classification flagged time-of-use but no TOU periods were extracted", "", ""))
		}
	}

	if signals.HasSupplierSplit {
		found := false
		for i := range doc.Charges {
			if doc.Charges[i].Owner == domain.ChargeOwnerSupplier {
				found = true
			}
		}
		if !found {
			issues = append(issues, issue(v.RuleID(), "charges", domain.SeverityWarning,
				"classification flagged a supplier split but no supplier-owned charges were extracted", "", ""))
		}
	}

	return issues
}
