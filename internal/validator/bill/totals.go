package bill

import (
	"context"
	"fmt"

	"gridbill/internal/domain"
	"gridbill/internal/validator"
)

// sectionSubtotalsValidator compares the stated per-section subtotals with
// the sum of the charges assigned to each section.
type sectionSubtotalsValidator struct{}

func NewSectionSubtotalsValidator() validator.Validator { return &sectionSubtotalsValidator{} }

func (v *sectionSubtotalsValidator) RuleID() string   { return "section_subtotals" }
func (v *sectionSubtotalsValidator) RuleName() string { return "Section Subtotals" }
func (v *sectionSubtotalsValidator) Applies(in *validator.Input) bool {
	return len(in.Document.Totals.SectionSubtotals) > 0
}

func (v *sectionSubtotalsValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	tol := in.Tolerance.Base * 2

	sums := make(map[domain.ChargeSection]float64)
	for _, c := range in.Document.Charges {
		sums[c.Section] += c.Amount.Value
	}

	for _, section := range []domain.ChargeSection{domain.SectionSupply, domain.SectionDistribution, domain.SectionTaxes, domain.SectionOther} {
		stated, ok := in.Document.Totals.SectionSubtotals[section]
		if !ok {
			continue
		}
		calculated := round2(sums[section])
		if !approxEqual(calculated, stated, tol) {
			issues = append(issues, issue(v.RuleID(),
				fmt.Sprintf("totals.section_subtotals.%s", section), domain.SeverityWarning,
				fmt.Sprintf("%s charges do not sum to the stated subtotal", section),
				fmtf(calculated), fmtf(stated)))
		}
	}

	return issues
}

// grandTotalValidator compares the stated current charges with the sum of
// every charge line. A minimum bill legitimately decouples the two, so that
// case is only informational.
type grandTotalValidator struct{}

func NewGrandTotalValidator() validator.Validator { return &grandTotalValidator{} }

func (v *grandTotalValidator) RuleID() string                  { return "grand_total" }
func (v *grandTotalValidator) RuleName() string                { return "Grand Total" }
func (v *grandTotalValidator) Applies(_ *validator.Input) bool { return true }

func (v *grandTotalValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	doc := in.Document
	if len(doc.Charges) == 0 {
		return nil
	}

	var sum float64
	for _, c := range doc.Charges {
		sum += c.Amount.Value
	}
	calculated := round2(sum)

	stated := doc.Totals.TotalAmountDue.Value
	field := "totals.total_amount_due"
	if doc.Totals.CurrentCharges != nil {
		stated = doc.Totals.CurrentCharges.Value
		field = "totals.current_charges"
	}

	if approxEqual(calculated, stated, in.Tolerance.Base*4) {
		return nil
	}

	sev := domain.SeverityWarning
	msg := "charge lines do not sum to the stated total"
	if doc.Totals.MinimumBillApplied {
		sev = domain.SeverityInfo
		msg = "charge lines do not sum to the stated total; minimum bill applied"
	}
	return []domain.ValidationIssue{
		issue(v.RuleID(), field, sev, msg, fmtf(calculated), fmtf(stated)),
	}
}
