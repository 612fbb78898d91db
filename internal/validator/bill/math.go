package bill

import (
	"context"
	"fmt"
	"math"

	"gridbill/internal/domain"
	"gridbill/internal/validator"
)

// lineMathValidator recomputes every priced charge line and classifies the
// variance. It annotates each checked charge with its MathCheck.
type lineMathValidator struct{}

func NewLineMathValidator() validator.Validator { return &lineMathValidator{} }

func (v *lineMathValidator) RuleID() string                  { return "line_math" }
func (v *lineMathValidator) RuleName() string                { return "Line Item Math" }
func (v *lineMathValidator) Applies(_ *validator.Input) bool { return true }

func (v *lineMathValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	tol := in.Tolerance.Base

	for i := range in.Document.Charges {
		c := &in.Document.Charges[i]
		if c.Quantity == nil || c.Rate == nil {
			continue
		}

		expected := mul2(c.Quantity.Value, c.Rate.Value)
		stated := c.Amount.Value
		variance := math.Abs(stated - expected)
		fp := fmt.Sprintf("charges[%d].amount", i)

		check := &domain.MathCheck{Expected: expected, Stated: stated, Variance: variance}

		switch {
		case variance == 0:
			check.Disposition = domain.MathClean
		case variance <= tol:
			check.Disposition = domain.MathRoundingVariance
		case stated > expected && c.Category == domain.ChargeCategoryFixed:
			check.Disposition = domain.MathMinimumBill
			issues = append(issues, issue(v.RuleID(), fp, domain.SeverityInfo,
				fmt.Sprintf("stated amount exceeds quantity x rate on a fixed charge, likely minimum bill (%q)", c.Description),
				fmtf(expected), fmtf(stated)))
		case stated != 0 && variance <= 0.02*math.Abs(stated):
			check.Disposition = domain.MathUtilityAdjustment
			issues = append(issues, issue(v.RuleID(), fp, domain.SeverityInfo,
				fmt.Sprintf("small variance on %q, consistent with a utility-side adjustment", c.Description),
				fmtf(expected), fmtf(stated)))
		default:
			check.Disposition = domain.MathDiscrepancy
			issues = append(issues, issue(v.RuleID(), fp, domain.SeverityWarning,
				fmt.Sprintf("amount does not match quantity x rate for %q", c.Description),
				fmtf(expected), fmtf(stated)))
		}

		c.MathCheck = check
	}

	return issues
}
