package bill

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"gridbill/internal/domain"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// round2 rounds half away from zero to cents, matching how utilities print
// line amounts. float64 multiplication alone drifts on long tariffs.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func mul2(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

func issue(ruleID, field string, sev domain.IssueSeverity, msg, expected, actual string) domain.ValidationIssue {
	return domain.ValidationIssue{
		RuleID:   ruleID,
		Field:    field,
		Severity: sev,
		Message:  msg,
		Expected: expected,
		Actual:   actual,
	}
}
