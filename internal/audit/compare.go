package audit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gridbill/internal/domain"
	"gridbill/internal/locale"
)

// totalDueTolerance is how far the audit model's total may drift from the
// extraction before the document is condemned.
const totalDueTolerance = 0.50

// Compare reconciles the three scored audit answers against the merged
// document. All other answers stay unscored; they are evidence for the
// reviewer, not for the confidence engine.
func Compare(doc *domain.BillDocument, answers []domain.AuditAnswer, loc domain.LocaleInfo) []domain.AuditMismatch {
	var mismatches []domain.AuditMismatch

	for _, ans := range answers {
		answer := strings.TrimSpace(ans.Answer)
		if answer == "" || strings.EqualFold(answer, "not_visible") {
			continue
		}

		switch ans.QuestionID {
		case "total_due":
			auditValue, err := parseAmountAnswer(answer, loc)
			if err != nil {
				continue
			}
			extracted := doc.Totals.TotalAmountDue.Value
			if math.Abs(auditValue-extracted) > totalDueTolerance {
				mismatches = append(mismatches, domain.AuditMismatch{
					Field:           "totals.total_amount_due",
					ExtractionValue: fmt.Sprintf("%.2f", extracted),
					AuditValue:      fmt.Sprintf("%.2f", auditValue),
					Severity:        domain.MismatchFatal,
				})
			}

		case "meter_count":
			count, err := strconv.Atoi(answer)
			if err != nil {
				continue
			}
			if count != len(doc.Meters) {
				mismatches = append(mismatches, domain.AuditMismatch{
					Field:           "meters",
					ExtractionValue: strconv.Itoa(len(doc.Meters)),
					AuditValue:      answer,
					Severity:        domain.MismatchHigh,
				})
			}

		case "account_number":
			extracted := doc.Account.AccountNumber.Value
			if extracted == "" {
				continue
			}
			if answer != extracted {
				mismatches = append(mismatches, domain.AuditMismatch{
					Field:           "account.account_number",
					ExtractionValue: extracted,
					AuditValue:      answer,
					Severity:        domain.MismatchFatal,
				})
			}
		}
	}

	return mismatches
}

func parseAmountAnswer(answer string, loc domain.LocaleInfo) (float64, error) {
	if v, err := strconv.ParseFloat(answer, 64); err == nil {
		return v, nil
	}
	return locale.ParseAmount(answer, loc.NumberFormat)
}
