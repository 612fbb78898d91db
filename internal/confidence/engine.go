package confidence

import (
	"fmt"
	"math"
	"sort"

	"gridbill/internal/domain"
)

// Quality thresholds below which the source document itself erodes trust
// in the extraction.
const (
	minImageQuality    = 0.6
	lowFieldConfidence = 0.80
)

// mathRules are the validation rules whose warnings count as arithmetic
// discrepancies. Logic warnings (period length, negative amounts, missing
// flagged data, range checks) shape the disposition but never the score.
// VAT rules are scored by the international pass, which owns their
// per-error penalty.
var mathRules = map[string]bool{
	"line_math":         true,
	"section_subtotals": true,
	"grand_total":       true,
	"meter_consumption": true,
	"tou_sum":           true,
}

// Input is everything the confidence engine scores.
type Input struct {
	Document     *domain.BillDocument
	Validation   domain.ValidationReport
	Audit        *domain.AuditReport
	Complexity   domain.ComplexityTier
	ImageQuality float64
	OCRApplied   bool
}

// Compute folds validation issues, audit mismatches, per-field extraction
// confidence and source quality into one score. Penalties are additive,
// never compounding, and the score is clamped to [0, 1].
func Compute(in Input) domain.ConfidenceResult {
	res := domain.ConfidenceResult{Score: 1.0}

	for _, is := range in.Validation.Issues {
		switch {
		case is.Severity == domain.SeverityFatal:
			res.FatalTriggered = true
			deduct(&res, fmt.Sprintf("fatal_issue:%s", is.Field), errorPenalty[domain.MismatchFatal])
		case is.Severity == domain.SeverityWarning && mathRules[is.RuleID]:
			bucket := FieldWeight(is.Field)
			if bucket == domain.MismatchFatal {
				res.FatalTriggered = true
			}
			deduct(&res, fmt.Sprintf("math_discrepancy:%s", is.Field), errorPenalty[bucket])
		}
	}

	if in.Audit != nil {
		for _, mm := range in.Audit.Mismatches {
			if mm.Severity == domain.MismatchFatal {
				res.FatalTriggered = true
			}
			deduct(&res, fmt.Sprintf("audit_mismatch:%s", mm.Field), errorPenalty[mm.Severity])
		}
	}

	fields := confidentFields(in.Document)
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if fields[path] >= lowFieldConfidence {
			continue
		}
		bucket := FieldWeight(path)
		if penalty := lowConfidencePenalty[bucket]; penalty > 0 {
			if bucket == domain.MismatchFatal {
				res.FatalTriggered = true
			}
			deduct(&res, fmt.Sprintf("low_confidence:%s", path), penalty)
		}
	}

	if in.ImageQuality < minImageQuality {
		deduct(&res, "image_quality", 0.10)
	}
	if in.OCRApplied {
		deduct(&res, "ocr_applied", 0.03)
	}

	res.Score = clampRound(res.Score)
	res.Tier = DetermineTier(res.Score, res.FatalTriggered, in.Complexity)
	return res
}

func deduct(res *domain.ConfidenceResult, label string, amount float64) {
	if amount <= 0 {
		return
	}
	res.Score -= amount
	res.Penalties = append(res.Penalties, domain.Penalty{Label: label, Amount: amount})
}

func clampRound(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return math.Round(score*10000) / 10000
}

// confidentFields walks the document's confidence-bearing fields.
func confidentFields(doc *domain.BillDocument) map[string]float64 {
	if doc == nil {
		return nil
	}
	out := map[string]float64{
		"header.utility_name":     doc.Header.UtilityName.Confidence,
		"header.invoice_number":   doc.Header.InvoiceNumber.Confidence,
		"account.account_number":  doc.Account.AccountNumber.Confidence,
		"totals.total_amount_due": doc.Totals.TotalAmountDue.Confidence,
	}
	if doc.Header.SupplierName != nil {
		out["header.supplier_name"] = doc.Header.SupplierName.Confidence
	}
	if doc.Totals.CurrentCharges != nil {
		out["totals.current_charges"] = doc.Totals.CurrentCharges.Confidence
	}
	if doc.Totals.PreviousBalance != nil {
		out["totals.previous_balance"] = doc.Totals.PreviousBalance.Confidence
	}
	for i := range doc.Charges {
		c := &doc.Charges[i]
		out[fmt.Sprintf("charges[%d].amount", i)] = c.Amount.Confidence
		if c.Quantity != nil {
			out[fmt.Sprintf("charges[%d].quantity", i)] = c.Quantity.Confidence
		}
		if c.Rate != nil {
			out[fmt.Sprintf("charges[%d].rate", i)] = c.Rate.Confidence
		}
	}
	return out
}
