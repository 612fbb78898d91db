package bill

import (
	"context"
	"fmt"

	"gridbill/internal/domain"
	"gridbill/internal/validator"
)

// vatValidator runs the VAT battery for VAT and IVA regimes: per-line rate
// arithmetic, net plus VAT against gross, the printed VAT summary table,
// and the document totals. Issues carry rule-specific IDs so downstream
// scoring can distinguish them.
type vatValidator struct{}

func NewVATValidator() validator.Validator { return &vatValidator{} }

func (v *vatValidator) RuleID() string   { return "vat" }
func (v *vatValidator) RuleName() string { return "VAT Consistency" }
func (v *vatValidator) Applies(in *validator.Input) bool {
	switch in.Classification.Locale.TaxRegime {
	case domain.RegimeEUVAT, domain.RegimeUKVAT, domain.RegimeMXIVA:
		return true
	default:
		return false
	}
}

func (v *vatValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	tol := in.Tolerance.Tax
	var issues []domain.ValidationIssue

	issues = append(issues, v.checkLines(in.Document, tol)...)
	issues = append(issues, v.checkSummary(in.Document, tol)...)
	issues = append(issues, v.checkTotals(in.Document, tol)...)

	return issues
}

func (v *vatValidator) checkLines(doc *domain.BillDocument, tol float64) []domain.ValidationIssue {
	var issues []domain.ValidationIssue

	for i := range doc.Charges {
		c := &doc.Charges[i]
		vat := c.VAT
		if vat == nil {
			continue
		}
		fp := fmt.Sprintf("charges[%d].vat", i)

		if vat.Category == domain.VATReverseCharge {
			if vat.VATAmount != nil && *vat.VATAmount != 0 {
				issues = append(issues, issue("vat_reverse_charge", fp, domain.SeverityWarning,
					fmt.Sprintf("reverse charge line %q carries a VAT amount", c.Description),
					"0.00", fmtf(*vat.VATAmount)))
			}
			continue
		}

		if vat.AmountNet != nil && vat.Rate != nil && vat.VATAmount != nil {
			expected := mul2(*vat.AmountNet, *vat.Rate/100)
			if !approxEqual(expected, *vat.VATAmount, tol) {
				issues = append(issues, issue("vat_line_calculation", fp, domain.SeverityWarning,
					fmt.Sprintf("VAT amount on %q does not match net x rate", c.Description),
					fmtf(expected), fmtf(*vat.VATAmount)))
			}
		}

		if vat.AmountNet != nil && vat.VATAmount != nil && vat.AmountGross != nil {
			expected := round2(*vat.AmountNet + *vat.VATAmount)
			if !approxEqual(expected, *vat.AmountGross, tol) {
				issues = append(issues, issue("vat_net_plus_vat", fp, domain.SeverityWarning,
					fmt.Sprintf("gross on %q does not equal net plus VAT", c.Description),
					fmtf(expected), fmtf(*vat.AmountGross)))
			}
		}
	}

	return issues
}

// checkSummary crosschecks the printed per-rate VAT summary table against
// the VAT-bearing charge lines grouped by rate.
func (v *vatValidator) checkSummary(doc *domain.BillDocument, tol float64) []domain.ValidationIssue {
	if len(doc.Totals.VATSummary) == 0 {
		return nil
	}

	baseByRate := make(map[float64]float64)
	vatByRate := make(map[float64]float64)
	for i := range doc.Charges {
		vat := doc.Charges[i].VAT
		if vat == nil || vat.Rate == nil {
			continue
		}
		if vat.AmountNet != nil {
			baseByRate[*vat.Rate] += *vat.AmountNet
		}
		if vat.VATAmount != nil {
			vatByRate[*vat.Rate] += *vat.VATAmount
		}
	}
	if len(baseByRate) == 0 {
		return nil
	}

	var issues []domain.ValidationIssue
	for i, line := range doc.Totals.VATSummary {
		fp := fmt.Sprintf("totals.vat_summary[%d]", i)
		if base, ok := baseByRate[line.Rate]; ok && !approxEqual(round2(base), line.TaxableBase, tol*2) {
			issues = append(issues, issue("vat_summary_base", fp, domain.SeverityWarning,
				fmt.Sprintf("taxable base for rate %.1f%% does not match the charge lines", line.Rate),
				fmtf(round2(base)), fmtf(line.TaxableBase)))
		}
		if amt, ok := vatByRate[line.Rate]; ok && !approxEqual(round2(amt), line.VATAmount, tol*2) {
			issues = append(issues, issue("vat_summary_amount", fp, domain.SeverityWarning,
				fmt.Sprintf("VAT amount for rate %.1f%% does not match the charge lines", line.Rate),
				fmtf(round2(amt)), fmtf(line.VATAmount)))
		}
	}

	return issues
}

func (v *vatValidator) checkTotals(doc *domain.BillDocument, tol float64) []domain.ValidationIssue {
	t := doc.Totals
	if t.TotalNet == nil || t.TotalVAT == nil || t.TotalGross == nil {
		return nil
	}
	expected := round2(*t.TotalNet + *t.TotalVAT)
	if approxEqual(expected, *t.TotalGross, tol) {
		return nil
	}
	return []domain.ValidationIssue{issue("vat_total", "totals.total_gross", domain.SeverityWarning,
		"total gross does not equal total net plus total VAT",
		fmtf(expected), fmtf(*t.TotalGross))}
}
