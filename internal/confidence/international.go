package confidence

import (
	"fmt"

	"gridbill/internal/domain"
)

// uncertainNumberFormat is the detection confidence below which locale
// number parsing itself becomes a risk.
const uncertainNumberFormat = 0.7

var commonLanguages = map[string]bool{
	"en": true, "de": true, "fr": true, "es": true, "it": true, "nl": true, "pt": true,
}

// InternationalInput carries the locale-specific risk signals layered on
// top of the base score for non-US documents.
type InternationalInput struct {
	Locale         domain.LocaleInfo
	Validation     domain.ValidationReport
	AmbiguousDates int
	Structured     bool
}

// ApplyInternational layers locale-driven penalties and the structured
// invoice bonus onto a base result, then re-derives the tier with the same
// thresholds.
func ApplyInternational(base domain.ConfidenceResult, complexity domain.ComplexityTier, in InternationalInput) domain.ConfidenceResult {
	res := base

	if in.Locale.NumberConfidence < uncertainNumberFormat {
		deduct(&res, "number_format_uncertain", 0.10)
	}
	for i := 0; i < in.AmbiguousDates; i++ {
		deduct(&res, fmt.Sprintf("ambiguous_date_%d", i+1), 0.05)
	}
	for _, is := range in.Validation.Issues {
		switch is.RuleID {
		// Summary cross-check findings (vat_summary_base, vat_summary_amount)
		// are warnings, not VAT errors, and are never scored.
		case "vat_line_calculation", "vat_net_plus_vat", "vat_total":
			deduct(&res, fmt.Sprintf("vat_error:%s", is.Field), 0.12)
		case "gas_energy_conversion":
			deduct(&res, fmt.Sprintf("conversion_error:%s", is.Field), 0.15)
		}
	}
	if in.Locale.Language != "" && !commonLanguages[in.Locale.Language] {
		deduct(&res, "uncommon_language", 0.05)
	}
	if in.Structured {
		res.Score += 0.10
		res.Penalties = append(res.Penalties, domain.Penalty{Label: "structured_invoice_bonus", Amount: -0.10})
	}

	res.Score = clampRound(res.Score)
	res.Tier = DetermineTier(res.Score, res.FatalTriggered, complexity)
	return res
}
