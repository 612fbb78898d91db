package audit

import (
	"fmt"
	"strings"

	"gridbill/internal/domain"
)

// Question is one audit question put to the independent model.
type Question struct {
	ID   string
	Text string
}

// BuildQuestions assembles the audit question list: a fixed baseline, then
// questions gated by classification signals, then locale-specific ones.
// Only the baseline answers are automatically reconciled; the rest are
// recorded for reviewers.
func BuildQuestions(cls domain.Classification) []Question {
	qs := []Question{
		{ID: "total_due", Text: "What is the total amount due on this bill?"},
		{ID: "billing_period", Text: "What are the billing period start and end dates, as printed?"},
		{ID: "account_number", Text: "What is the account number?"},
		{ID: "total_consumption", Text: "What is the total consumption shown on the bill, and in what unit?"},
		{ID: "meter_count", Text: "How many distinct meters appear on this bill?"},
	}

	s := cls.Signals
	if s.HasDemandCharges {
		qs = append(qs, Question{ID: "demand", Text: "What is the billed demand value and its unit?"})
	}
	if s.HasTOU {
		qs = append(qs, Question{ID: "tou", Text: "List each time-of-use period with its consumption."})
	}
	if s.HasSupplierSplit {
		qs = append(qs, Question{ID: "supplier_split", Text: "Which charges on this bill come from an energy supplier rather than the utility?"})
	}
	if s.HasNetMetering {
		qs = append(qs, Question{ID: "net_metering", Text: "What net metering credits or exported energy values appear on the bill?"})
	}
	if s.HasPriorPeriodAdjustments {
		qs = append(qs, Question{ID: "prior_period", Text: "What adjustments or corrections to prior billing periods appear on the bill?"})
	}
	if cls.Commodity == domain.CommodityElectricity && s.HasContractedCapacity {
		qs = append(qs, Question{ID: "capacity_charges", Text: "What capacity or subscribed-power charges appear on the bill?"})
	}
	if cls.Commodity == domain.CommodityWater {
		qs = append(qs, Question{ID: "water_sewer_split", Text: "Does the bill separate water and sewer charges, and what is the total of each?"})
	}
	if cls.Complexity == domain.ComplexityComplex || cls.Complexity == domain.ComplexityPathological {
		qs = append(qs,
			Question{ID: "minimum_bill", Text: "Does the bill mention a minimum bill or minimum charge being applied?"},
			Question{ID: "charges_sum", Text: "Does the printed total equal the sum of the individual charge lines? Answer yes or no."},
		)
	}

	switch cls.Locale.TaxRegime {
	case domain.RegimeEUVAT, domain.RegimeUKVAT, domain.RegimeMXIVA:
		qs = append(qs, Question{ID: "vat_summary", Text: "List each row of the VAT summary table: rate, taxable base, and VAT amount."})
	}
	switch cls.Locale.CountryCode {
	case "DE":
		qs = append(qs, Question{ID: "gas_factors", Text: "What Brennwert (calorific value) and Zustandszahl (volume correction factor) are printed on the bill?"})
	case "FR", "ES":
		qs = append(qs, Question{ID: "contracted_capacity", Text: "What contracted capacity (puissance souscrite / potencia contratada) is printed on the bill?"})
	}

	return qs
}

// FormatQuestions renders the question list for the audit prompt.
func FormatQuestions(qs []Question) string {
	var b strings.Builder
	for i, q := range qs {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, q.ID, q.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
