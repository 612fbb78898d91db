package confidence

import (
	"regexp"
	"sort"
	"strings"

	"gridbill/internal/domain"
)

// fieldWeights is the static field-to-bucket table shared by the confidence
// engine, audit reconciliation and drift severity grading. A fatal field is
// one whose incorrectness invalidates the whole extraction.
var fieldWeights = map[string]domain.MismatchSeverity{
	"total_amount_due":  domain.MismatchFatal,
	"account_number":    domain.MismatchFatal,
	"billing_period":    domain.MismatchFatal,
	"commodity_type":    domain.MismatchFatal,
	"meter_consumption": domain.MismatchFatal,
	"meter_multiplier":  domain.MismatchFatal,

	"current_charges":     domain.MismatchHigh,
	"demand_value":        domain.MismatchHigh,
	"rate_schedule":       domain.MismatchHigh,
	"section_subtotals":   domain.MismatchHigh,
	"tou_breakdown":       domain.MismatchHigh,
	"net_metering_values": domain.MismatchHigh,

	"individual_charge_amounts": domain.MismatchMedium,
	"charge_classifications":    domain.MismatchMedium,
	"meter_read_dates":          domain.MismatchMedium,
	"supplier_name":             domain.MismatchMedium,

	"rider_descriptions": domain.MismatchLow,
	"billing_address":    domain.MismatchLow,
	"late_fees":          domain.MismatchLow,
	"previous_balance":   domain.MismatchLow,
}

// pathAliases maps concrete document paths (indices stripped) onto their
// canonical table entry. Issue and confidence paths use the document's
// structure; the weight table uses category names.
var pathAliases = map[string]string{
	"charges.amount":     "individual_charge_amounts",
	"charges.category":   "charge_classifications",
	"meters.consumption": "meter_consumption",
	"meters.multiplier":  "meter_multiplier",
	"meters.tou_periods": "tou_breakdown",
	"meters.demand":      "demand_value",
	"meters.read_dates":  "meter_read_dates",
}

var sortedWeightKeys = func() []string {
	keys := make([]string, 0, len(fieldWeights))
	for k := range fieldWeights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

var indexRe = regexp.MustCompile(`\[\d+\]`)

// FieldWeight resolves a field path to its severity bucket: exact match
// first, then substring containment in key order, defaulting to low.
func FieldWeight(field string) domain.MismatchSeverity {
	norm := indexRe.ReplaceAllString(field, "")
	if canonical, ok := pathAliases[norm]; ok {
		norm = canonical
	}
	if w, ok := fieldWeights[norm]; ok {
		return w
	}
	for _, key := range sortedWeightKeys {
		if strings.Contains(norm, key) {
			return fieldWeights[key]
		}
	}
	return domain.MismatchLow
}

// errorPenalty is the deduction per discrepancy or audit mismatch in a
// given bucket.
var errorPenalty = map[domain.MismatchSeverity]float64{
	domain.MismatchFatal:  1.0,
	domain.MismatchHigh:   0.20,
	domain.MismatchMedium: 0.08,
	domain.MismatchLow:    0.03,
}

// lowConfidencePenalty is the deduction for an extracted field the model
// itself was unsure about (per-field confidence below 0.80).
var lowConfidencePenalty = map[domain.MismatchSeverity]float64{
	domain.MismatchFatal:  0.15,
	domain.MismatchHigh:   0.10,
	domain.MismatchMedium: 0.04,
	domain.MismatchLow:    0,
}
