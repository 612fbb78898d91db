package locale

import (
	"fmt"
	"strings"

	"gridbill/internal/domain"
)

type unitPair struct {
	from string
	to   string
}

// conversionFactors holds the forward direction of each defined conversion.
// Inverses are derived when the table is built.
var conversionFactors = map[unitPair]float64{
	{"therms", "kWh"}:        29.3071,
	{"CCF", "therms"}:        1.037,
	{"MCF", "therms"}:        10.37,
	{"dekatherms", "therms"}: 10.0,
	{"GJ", "kWh"}:            277.778,
	{"MWh", "kWh"}:           1000.0,
	{"CCF", "kWh"}:           1.037 * 29.3071,
	{"gallons", "m³"}:        0.00378541,
	{"CCF_water", "gallons"}: 748.0,
	{"CCF_water", "m³"}:      748.0 * 0.00378541,
}

var conversionTable = buildConversionTable()

func buildConversionTable() map[unitPair]float64 {
	table := make(map[unitPair]float64, 2*len(conversionFactors))
	for p, f := range conversionFactors {
		table[p] = f
		table[unitPair{p.to, p.from}] = 1.0 / f
	}
	return table
}

// ConvertUnits converts a value between billing units. Gas volume to energy
// (m³ ↔ kWh) depends on the bill's calorific value and fails without one.
func ConvertUnits(value float64, from, to string, calorificValue *float64) (float64, error) {
	from = NormalizeUnitName(from)
	to = NormalizeUnitName(to)
	if from == to {
		return value, nil
	}

	if (from == "m³" && to == "kWh") || (from == "kWh" && to == "m³") {
		if calorificValue == nil {
			return 0, fmt.Errorf("convert %s to %s: %w", from, to, domain.ErrCalorificRequired)
		}
		if from == "m³" {
			return value * *calorificValue, nil
		}
		return value / *calorificValue, nil
	}

	factor, ok := conversionTable[unitPair{from, to}]
	if !ok {
		return 0, fmt.Errorf("convert %s to %s: %w", from, to, domain.ErrUnknownUnitPair)
	}
	return value * factor, nil
}

// unitAliases maps textual and case variants to canonical spellings.
var unitAliases = map[string]string{
	"kwh":          "kWh",
	"kw":           "kW",
	"kva":          "kVA",
	"mwh":          "MWh",
	"gj":           "GJ",
	"m3":           "m³",
	"m^3":          "m³",
	"cbm":          "m³",
	"cubic meters": "m³",
	"cubic metres": "m³",
	"therm":        "therms",
	"thm":          "therms",
	"ccf":          "CCF",
	"mcf":          "MCF",
	"dth":          "dekatherms",
	"dekatherm":    "dekatherms",
	"gal":          "gallons",
	"gallon":       "gallons",
}

// NormalizeUnitName maps common spellings of billing units to canonical form.
// Unknown units pass through unchanged.
func NormalizeUnitName(unit string) string {
	trimmed := strings.TrimSpace(unit)
	if canonical, ok := unitAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// CanonicalUnit is the unit consumption normalizes to for a commodity in a
// region. Regions are "US" or "EU" style jurisdictions.
func CanonicalUnit(commodity domain.CommodityType, country string) string {
	us := country == "US" || country == "MX" || country == "CA"
	switch commodity {
	case domain.CommodityElectricity:
		return "kWh"
	case domain.CommodityNaturalGas:
		if us {
			return "therms"
		}
		return "kWh"
	case domain.CommodityWater:
		if us {
			return "gallons"
		}
		return "m³"
	}
	return ""
}
