package locale

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gridbill/internal/domain"
)

// currencyCountry maps currencies that identify a country unambiguously.
// EUR is deliberately absent: it needs language or keyword evidence.
var currencyCountry = map[string]string{
	"GBP": "GB",
	"USD": "US",
	"MXN": "MX",
	"BRL": "BR",
	"CHF": "CH",
	"SEK": "SE",
	"NOK": "NO",
	"DKK": "DK",
	"PLN": "PL",
	"CZK": "CZ",
	"HUF": "HU",
}

// languageEuroCountry resolves a eurozone country from the document language.
var languageEuroCountry = map[string]string{
	"de": "DE",
	"fr": "FR",
	"it": "IT",
	"es": "ES",
	"nl": "NL",
	"pt": "PT",
	"el": "GR",
	"fi": "FI",
}

// countryKeywords are billing terms specific enough to pin a jurisdiction.
var countryKeywords = map[string][]string{
	"DE": {"Netzentgelte", "Stromsteuer", "EEG", "Brennwert", "Zustandszahl", "Grundpreis", "Arbeitspreis", "BNetzA", "Zähler"},
	"FR": {"TURPE", "CSPE", "TCFE", "CTA", "TVA", "Abonnement", "Consommation", "PDL", "Heures Pleines", "Heures Creuses"},
	"ES": {"Peaje", "IVA", "CUPS", "Potencia contratada", "Energía activa", "Impuesto"},
	"IT": {"Oneri di sistema", "IVA", "POD", "Accisa", "Imposte", "Trasporto", "Gestione contatore"},
	"GB": {"CCL", "DUoS", "TNUoS", "BSUoS", "MPAN", "Capacity Market", "Standing charge", "pence per kWh"},
	"NL": {"Energiebelasting", "ODE", "Transportkosten", "EAN", "Vastrecht", "Leveringskosten"},
	"MX": {"CFE", "DAC", "CFDI", "IVA", "DAP", "Factor de potencia"},
	"US": {"kWh", "therms", "CCF", "MCF", "Sales tax", "Franchise fee", "Delivery charges"},
}

var euVATCountries = map[string]bool{
	"DE": true, "FR": true, "ES": true, "IT": true, "NL": true,
	"PT": true, "GR": true, "FI": true, "AT": true, "BE": true, "IE": true,
}

var liberalizedEUCountries = map[string]bool{
	"DE": true, "FR": true, "ES": true, "IT": true, "NL": true, "GB": true,
	"AT": true, "BE": true, "FI": true, "SE": true, "NO": true, "DK": true,
}

var (
	euNumberRe = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*,\d{2}\b`)
	usNumberRe = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}\b`)
	euPlainRe  = regexp.MustCompile(`\d+,\d{2}\b`)
	usPlainRe  = regexp.MustCompile(`\d+\.\d{2}\b`)

	dotDateRe   = regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.\d{4}\b`)
	isoDateRe   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/\d{2,4}\b`)
)

const (
	NumberFormatEU = "1.234,56"
	NumberFormatUS = "1,234.56"
)

// Detect derives the full billing locale from raw document text. langHint, if
// non-empty, is the language detected during ingestion.
func Detect(text, langHint string) domain.LocaleInfo {
	currency := detectCurrency(text)
	country := detectCountry(text, langHint, currency)
	numberFormat, numberConf := detectNumberFormat(text)
	dateFormat := detectDateFormat(text)

	info := domain.LocaleInfo{
		CountryCode:      country,
		Language:         langHint,
		CurrencyCode:     currency,
		DateFormat:       dateFormat,
		NumberFormat:     numberFormat,
		NumberConfidence: numberConf,
		TaxRegime:        TaxRegimeFor(country),
		MarketModel:      MarketModelFor(country),
	}
	if numberFormat == NumberFormatEU {
		info.DecimalSeparator = ","
		info.ThousandsSeparator = "."
	} else {
		info.DecimalSeparator = "."
		info.ThousandsSeparator = ","
	}
	return info
}

func detectCurrency(text string) string {
	switch {
	case strings.Contains(text, "€") || strings.Contains(text, "EUR"):
		return "EUR"
	case strings.Contains(text, "£") || strings.Contains(text, "GBP"):
		return "GBP"
	case strings.Contains(text, "$"):
		if strings.Contains(text, "MXN") || strings.Contains(text, "MX$") {
			return "MXN"
		}
		if strings.Contains(text, "R$") {
			return "BRL"
		}
		return "USD"
	}
	for _, code := range []string{"CHF", "SEK", "NOK", "DKK", "PLN", "CZK", "HUF"} {
		if strings.Contains(text, code) {
			return code
		}
	}
	return "USD"
}

// detectCountry resolves the country in priority order: unambiguous currency,
// then (language, EUR) pair, then keyword scoring. Keyword ties break
// alphabetically so detection stays deterministic.
func detectCountry(text, lang, currency string) string {
	if c, ok := currencyCountry[currency]; ok {
		return c
	}
	if currency == "EUR" {
		if c, ok := languageEuroCountry[strings.ToLower(lang)]; ok {
			return c
		}
	}

	best := ""
	bestScore := 0
	codes := make([]string, 0, len(countryKeywords))
	for c := range countryKeywords {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	for _, c := range codes {
		score := 0
		for _, kw := range countryKeywords[c] {
			score += strings.Count(text, kw)
		}
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if best != "" {
		return best
	}
	if currency == "EUR" {
		return "DE"
	}
	return "US"
}

// detectNumberFormat counts EU-style vs US-style amounts. Confidence is the
// winner's share of all matches; 0.5 when the text carries no amounts at all.
func detectNumberFormat(text string) (string, float64) {
	eu := len(euNumberRe.FindAllString(text, -1))
	us := len(usNumberRe.FindAllString(text, -1))
	if eu == us {
		eu = len(euPlainRe.FindAllString(text, -1))
		us = len(usPlainRe.FindAllString(text, -1))
	}
	total := eu + us
	if total == 0 {
		return NumberFormatUS, 0.5
	}
	if eu > us {
		return NumberFormatEU, float64(eu) / float64(total)
	}
	if us > eu {
		return NumberFormatUS, float64(us) / float64(total)
	}
	return NumberFormatUS, 0.5
}

func detectDateFormat(text string) string {
	if dotDateRe.MatchString(text) {
		return "DD.MM.YYYY"
	}
	if isoDateRe.MatchString(text) {
		return "YYYY-MM-DD"
	}
	for _, m := range slashDateRe.FindAllStringSubmatch(text, -1) {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		if first > 12 {
			return "DD/MM/YYYY"
		}
		if second > 12 {
			return "MM/DD/YYYY"
		}
	}
	return "MM/DD/YYYY"
}

// TaxRegimeFor returns the tax validation regime for a country.
func TaxRegimeFor(country string) domain.TaxRegime {
	switch {
	case euVATCountries[country]:
		return domain.RegimeEUVAT
	case country == "GB":
		return domain.RegimeUKVAT
	case country == "MX":
		return domain.RegimeMXIVA
	default:
		return domain.RegimeUSSalesTax
	}
}

// MarketModelFor returns how the country's energy market is organized.
func MarketModelFor(country string) domain.MarketModel {
	switch {
	case liberalizedEUCountries[country]:
		return domain.MarketLiberalizedEU
	case country == "US":
		return domain.MarketDeregulated
	case country == "":
		return domain.MarketUnknown
	default:
		return domain.MarketRegulated
	}
}
