package locale

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gridbill/internal/domain"
)

var isoCodeRe = regexp.MustCompile(`\b[A-Z]{3}\b`)

// currencySymbols are stripped before numeric parsing. R$ must go before the
// bare symbols so the Brazilian prefix is removed whole.
var currencySymbols = []string{"R$", "MX$", "€", "$", "£", "¥", "₹", "₽"}

// ParseAmount parses a raw monetary string under the detected number format
// (NumberFormatEU or NumberFormatUS). Handles accounting negatives "(x)" and
// leading or trailing minus signs, and strips currency symbols and ISO codes.
func ParseAmount(raw, format string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("parse amount %q: %w", raw, domain.ErrAmountParse)
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = isoCodeRe.ReplaceAllString(s, "")
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = s[:len(s)-1]
	}
	s = strings.ReplaceAll(s, " ", "")

	if format == NumberFormatEU {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	if s == "" {
		return 0, fmt.Errorf("parse amount %q: %w", raw, domain.ErrAmountParse)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, domain.ErrAmountParse)
	}
	if negative {
		v = -v
	}
	return v, nil
}
