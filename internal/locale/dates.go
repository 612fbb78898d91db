package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gridbill/internal/domain"
)

// ParseDate parses a raw date under the detected date format. The dot format
// and ISO are unambiguous and tried first regardless of the declared format;
// slash and dash dates follow the declared day/month ordering.
func ParseDate(raw, format string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, domain.ErrDateParse)
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2.1.2006", s); err == nil {
		return t, nil
	}

	dayFirst := strings.HasPrefix(format, "DD")
	layouts := []string{"01/02/2006", "1/2/2006", "01/02/06", "01-02-2006", "1-2-2006"}
	if dayFirst {
		layouts = []string{"02/01/2006", "2/1/2006", "02/01/06", "02-01-2006", "2-1-2006"}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", raw, domain.ErrDateParse)
}

// IsDateAmbiguous reports whether a slash or dash date reads validly under
// both day-first and month-first orderings with different results.
func IsDateAmbiguous(raw string) bool {
	s := strings.TrimSpace(raw)
	sep := "/"
	if !strings.Contains(s, "/") {
		if !strings.Contains(s, "-") {
			return false
		}
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return false
	}
	first, err1 := strconv.Atoi(parts[0])
	second, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return false
	}
	return first >= 1 && first <= 12 && second >= 1 && second <= 12 && first != second
}

// PeriodCheck is the outcome of validating a billing period.
type PeriodCheck struct {
	Valid   bool
	Days    int
	Warning string
}

// ValidateBillingPeriod checks that a billing period is physically plausible.
// Invalid: end before start, zero length, or longer than 400 days. Unusual
// but valid lengths (<15 or >95 days) carry a warning.
func ValidateBillingPeriod(start, end time.Time) PeriodCheck {
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return PeriodCheck{Valid: false, Days: days, Warning: "billing period end precedes start"}
	}
	if days == 0 {
		return PeriodCheck{Valid: false, Days: days, Warning: "billing period has zero length"}
	}
	if days > 400 {
		return PeriodCheck{Valid: false, Days: days, Warning: "billing period exceeds 400 days"}
	}
	if days < 15 {
		return PeriodCheck{Valid: true, Days: days, Warning: "billing period unusually short"}
	}
	if days > 95 {
		return PeriodCheck{Valid: true, Days: days, Warning: "billing period unusually long"}
	}
	return PeriodCheck{Valid: true, Days: days}
}
