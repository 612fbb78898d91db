package locale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
	"gridbill/internal/locale"
)

func TestParseAmount_EUFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"thousands and decimal", "1.234,56", 1234.56},
		{"plain decimal", "19,00", 19.00},
		{"millions", "1.234.567,89", 1234567.89},
		{"euro symbol prefix", "€ 1.234,56", 1234.56},
		{"iso code prefix", "EUR 19,00", 19.00},
		{"negative", "-1.234,56", -1234.56},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locale.ParseAmount(tt.raw, locale.NumberFormatEU)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestParseAmount_USFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"thousands and decimal", "1,234.56", 1234.56},
		{"plain decimal", "19.00", 19.00},
		{"dollar symbol", "$1,234.56", 1234.56},
		{"pound symbol", "£42.17", 42.17},
		{"iso code suffix", "184.27 USD", 184.27},
		{"mexican peso prefix", "MX$512.30", 512.30},
		{"brazilian real prefix", "R$99.90", 99.90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locale.ParseAmount(tt.raw, locale.NumberFormatUS)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestParseAmount_Negatives(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"accounting parentheses", "(50.00)", -50.00},
		{"parentheses with symbol", "($1,200.00)", -1200.00},
		{"trailing minus", "50.00-", -50.00},
		{"leading minus", "-50.00", -50.00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locale.ParseAmount(tt.raw, locale.NumberFormatUS)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "n/a", "€"} {
		t.Run("raw="+raw, func(t *testing.T) {
			_, err := locale.ParseAmount(raw, locale.NumberFormatUS)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrAmountParse)
		})
	}
}
