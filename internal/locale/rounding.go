package locale

import "math"

// Tolerance is the acceptable rounding slack for monetary comparisons, in
// currency units. Tax comparisons get a wider band than base amounts.
type Tolerance struct {
	Base float64
	Tax  float64
}

// roundingTolerances is the per-jurisdiction table. Every monetary validator
// must source its tolerance here rather than hardcode one.
var roundingTolerances = map[string]Tolerance{
	"DE": {Base: 0.02, Tax: 0.04},
	"FR": {Base: 0.05, Tax: 0.10},
	"ES": {Base: 0.02, Tax: 0.04},
	"IT": {Base: 0.02, Tax: 0.04},
	"NL": {Base: 0.02, Tax: 0.04},
	"GB": {Base: 0.01, Tax: 0.02},
	"UK": {Base: 0.01, Tax: 0.02},
	"US": {Base: 0.05, Tax: 0.05},
	"MX": {Base: 0.05, Tax: 0.05},
}

var defaultTolerance = Tolerance{Base: 0.05, Tax: 0.10}

// ToleranceFor returns the rounding tolerance for a country code.
func ToleranceFor(country string) Tolerance {
	if t, ok := roundingTolerances[country]; ok {
		return t
	}
	return defaultTolerance
}

// WithinTolerance reports whether two amounts agree within tol.
func WithinTolerance(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
