package bill

import (
	"context"
	"fmt"
	"math"

	"gridbill/internal/domain"
	"gridbill/internal/validator"
)

// Meter arithmetic tolerates one whole unit: registers truncate fractional
// digits the bill never shows.
const meterTolerance = 1.0

// meterConsumptionValidator checks (current - previous) x multiplier against
// the stated consumption for every meter with both reads.
type meterConsumptionValidator struct{}

func NewMeterConsumptionValidator() validator.Validator { return &meterConsumptionValidator{} }

func (v *meterConsumptionValidator) RuleID() string                  { return "meter_consumption" }
func (v *meterConsumptionValidator) RuleName() string                { return "Meter Consumption" }
func (v *meterConsumptionValidator) Applies(_ *validator.Input) bool { return true }

func (v *meterConsumptionValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	var issues []domain.ValidationIssue

	for i := range in.Document.Meters {
		m := &in.Document.Meters[i]
		if m.PreviousRead == nil || m.CurrentRead == nil {
			continue
		}
		multiplier := m.Multiplier
		if multiplier == 0 {
			multiplier = 1
		}
		expected := (*m.CurrentRead - *m.PreviousRead) * multiplier
		stated := m.Consumption.RawValue
		if math.Abs(expected-stated) > meterTolerance {
			issues = append(issues, issue(v.RuleID(),
				fmt.Sprintf("meters[%d].consumption", i), domain.SeverityWarning,
				fmt.Sprintf("meter %s reads do not reconcile with stated consumption", m.MeterID),
				fmtf(expected), fmtf(stated)))
		}
	}

	return issues
}

// touSumValidator checks that time-of-use period consumption sums to the
// meter's stated total.
type touSumValidator struct{}

func NewTOUSumValidator() validator.Validator { return &touSumValidator{} }

func (v *touSumValidator) RuleID() string                  { return "tou_sum" }
func (v *touSumValidator) RuleName() string                { return "Time-of-Use Sum" }
func (v *touSumValidator) Applies(_ *validator.Input) bool { return true }

func (v *touSumValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	var issues []domain.ValidationIssue

	for i := range in.Document.Meters {
		m := &in.Document.Meters[i]
		if len(m.TOUPeriods) == 0 {
			continue
		}
		var sum float64
		for _, p := range m.TOUPeriods {
			sum += p.Consumption
		}
		if math.Abs(sum-m.Consumption.RawValue) > meterTolerance {
			issues = append(issues, issue(v.RuleID(),
				fmt.Sprintf("meters[%d].tou_periods", i), domain.SeverityWarning,
				fmt.Sprintf("TOU periods on meter %s do not sum to total consumption", m.MeterID),
				fmtf(sum), fmtf(m.Consumption.RawValue)))
		}
	}

	return issues
}
