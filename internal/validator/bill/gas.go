package bill

import (
	"context"
	"fmt"
	"math"

	"gridbill/internal/domain"
	"gridbill/internal/validator"
)

// Plausible ranges for natural gas metering parameters. Calorific values on
// European bills are printed in kWh/m³ and sit near 10-11.
const (
	calorificMin = 8.0
	calorificMax = 14.0
	vcfMin       = 0.9
	vcfMax       = 1.1
)

// gasConversionValidator checks the volume-to-energy conversion chain on
// gas meters that carry conversion factors.
type gasConversionValidator struct{}

func NewGasConversionValidator() validator.Validator { return &gasConversionValidator{} }

func (v *gasConversionValidator) RuleID() string   { return "gas_conversion" }
func (v *gasConversionValidator) RuleName() string { return "Gas Conversion" }
func (v *gasConversionValidator) Applies(in *validator.Input) bool {
	return in.Classification.Commodity == domain.CommodityNaturalGas ||
		in.Classification.Commodity == domain.CommodityMulti
}

func (v *gasConversionValidator) Validate(_ context.Context, in *validator.Input) []domain.ValidationIssue {
	var issues []domain.ValidationIssue

	for i := range in.Document.Meters {
		m := &in.Document.Meters[i]
		cf := m.ConversionFactors
		if cf == nil {
			continue
		}
		fp := fmt.Sprintf("meters[%d].conversion_factors", i)

		if cf.CalorificValue != nil && (*cf.CalorificValue < calorificMin || *cf.CalorificValue > calorificMax) {
			issues = append(issues, issue("gas_calorific_range", fp, domain.SeverityWarning,
				fmt.Sprintf("calorific value outside the plausible %.0f-%.0f kWh/m³ range", calorificMin, calorificMax),
				"", fmtf(*cf.CalorificValue)))
		}

		if cf.VolumeCorrectionFactor != nil {
			vcf := *cf.VolumeCorrectionFactor
			if vcf != 1.0 && (vcf < vcfMin || vcf > vcfMax) {
				issues = append(issues, issue("gas_vcf_range", fp, domain.SeverityWarning,
					fmt.Sprintf("volume correction factor outside the plausible %.1f-%.1f range", vcfMin, vcfMax),
					"", fmt.Sprintf("%.4f", vcf)))
			}
		}

		issues = append(issues, v.checkEnergyChain(m, i)...)
	}

	return issues
}

// checkEnergyChain validates volume x VCF x CV against the billed energy
// within 2% relative, when the meter carries both a volume read and a
// normalized energy figure.
func (v *gasConversionValidator) checkEnergyChain(m *domain.Meter, idx int) []domain.ValidationIssue {
	cf := m.ConversionFactors
	if cf.CalorificValue == nil {
		return nil
	}
	if m.Consumption.RawUnit != "m³" || m.Consumption.NormalizedUnit != "kWh" || m.Consumption.NormalizedValue == nil {
		return nil
	}

	vcf := 1.0
	if cf.VolumeCorrectionFactor != nil {
		vcf = *cf.VolumeCorrectionFactor
	}
	expected := m.Consumption.RawValue * vcf * *cf.CalorificValue
	energy := *m.Consumption.NormalizedValue
	if energy == 0 {
		return nil
	}
	if math.Abs(expected-energy)/math.Abs(energy) <= 0.02 {
		return nil
	}

	return []domain.ValidationIssue{issue("gas_energy_conversion",
		fmt.Sprintf("meters[%d].consumption", idx), domain.SeverityWarning,
		fmt.Sprintf("billed energy on meter %s does not match volume x VCF x calorific value", m.MeterID),
		fmtf(expected), fmtf(energy))}
}
