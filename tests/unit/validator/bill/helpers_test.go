package bill_test

import (
	"gridbill/internal/domain"
	"gridbill/internal/locale"
	"gridbill/internal/validator"
)

func fptr(v float64) *float64 { return &v }

func usInput(doc *domain.BillDocument) *validator.Input {
	return &validator.Input{
		Document: doc,
		Classification: domain.Classification{
			Commodity: domain.CommodityElectricity,
			Locale:    domain.LocaleInfo{CountryCode: "US", TaxRegime: domain.RegimeUSSalesTax},
		},
		Tolerance: locale.ToleranceFor("US"),
	}
}

func deInput(doc *domain.BillDocument, commodity domain.CommodityType) *validator.Input {
	return &validator.Input{
		Document: doc,
		Classification: domain.Classification{
			Commodity: commodity,
			Locale:    domain.LocaleInfo{CountryCode: "DE", TaxRegime: domain.RegimeEUVAT},
		},
		Tolerance: locale.ToleranceFor("DE"),
	}
}

func pricedCharge(desc string, qty, rate, amount float64) domain.Charge {
	return domain.Charge{
		Description: desc,
		Category:    domain.ChargeCategoryEnergy,
		Section:     domain.SectionSupply,
		Quantity:    &domain.ConfidentFloat{Value: qty, Confidence: 0.95},
		Rate:        &domain.ConfidentFloat{Value: rate, Confidence: 0.95},
		Amount:      domain.MonetaryAmount{Value: amount, Currency: "USD", Confidence: 0.95},
	}
}
