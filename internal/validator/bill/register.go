package bill

import "gridbill/internal/validator"

// RegisterAll adds the full bill validation battery to a registry.
func RegisterAll(r *validator.Registry) {
	r.Register(NewLineMathValidator())
	r.Register(NewSectionSubtotalsValidator())
	r.Register(NewGrandTotalValidator())
	r.Register(NewMeterConsumptionValidator())
	r.Register(NewTOUSumValidator())
	r.Register(NewUnitCommodityValidator())
	r.Register(NewBillingPeriodValidator())
	r.Register(NewNegativeAmountValidator())
	r.Register(NewFlaggedDataValidator())
	r.Register(NewVATValidator())
	r.Register(NewGasConversionValidator())
}
