package extract

import "gridbill/internal/domain"

// RawMeter is one meter as the structural pass returns it, before unit
// normalization and date parsing.
type RawMeter struct {
	MeterID                 string             `json:"meter_id"`
	ReadType                string             `json:"read_type"`
	PreviousRead            *float64           `json:"previous_read"`
	CurrentRead             *float64           `json:"current_read"`
	PreviousReadDate        string             `json:"previous_read_date"`
	CurrentReadDate         string             `json:"current_read_date"`
	Multiplier              *float64           `json:"multiplier"`
	ConsumptionValue        float64            `json:"consumption_value"`
	ConsumptionUnit         string             `json:"consumption_unit"`
	BilledEnergyValue       *float64           `json:"billed_energy_value"`
	DemandValue             *float64           `json:"demand_value"`
	DemandUnit              string             `json:"demand_unit"`
	TOUPeriods              []domain.TOUPeriod `json:"tou_periods"`
	CalorificValue          *float64           `json:"calorific_value"`
	VolumeCorrectionFactor  *float64           `json:"volume_correction_factor"`
	ContractedCapacityValue *float64           `json:"contracted_capacity_value"`
	ContractedCapacityUnit  string             `json:"contracted_capacity_unit"`
}

// RawStructural is the Pass 1A payload. Dates stay strings here; they are
// parsed against the detected locale during schema mapping.
type RawStructural struct {
	UtilityName        domain.ConfidentString  `json:"utility_name"`
	SupplierName       *domain.ConfidentString `json:"supplier_name"`
	InvoiceNumber      domain.ConfidentString  `json:"invoice_number"`
	InvoiceDate        string                  `json:"invoice_date"`
	AccountNumber      domain.ConfidentString  `json:"account_number"`
	CustomerName       string                  `json:"customer_name"`
	ServiceAddress     string                  `json:"service_address"`
	BillingAddress     string                  `json:"billing_address"`
	RateSchedule       string                  `json:"rate_schedule"`
	BillingPeriodStart string                  `json:"billing_period_start"`
	BillingPeriodEnd   string                  `json:"billing_period_end"`
	Meters             []RawMeter              `json:"meters"`
}

// RawCharge is one charge line as the financial pass returns it.
type RawCharge struct {
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	Owner        string                 `json:"owner"`
	Section      string                 `json:"section"`
	Quantity     *domain.ConfidentFloat `json:"quantity"`
	QuantityUnit string                 `json:"quantity_unit"`
	Rate         *domain.ConfidentFloat `json:"rate"`
	Amount       domain.MonetaryAmount  `json:"amount"`
	VAT          *domain.ChargeVAT      `json:"vat"`
}

// RawFinancial is the Pass 1B payload.
type RawFinancial struct {
	Charges            []RawCharge             `json:"charges"`
	SectionSubtotals   map[string]float64      `json:"section_subtotals"`
	CurrentCharges     *domain.MonetaryAmount  `json:"current_charges"`
	PreviousBalance    *domain.MonetaryAmount  `json:"previous_balance"`
	TotalAmountDue     domain.MonetaryAmount   `json:"total_amount_due"`
	VATSummary         []domain.VATSummaryLine `json:"vat_summary"`
	TotalNet           *float64                `json:"total_net"`
	TotalVAT           *float64                `json:"total_vat"`
	TotalGross         *float64                `json:"total_gross"`
	MinimumBillApplied bool                    `json:"minimum_bill_applied"`
}
