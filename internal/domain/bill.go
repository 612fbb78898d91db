package domain

import "time"

// ConfidentFloat wraps a numeric field with the extraction model's certainty
// about it. Confidence reflects extraction certainty, never validation outcome.
type ConfidentFloat struct {
	Value          float64 `json:"value"`
	Confidence     float64 `json:"confidence"`
	SourceLocation string  `json:"source_location,omitempty"`
}

// ConfidentString wraps a textual field with extraction certainty.
type ConfidentString struct {
	Value          string  `json:"value"`
	Confidence     float64 `json:"confidence"`
	SourceLocation string  `json:"source_location,omitempty"`
}

// MonetaryAmount keeps the parsed value and the original textual form side by
// side so locale parsing stays traceable.
type MonetaryAmount struct {
	Value          float64 `json:"value"`
	Currency       string  `json:"currency"`
	OriginalString string  `json:"original_string,omitempty"`
	Confidence     float64 `json:"confidence"`
	SourceLocation string  `json:"source_location,omitempty"`
}

// LocaleInfo is the detected billing locale that parameterizes parsing and
// validation.
type LocaleInfo struct {
	CountryCode        string      `json:"country_code"`
	Language           string      `json:"language"`
	CurrencyCode       string      `json:"currency_code"`
	DecimalSeparator   string      `json:"decimal_separator"`
	ThousandsSeparator string      `json:"thousands_separator"`
	DateFormat         string      `json:"date_format"`
	NumberFormat       string      `json:"number_format"`
	NumberConfidence   float64     `json:"number_format_confidence"`
	TaxRegime          TaxRegime   `json:"tax_regime"`
	MarketModel        MarketModel `json:"market_model"`
}

// SignalFlags are the boolean structural signals detected during
// classification. They gate validators, audit questions and complexity score.
type SignalFlags struct {
	HasDemandCharges          bool `json:"has_demand_charges"`
	HasTOU                    bool `json:"has_tou"`
	HasSupplierSplit          bool `json:"has_supplier_split"`
	HasNetMetering            bool `json:"has_net_metering"`
	HasPriorPeriodAdjustments bool `json:"has_prior_period_adjustments"`
	HasMultiMeter             bool `json:"has_multi_meter"`
	HasMultiPageCharges       bool `json:"has_multi_page_charges"`
	HasTieredRates            bool `json:"has_tiered_rates"`
	HasMultipleVATRates       bool `json:"has_multiple_vat_rates"`
	HasCalorificConversion    bool `json:"has_calorific_conversion"`
	HasContractedCapacity     bool `json:"has_contracted_capacity"`
}

// Classification is produced once per document and immutable thereafter.
type Classification struct {
	Commodity     CommodityType  `json:"commodity_type"`
	Complexity    ComplexityTier `json:"complexity_tier"`
	Signals       SignalFlags    `json:"signals"`
	Market        MarketModel    `json:"market_model"`
	Locale        LocaleInfo     `json:"locale"`
	LineItemCount int            `json:"line_item_count"`
	PageCount     int            `json:"page_count"`
	Score         int            `json:"complexity_score"`
}

// MathCheck records the arithmetic check on a single charge.
type MathCheck struct {
	Expected    float64         `json:"expected"`
	Stated      float64         `json:"stated"`
	Variance    float64         `json:"variance"`
	Disposition MathDisposition `json:"disposition"`
}

// ChargeVAT carries per-line VAT figures when the locale uses VAT.
type ChargeVAT struct {
	AmountNet   *float64    `json:"amount_net,omitempty"`
	VATAmount   *float64    `json:"vat_amount,omitempty"`
	AmountGross *float64    `json:"amount_gross,omitempty"`
	Rate        *float64    `json:"rate,omitempty"`
	Category    VATCategory `json:"category,omitempty"`
}

// Charge is one billed line item. Never mutated after validation; validation
// findings are recorded separately as ValidationIssues.
type Charge struct {
	Description  string          `json:"description"`
	Category     ChargeCategory  `json:"category"`
	Owner        ChargeOwner     `json:"owner"`
	Section      ChargeSection   `json:"section"`
	Quantity     *ConfidentFloat `json:"quantity,omitempty"`
	QuantityUnit string          `json:"quantity_unit,omitempty"`
	Rate         *ConfidentFloat `json:"rate,omitempty"`
	Amount       MonetaryAmount  `json:"amount"`
	MathCheck    *MathCheck      `json:"math_check,omitempty"`
	VAT          *ChargeVAT      `json:"vat,omitempty"`
}

// Consumption is a meter's billed usage, in the unit printed on the bill and
// optionally normalized to the canonical unit for the commodity.
type Consumption struct {
	RawValue        float64  `json:"raw_value"`
	RawUnit         string   `json:"raw_unit"`
	NormalizedValue *float64 `json:"normalized_value,omitempty"`
	NormalizedUnit  string   `json:"normalized_unit,omitempty"`
}

// Demand is a peak-demand reading on electricity bills.
type Demand struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// TOUPeriod is one time-of-use bucket (peak, off-peak, shoulder).
type TOUPeriod struct {
	Label       string   `json:"label"`
	Consumption float64  `json:"consumption"`
	Unit        string   `json:"unit"`
	Rate        *float64 `json:"rate,omitempty"`
}

// ConversionFactors are the gas metering parameters used to turn measured
// volume into billed energy.
type ConversionFactors struct {
	CalorificValue         *float64 `json:"calorific_value,omitempty"`
	CalorificUnit          string   `json:"calorific_unit,omitempty"`
	VolumeCorrectionFactor *float64 `json:"volume_correction_factor,omitempty"`
}

// ContractedCapacity is the subscribed power on EU electricity contracts.
type ContractedCapacity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Meter is one physical meter on the bill.
type Meter struct {
	MeterID            string              `json:"meter_id"`
	ReadType           ReadType            `json:"read_type"`
	PreviousRead       *float64            `json:"previous_read,omitempty"`
	CurrentRead        *float64            `json:"current_read,omitempty"`
	PreviousReadDate   *time.Time          `json:"previous_read_date,omitempty"`
	CurrentReadDate    *time.Time          `json:"current_read_date,omitempty"`
	Multiplier         float64             `json:"multiplier"`
	Consumption        Consumption         `json:"consumption"`
	Demand             *Demand             `json:"demand,omitempty"`
	TOUPeriods         []TOUPeriod         `json:"tou_periods,omitempty"`
	ConversionFactors  *ConversionFactors  `json:"conversion_factors,omitempty"`
	ContractedCapacity *ContractedCapacity `json:"contracted_capacity,omitempty"`
}

// VATSummaryLine is one row of the bill's printed VAT summary table.
type VATSummaryLine struct {
	Rate        float64     `json:"rate"`
	Category    VATCategory `json:"category"`
	TaxableBase float64     `json:"taxable_base"`
	VATAmount   float64     `json:"vat_amount"`
}

// Totals are the document-level monetary aggregates. Under VAT regimes the
// invariant total_net + total_vat ≈ total_gross holds within tolerance.
type Totals struct {
	SectionSubtotals   map[ChargeSection]float64 `json:"section_subtotals,omitempty"`
	CurrentCharges     *MonetaryAmount           `json:"current_charges,omitempty"`
	PreviousBalance    *MonetaryAmount           `json:"previous_balance,omitempty"`
	TotalAmountDue     MonetaryAmount            `json:"total_amount_due"`
	VATSummary         []VATSummaryLine          `json:"vat_summary,omitempty"`
	TotalNet           *float64                  `json:"total_net,omitempty"`
	TotalVAT           *float64                  `json:"total_vat,omitempty"`
	TotalGross         *float64                  `json:"total_gross,omitempty"`
	MinimumBillApplied bool                      `json:"minimum_bill_applied,omitempty"`
}

// BillHeader is the invoice identity block.
type BillHeader struct {
	UtilityName   ConfidentString  `json:"utility_name"`
	SupplierName  *ConfidentString `json:"supplier_name,omitempty"`
	InvoiceNumber ConfidentString  `json:"invoice_number"`
	InvoiceDate   *time.Time       `json:"invoice_date,omitempty"`
	StatementType string           `json:"statement_type,omitempty"`
}

// Account is the customer account block.
type Account struct {
	AccountNumber      ConfidentString `json:"account_number"`
	CustomerName       string          `json:"customer_name,omitempty"`
	ServiceAddress     string          `json:"service_address,omitempty"`
	BillingAddress     string          `json:"billing_address,omitempty"`
	RateSchedule       string          `json:"rate_schedule,omitempty"`
	BillingPeriodStart *time.Time      `json:"billing_period_start,omitempty"`
	BillingPeriodEnd   *time.Time      `json:"billing_period_end,omitempty"`
}

// BillDocument is the canonical merged document produced by schema mapping
// and consumed by validation, audit and confidence scoring.
type BillDocument struct {
	Header  BillHeader `json:"header"`
	Account Account    `json:"account"`
	Meters  []Meter    `json:"meters"`
	Charges []Charge   `json:"charges"`
	Totals  Totals     `json:"totals"`
}

// ValidationIssue is an observation from deterministic validation. Issues
// accumulate and are never resolved automatically; they feed the confidence
// engine.
type ValidationIssue struct {
	Field    string        `json:"field"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
	Expected string        `json:"expected,omitempty"`
	Actual   string        `json:"actual,omitempty"`
	RuleID   string        `json:"rule_id,omitempty"`
}

// ValidationReport aggregates a full Pass 3 run.
type ValidationReport struct {
	Issues      []ValidationIssue `json:"issues"`
	Disposition MathDisposition   `json:"disposition"`
}

// AuditAnswer is one answered audit question, kept verbatim.
type AuditAnswer struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// AuditMismatch is a reconciled difference between the extraction and the
// independent audit model.
type AuditMismatch struct {
	Field           string           `json:"field"`
	ExtractionValue string           `json:"extraction_value"`
	AuditValue      string           `json:"audit_value"`
	Severity        MismatchSeverity `json:"severity"`
}

// AuditReport is the outcome of Pass 4.
type AuditReport struct {
	Model      string          `json:"model"`
	Answers    []AuditAnswer   `json:"answers"`
	Mismatches []AuditMismatch `json:"mismatches"`
}

// Penalty is one labeled confidence deduction.
type Penalty struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// ConfidenceResult is recomputed per document and never persisted on its own.
type ConfidenceResult struct {
	Score          float64        `json:"score"`
	FatalTriggered bool           `json:"fatal_triggered"`
	Tier           ConfidenceTier `json:"tier"`
	Penalties      []Penalty      `json:"penalties"`
}

// ExtractionMetadata captures provenance for drift comparison.
type ExtractionMetadata struct {
	ExtractionID       string            `json:"extraction_id"`
	ExtractionTime     time.Time         `json:"extraction_timestamp"`
	ProcessingTimeMS   int64             `json:"processing_time_ms"`
	ExtractionModel    string            `json:"extraction_model"`
	AuditModel         string            `json:"audit_model,omitempty"`
	PromptVersions     map[string]string `json:"prompt_versions,omitempty"`
	FewShotContextHash string            `json:"few_shot_context_hash,omitempty"`
	SourceSHA256       string            `json:"source_sha256"`
	PageCount          int               `json:"page_count"`
	ImageQuality       float64           `json:"image_quality"`
	OCRApplied         bool              `json:"ocr_applied"`
}

// ExtractionResult is the top-level aggregate, immutable after assembly.
// Flags must be consulted before trusting Tier: a degraded run can still
// produce a score.
type ExtractionResult struct {
	Metadata        ExtractionMetadata `json:"metadata"`
	Classification  Classification     `json:"classification"`
	Document        BillDocument       `json:"document"`
	Validation      ValidationReport   `json:"validation"`
	Audit           AuditReport        `json:"audit"`
	ConfidenceScore float64            `json:"confidence_score"`
	ConfidenceTier  ConfidenceTier     `json:"confidence_tier"`
	Penalties       []Penalty          `json:"penalties"`
	Flags           []string           `json:"flags"`
	Degraded        bool               `json:"degraded"`
	StructuredBonus bool               `json:"structured_invoice_verified,omitempty"`
}
