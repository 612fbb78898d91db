package extract

import (
	"context"
	"fmt"
	"time"

	"gridbill/internal/domain"
	"gridbill/internal/llm"
	"gridbill/internal/locale"
	"gridbill/internal/prompt"
)

type rawMerged struct {
	RawStructural
	RawFinancial
}

// MapSchema runs Pass 2: an LLM merge of the two raw payloads followed by
// deterministic normalization. The model only reconciles conflicts between
// the payloads; all parsing of dates, units and amounts happens here, never
// in the model.
func (e *Extractor) MapSchema(ctx context.Context, structuralJSON, financialJSON string, cls domain.Classification) (*domain.BillDocument, error) {
	rendered, err := e.prompts.Render(prompt.SchemaMapping, map[string]string{
		"structural": structuralJSON,
		"financial":  financialJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering schema mapping prompt: %w", err)
	}

	resp, err := e.client.CompleteText(ctx, llm.Request{
		Meta:     llm.CallMeta{Stage: "schema_mapping"},
		Prompt:   rendered,
		JSONMode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("schema mapping call: %w", err)
	}

	var merged rawMerged
	if err := llm.ParseJSON(resp.Content, &merged); err != nil {
		return nil, fmt.Errorf("parsing schema mapping response: %w", err)
	}

	return BuildDocument(&merged.RawStructural, &merged.RawFinancial, cls), nil
}

// BuildDocument deterministically normalizes raw payloads into the canonical
// document. It is also the fallback merge when the mapping call fails.
func BuildDocument(st *RawStructural, fin *RawFinancial, cls domain.Classification) *domain.BillDocument {
	loc := cls.Locale

	doc := &domain.BillDocument{
		Header: domain.BillHeader{
			UtilityName:   st.UtilityName,
			SupplierName:  st.SupplierName,
			InvoiceNumber: st.InvoiceNumber,
			InvoiceDate:   parseDate(st.InvoiceDate, loc),
		},
		Account: domain.Account{
			AccountNumber:      st.AccountNumber,
			CustomerName:       st.CustomerName,
			ServiceAddress:     st.ServiceAddress,
			BillingAddress:     st.BillingAddress,
			RateSchedule:       st.RateSchedule,
			BillingPeriodStart: parseDate(st.BillingPeriodStart, loc),
			BillingPeriodEnd:   parseDate(st.BillingPeriodEnd, loc),
		},
	}

	for i := range st.Meters {
		doc.Meters = append(doc.Meters, buildMeter(&st.Meters[i], cls))
	}
	for i := range fin.Charges {
		doc.Charges = append(doc.Charges, buildCharge(&fin.Charges[i], loc))
	}
	doc.Totals = buildTotals(fin, loc)

	return doc
}

func buildMeter(rm *RawMeter, cls domain.Classification) domain.Meter {
	loc := cls.Locale

	multiplier := 1.0
	if rm.Multiplier != nil && *rm.Multiplier != 0 {
		multiplier = *rm.Multiplier
	}

	m := domain.Meter{
		MeterID:          rm.MeterID,
		ReadType:         parseReadType(rm.ReadType),
		PreviousRead:     rm.PreviousRead,
		CurrentRead:      rm.CurrentRead,
		PreviousReadDate: parseDate(rm.PreviousReadDate, loc),
		CurrentReadDate:  parseDate(rm.CurrentReadDate, loc),
		Multiplier:       multiplier,
		Consumption: domain.Consumption{
			RawValue: rm.ConsumptionValue,
			RawUnit:  locale.NormalizeUnitName(rm.ConsumptionUnit),
		},
	}

	// A billed energy figure printed next to a gas volume read takes
	// precedence over converting the volume ourselves.
	canonical := locale.CanonicalUnit(cls.Commodity, loc.CountryCode)
	if rm.BilledEnergyValue != nil && m.Consumption.RawUnit == "m³" {
		m.Consumption.NormalizedValue = rm.BilledEnergyValue
		m.Consumption.NormalizedUnit = "kWh"
	} else if m.Consumption.RawUnit != "" && m.Consumption.RawUnit != canonical {
		if v, err := locale.ConvertUnits(rm.ConsumptionValue, m.Consumption.RawUnit, canonical, rm.CalorificValue); err == nil {
			m.Consumption.NormalizedValue = &v
			m.Consumption.NormalizedUnit = canonical
		}
	}

	if rm.DemandValue != nil {
		m.Demand = &domain.Demand{Value: *rm.DemandValue, Unit: locale.NormalizeUnitName(rm.DemandUnit)}
	}
	for _, p := range rm.TOUPeriods {
		p.Unit = locale.NormalizeUnitName(p.Unit)
		m.TOUPeriods = append(m.TOUPeriods, p)
	}
	if rm.CalorificValue != nil || rm.VolumeCorrectionFactor != nil {
		m.ConversionFactors = &domain.ConversionFactors{
			CalorificValue:         rm.CalorificValue,
			VolumeCorrectionFactor: rm.VolumeCorrectionFactor,
		}
		if rm.CalorificValue != nil {
			m.ConversionFactors.CalorificUnit = "kWh/m³"
		}
	}
	if rm.ContractedCapacityValue != nil {
		m.ContractedCapacity = &domain.ContractedCapacity{
			Value: *rm.ContractedCapacityValue,
			Unit:  locale.NormalizeUnitName(rm.ContractedCapacityUnit),
		}
	}

	return m
}

func buildCharge(rc *RawCharge, loc domain.LocaleInfo) domain.Charge {
	return domain.Charge{
		Description:  rc.Description,
		Category:     parseCategory(rc.Category),
		Owner:        parseOwner(rc.Owner),
		Section:      parseSection(rc.Section),
		Quantity:     rc.Quantity,
		QuantityUnit: locale.NormalizeUnitName(rc.QuantityUnit),
		Rate:         rc.Rate,
		Amount:       normalizeAmount(rc.Amount, loc),
		VAT:          rc.VAT,
	}
}

func buildTotals(fin *RawFinancial, loc domain.LocaleInfo) domain.Totals {
	t := domain.Totals{
		TotalAmountDue:     normalizeAmount(fin.TotalAmountDue, loc),
		VATSummary:         fin.VATSummary,
		TotalNet:           fin.TotalNet,
		TotalVAT:           fin.TotalVAT,
		TotalGross:         fin.TotalGross,
		MinimumBillApplied: fin.MinimumBillApplied,
	}
	if fin.CurrentCharges != nil {
		cc := normalizeAmount(*fin.CurrentCharges, loc)
		t.CurrentCharges = &cc
	}
	if fin.PreviousBalance != nil {
		pb := normalizeAmount(*fin.PreviousBalance, loc)
		t.PreviousBalance = &pb
	}
	if len(fin.SectionSubtotals) > 0 {
		t.SectionSubtotals = make(map[domain.ChargeSection]float64, len(fin.SectionSubtotals))
		for k, v := range fin.SectionSubtotals {
			t.SectionSubtotals[parseSection(k)] = v
		}
	}
	return t
}

// normalizeAmount fills the currency and reparses the printed string under
// the detected number format when the model's numeric value is missing.
func normalizeAmount(a domain.MonetaryAmount, loc domain.LocaleInfo) domain.MonetaryAmount {
	if a.Currency == "" {
		a.Currency = loc.CurrencyCode
	}
	if a.Value == 0 && a.OriginalString != "" {
		if v, err := locale.ParseAmount(a.OriginalString, loc.NumberFormat); err == nil {
			a.Value = v
		}
	}
	return a
}

func parseDate(raw string, loc domain.LocaleInfo) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := locale.ParseDate(raw, loc.DateFormat)
	if err != nil {
		return nil
	}
	return &t
}

func parseReadType(s string) domain.ReadType {
	switch domain.ReadType(s) {
	case domain.ReadTypeActual, domain.ReadTypeEstimated, domain.ReadTypeCustomer:
		return domain.ReadType(s)
	default:
		return domain.ReadTypeActual
	}
}

func parseCategory(s string) domain.ChargeCategory {
	switch domain.ChargeCategory(s) {
	case domain.ChargeCategoryEnergy, domain.ChargeCategoryDemand, domain.ChargeCategoryFixed,
		domain.ChargeCategoryRider, domain.ChargeCategoryTax, domain.ChargeCategoryPenalty,
		domain.ChargeCategoryCredit, domain.ChargeCategoryAdjustment, domain.ChargeCategoryMinimum:
		return domain.ChargeCategory(s)
	default:
		return domain.ChargeCategoryOther
	}
}

func parseOwner(s string) domain.ChargeOwner {
	switch domain.ChargeOwner(s) {
	case domain.ChargeOwnerUtility, domain.ChargeOwnerSupplier, domain.ChargeOwnerGovernment:
		return domain.ChargeOwner(s)
	default:
		return domain.ChargeOwnerOther
	}
}

func parseSection(s string) domain.ChargeSection {
	switch domain.ChargeSection(s) {
	case domain.SectionSupply, domain.SectionDistribution, domain.SectionTaxes:
		return domain.ChargeSection(s)
	default:
		return domain.SectionOther
	}
}
