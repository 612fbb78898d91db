package prompt

// builtinTemplates holds the prompt text for every pipeline stage. Each
// template's version identifier is derived from its text, so any edit here
// shows up in extraction metadata.
var builtinTemplates = map[string]string{
	Classification: classificationTemplate,
	Structural:     structuralTemplate,
	Financial:      financialTemplate,
	SchemaMapping:  schemaMappingTemplate,
	Audit:          auditTemplate,
}

const classificationTemplate = `You are a utility invoice triage assistant. Look at the provided invoice pages and classify the document.

Return ONLY valid JSON with no markdown formatting:
{
  "commodity_type": "electricity|natural_gas|water|multi_commodity",
  "signals": {
    "has_demand_charges": false,
    "has_tou": false,
    "has_supplier_split": false,
    "has_net_metering": false,
    "has_prior_period_adjustments": false,
    "has_multi_meter": false,
    "has_multi_page_charges": false,
    "has_tiered_rates": false,
    "has_multiple_vat_rates": false,
    "has_calorific_conversion": false,
    "has_contracted_capacity": false
  },
  "line_item_count": 0,
  "utility_name": ""
}

Count every individually priced line on the bill for line_item_count. Set a signal true only when the bill clearly shows it.`

const structuralTemplate = `You are a utility invoice extraction assistant. Extract the structural data (header, account, meters) from the provided invoice pages. Commodity: {{.commodity}}. Billing locale: {{.country}}.

Return ONLY valid JSON with no markdown formatting:
{
  "utility_name": {"value": "", "confidence": 0.0},
  "supplier_name": {"value": "", "confidence": 0.0},
  "invoice_number": {"value": "", "confidence": 0.0},
  "invoice_date": "",
  "account_number": {"value": "", "confidence": 0.0},
  "customer_name": "",
  "service_address": "",
  "billing_address": "",
  "rate_schedule": "",
  "billing_period_start": "",
  "billing_period_end": "",
  "meters": [
    {
      "meter_id": "",
      "read_type": "actual|estimated|customer",
      "previous_read": 0,
      "current_read": 0,
      "previous_read_date": "",
      "current_read_date": "",
      "multiplier": 1,
      "consumption_value": 0,
      "consumption_unit": "",
      "billed_energy_value": 0,
      "demand_value": 0,
      "demand_unit": "",
      "tou_periods": [{"label": "", "consumption": 0, "unit": "", "rate": 0}],
      "calorific_value": 0,
      "volume_correction_factor": 0,
      "contracted_capacity_value": 0,
      "contracted_capacity_unit": ""
    }
  ]
}

Dates exactly as printed on the bill. Omit optional fields you cannot find rather than guessing. billed_energy_value is the kWh figure printed alongside a gas volume read; omit it when the bill shows no separate energy figure. Confidence is your certainty the value is read correctly from the page, between 0 and 1.{{if .few_shot}}

{{.few_shot}}{{end}}`

const financialTemplate = `You are a utility invoice extraction assistant. Extract every charge line and the totals from the provided invoice pages. Commodity: {{.commodity}}. Billing locale: {{.country}}.

The structural data already extracted from this bill, for anchoring only:
{{.structural}}

Return ONLY valid JSON with no markdown formatting:
{
  "charges": [
    {
      "description": "",
      "category": "energy|demand|fixed|rider|tax|penalty|credit|adjustment|minimum|other",
      "owner": "utility|supplier|government|other",
      "section": "supply|distribution|taxes|other",
      "quantity": {"value": 0, "confidence": 0.0},
      "quantity_unit": "",
      "rate": {"value": 0, "confidence": 0.0},
      "amount": {"value": 0, "original_string": "", "confidence": 0.0},
      "vat": {"amount_net": 0, "vat_amount": 0, "amount_gross": 0, "rate": 0, "category": "standard|reduced|zero|exempt|reverse_charge"}
    }
  ],
  "section_subtotals": {"supply": 0, "distribution": 0, "taxes": 0, "other": 0},
  "current_charges": {"value": 0, "original_string": "", "confidence": 0.0},
  "previous_balance": {"value": 0, "original_string": "", "confidence": 0.0},
  "total_amount_due": {"value": 0, "original_string": "", "confidence": 0.0},
  "vat_summary": [{"rate": 0, "category": "", "taxable_base": 0, "vat_amount": 0}],
  "total_net": 0,
  "total_vat": 0,
  "total_gross": 0,
  "minimum_bill_applied": false
}

Extract EVERY charge line from every page. Do not skip, summarize, or merge lines. For amounts, original_string is the text exactly as printed including currency symbols and separators. VAT rates are percentages (19 means 19%). Omit the vat object entirely on bills without VAT.{{if .few_shot}}

{{.few_shot}}{{end}}`

const schemaMappingTemplate = `You are a utility invoice normalization assistant. Merge the two raw extraction payloads below into one canonical bill document. Resolve conflicts in favor of the financial payload for monetary values and the structural payload for identity and meter data. Do not invent values that appear in neither payload.

Structural payload:
{{.structural}}

Financial payload:
{{.financial}}

Return ONLY valid JSON with the same field names as the payloads, combined into one object with top-level keys: header fields, account fields, "meters", "charges", section and total fields.`

const auditTemplate = `You are an independent utility invoice auditor. Answer the questions below using ONLY what you can see on the provided invoice pages. Do not assume any prior extraction exists. If a question cannot be answered from the pages, answer "not_visible".

Questions:
{{.questions}}

Return ONLY valid JSON with no markdown formatting:
{
  "answers": [{"question_id": "", "answer": ""}]
}

Answer with bare values: plain numbers for amounts (no currency symbols), dates as printed, integers for counts.`
