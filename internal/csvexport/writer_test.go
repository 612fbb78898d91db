package csvexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 24)
	assert.Equal(t, "Extraction ID", row[0])
	assert.Equal(t, "Utility", row[1])
	assert.Equal(t, "Created At", row[23])
}

func TestWriteExtractions_Completed(t *testing.T) {
	invoiceDate := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	periodStart := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	res := domain.ExtractionResult{
		Classification: domain.Classification{
			Locale: domain.LocaleInfo{CountryCode: "US", CurrencyCode: "USD"},
		},
		Document: domain.BillDocument{
			Header: domain.BillHeader{
				InvoiceNumber: domain.ConfidentString{Value: "9001-223", Confidence: 0.98},
				InvoiceDate:   &invoiceDate,
			},
			Account: domain.Account{
				AccountNumber:      domain.ConfidentString{Value: "4412-88-102", Confidence: 0.97},
				BillingPeriodStart: &periodStart,
				BillingPeriodEnd:   &periodEnd,
			},
			Meters: []domain.Meter{
				{MeterID: "M-1", Multiplier: 1},
				{MeterID: "M-2", Multiplier: 1},
			},
			Charges: []domain.Charge{
				{Description: "Energy charge"},
				{Description: "Basic service"},
				{Description: "State tax"},
			},
			Totals: domain.Totals{
				TotalAmountDue: domain.MonetaryAmount{Value: 184.27, Currency: "USD"},
			},
		},
		Validation: domain.ValidationReport{
			Issues: []domain.ValidationIssue{{Field: "charges[0].amount"}},
		},
		Audit:    domain.AuditReport{},
		Degraded: false,
	}
	result, err := json.Marshal(res)
	require.NoError(t, err)

	createdAt := time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC)
	rec := domain.ExtractionRecord{
		ID:               uuid.MustParse("5aa7df31-0de7-4a9b-92cb-01b0c0b7a001"),
		UtilityName:      "Pacific Gas & Electric",
		Commodity:        domain.CommodityElectricity,
		Complexity:       domain.ComplexityStandard,
		ConfidenceScore:  0.9234,
		ConfidenceTier:   domain.TierTargetedReview,
		Status:           domain.ExtractionStatusCompleted,
		Result:           result,
		Flags:            []string{"audit_failed"},
		ExtractionModel:  "claude-sonnet-4-20250514",
		ProcessingTimeMS: 18421,
		CreatedAt:        createdAt,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteExtractions([]domain.ExtractionRecord{rec}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 24)
	assert.Equal(t, "5aa7df31-0de7-4a9b-92cb-01b0c0b7a001", row[0])
	assert.Equal(t, "Pacific Gas & Electric", row[1])
	assert.Equal(t, "electricity", row[2])
	assert.Equal(t, "standard", row[3])
	assert.Equal(t, "completed", row[4])
	assert.Equal(t, "0.9234", row[5])
	assert.Equal(t, "targeted_review", row[6])
	assert.Equal(t, "No", row[7])
	assert.Equal(t, "audit_failed", row[8])
	assert.Equal(t, "9001-223", row[9])
	assert.Equal(t, "2025-03-12", row[10])
	assert.Equal(t, "4412-88-102", row[11])
	assert.Equal(t, "2025-02-10", row[12])
	assert.Equal(t, "2025-03-11", row[13])
	assert.Equal(t, "US", row[14])
	assert.Equal(t, "USD", row[15])
	assert.Equal(t, "184.27", row[16])
	assert.Equal(t, "2", row[17])
	assert.Equal(t, "3", row[18])
	assert.Equal(t, "1", row[19])
	assert.Equal(t, "0", row[20])
	assert.Equal(t, "claude-sonnet-4-20250514", row[21])
	assert.Equal(t, "18421", row[22])
	assert.Equal(t, "2025-03-13T08:00:00Z", row[23])
}

func TestWriteExtractions_Pending(t *testing.T) {
	createdAt := time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC)
	rec := domain.ExtractionRecord{
		ID:        uuid.New(),
		Status:    domain.ExtractionStatusPending,
		CreatedAt: createdAt,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteExtractions([]domain.ExtractionRecord{rec}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 24)
	assert.Equal(t, "pending", row[4])
	// Document columns should be empty until the extraction completes
	for i := 9; i <= 20; i++ {
		assert.Empty(t, row[i], "column %d should be empty for pending extraction", i)
	}
	assert.Equal(t, "2025-03-13T08:00:00Z", row[23])
}

func TestWriteExtractions_MalformedResult(t *testing.T) {
	rec := domain.ExtractionRecord{
		ID:        uuid.New(),
		Status:    domain.ExtractionStatusCompleted,
		Result:    json.RawMessage(`{invalid json`),
		CreatedAt: time.Now(),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteExtractions([]domain.ExtractionRecord{rec}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 24)
	assert.Equal(t, "completed", row[4])
	// Document columns should be empty when the stored result does not parse
	for i := 9; i <= 20; i++ {
		assert.Empty(t, row[i], "column %d should be empty for malformed result", i)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "March Electricity Bills", "March_Electricity_Bills"},
		{"special chars", "FY 2024-25 / Q3 (Oct–Dec)", "FY_2024-25_Q3_Oct_Dec"},
		{"unicode", "Stadtwerke München Exporte", "Stadtwerke_M_nchen_Exporte"},
		{"hyphens and underscores preserved", "my-export_2025", "my-export_2025"},
		{"consecutive underscores collapsed", "test___export", "test_export"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{
			"long name truncated",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-extra",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrs",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	filename := BuildFilename("March Electricity Bills")
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, "March_Electricity_Bills_"+today+".csv", filename)
}
