package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gridbill/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (24 columns).
var columns = []string{
	"Extraction ID",
	"Utility",
	"Commodity",
	"Complexity",
	"Status",
	"Confidence Score",
	"Review Tier",
	"Degraded",
	"Flags",
	"Invoice Number",
	"Invoice Date",
	"Account Number",
	"Billing Period Start",
	"Billing Period End",
	"Country",
	"Currency",
	"Total Amount Due",
	"Meter Count",
	"Charge Count",
	"Validation Issues",
	"Audit Mismatches",
	"Extraction Model",
	"Processing Time (ms)",
	"Created At",
}

// Writer wraps csv.Writer for exporting extraction records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 24-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteExtractions converts a batch of extraction records to CSV rows and
// writes them.
func (w *Writer) WriteExtractions(recs []domain.ExtractionRecord) error {
	for i := range recs {
		row := extractionToRow(&recs[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// extractionToRow converts a single record to a 24-element string slice.
// If the extraction has not completed or its stored result is invalid, the
// metadata columns are filled and document columns are left empty.
func extractionToRow(rec *domain.ExtractionRecord) []string {
	row := make([]string, len(columns))

	row[0] = rec.ID.String()
	row[1] = rec.UtilityName
	row[2] = string(rec.Commodity)
	row[3] = string(rec.Complexity)
	row[4] = string(rec.Status)
	row[5] = strconv.FormatFloat(rec.ConfidenceScore, 'f', 4, 64)
	row[6] = string(rec.ConfidenceTier)
	row[8] = strings.Join(rec.Flags, ";")
	row[21] = rec.ExtractionModel
	row[22] = strconv.FormatInt(rec.ProcessingTimeMS, 10)
	row[23] = rec.CreatedAt.Format(time.RFC3339)

	if rec.Status != domain.ExtractionStatusCompleted || len(rec.Result) == 0 {
		return row
	}

	var res domain.ExtractionResult
	if err := json.Unmarshal(rec.Result, &res); err != nil {
		return row
	}

	row[7] = formatBool(res.Degraded)
	row[9] = res.Document.Header.InvoiceNumber.Value
	row[10] = formatTime(res.Document.Header.InvoiceDate)
	row[11] = res.Document.Account.AccountNumber.Value
	row[12] = formatTime(res.Document.Account.BillingPeriodStart)
	row[13] = formatTime(res.Document.Account.BillingPeriodEnd)
	row[14] = res.Classification.Locale.CountryCode
	row[15] = res.Document.Totals.TotalAmountDue.Currency
	row[16] = formatMoney(res.Document.Totals.TotalAmountDue.Value)
	row[17] = strconv.Itoa(len(res.Document.Meters))
	row[18] = strconv.Itoa(len(res.Document.Charges))
	row[19] = strconv.Itoa(len(res.Validation.Issues))
	row[20] = strconv.Itoa(len(res.Audit.Mismatches))

	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
