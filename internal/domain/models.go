package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FileMeta represents an uploaded source document in object storage.
type FileMeta struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FileName    string    `db:"file_name" json:"file_name"`
	FileType    FileType  `db:"file_type" json:"file_type"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	SHA256      string    `db:"sha256" json:"sha256"`
	StorageKey  string    `db:"storage_key" json:"storage_key"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// ExtractionRecord is the persisted lifecycle row for one document run
// through the pipeline. Result holds the assembled ExtractionResult as JSON.
type ExtractionRecord struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	FileID           uuid.UUID        `db:"file_id" json:"file_id"`
	UtilityName      string           `db:"utility_name" json:"utility_name"`
	Commodity        CommodityType    `db:"commodity_type" json:"commodity_type"`
	Complexity       ComplexityTier   `db:"complexity_tier" json:"complexity_tier"`
	ConfidenceScore  float64          `db:"confidence_score" json:"confidence_score"`
	ConfidenceTier   ConfidenceTier   `db:"confidence_tier" json:"confidence_tier"`
	Status           ExtractionStatus `db:"status" json:"status"`
	Error            string           `db:"error" json:"error,omitempty"`
	Result           json.RawMessage  `db:"result" json:"result,omitempty"`
	Flags            []string         `db:"-" json:"flags,omitempty"`
	FlagsRaw         json.RawMessage  `db:"flags" json:"-"`
	ExtractionModel  string           `db:"extraction_model" json:"extraction_model"`
	AuditModel       string           `db:"audit_model" json:"audit_model"`
	ProcessingTimeMS int64            `db:"processing_time_ms" json:"processing_time_ms"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
	CompletedAt      *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}

// Correction is one reviewer fix of an extracted field. Recurring corrections
// feed few-shot prompt context for future extractions.
type Correction struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	ExtractionID   uuid.UUID     `db:"extraction_id" json:"extraction_id"`
	UtilityName    string        `db:"utility_name" json:"utility_name"`
	Commodity      CommodityType `db:"commodity_type" json:"commodity_type"`
	FieldPath      string        `db:"field_path" json:"field_path"`
	ExtractedValue string        `db:"extracted_value" json:"extracted_value"`
	CorrectedValue string        `db:"corrected_value" json:"corrected_value"`
	Pattern        string        `db:"pattern" json:"pattern"`
	Note           string        `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// DriftBaseline pins a reference extraction for a physical document so a
// reprocessing run can be compared against it.
type DriftBaseline struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	SourceSHA256 string          `db:"source_sha256" json:"source_sha256"`
	ExtractionID uuid.UUID       `db:"extraction_id" json:"extraction_id"`
	Result       json.RawMessage `db:"result" json:"result"`
	Model        string          `db:"model" json:"model"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// DriftDifference is one field-level change between two runs.
type DriftDifference struct {
	FieldPath     string           `json:"field_path"`
	BaselineValue string           `json:"baseline_value"`
	CurrentValue  string           `json:"current_value"`
	Severity      MismatchSeverity `json:"severity"`
}

// DriftReport is the outcome of comparing a rerun against its baseline.
type DriftReport struct {
	SourceSHA256    string            `json:"source_sha256"`
	BaselineID      uuid.UUID         `json:"baseline_id"`
	Differences     []DriftDifference `json:"differences"`
	WorstSeverity   MismatchSeverity  `json:"worst_severity"`
	CauseHypotheses []string          `json:"cause_hypotheses,omitempty"`
	ComparedAt      time.Time         `json:"compared_at"`
}
