package domain

// FileType represents the allowed source document types.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// CommodityType identifies what the invoice bills for.
type CommodityType string

const (
	CommodityElectricity CommodityType = "electricity"
	CommodityNaturalGas  CommodityType = "natural_gas"
	CommodityWater       CommodityType = "water"
	CommodityMulti       CommodityType = "multi_commodity"
)

// ComplexityTier buckets invoices by structural difficulty. It selects
// confidence thresholds and audit depth downstream.
type ComplexityTier string

const (
	ComplexitySimple       ComplexityTier = "simple"
	ComplexityStandard     ComplexityTier = "standard"
	ComplexityComplex      ComplexityTier = "complex"
	ComplexityPathological ComplexityTier = "pathological"
)

// ConfidenceTier is the review-routing outcome for an extraction.
type ConfidenceTier string

const (
	TierAutoAccept     ConfidenceTier = "auto_accept"
	TierTargetedReview ConfidenceTier = "targeted_review"
	TierFullReview     ConfidenceTier = "full_review"
)

// ChargeCategory classifies a billed line item.
type ChargeCategory string

const (
	ChargeCategoryEnergy     ChargeCategory = "energy"
	ChargeCategoryDemand     ChargeCategory = "demand"
	ChargeCategoryFixed      ChargeCategory = "fixed"
	ChargeCategoryRider      ChargeCategory = "rider"
	ChargeCategoryTax        ChargeCategory = "tax"
	ChargeCategoryPenalty    ChargeCategory = "penalty"
	ChargeCategoryCredit     ChargeCategory = "credit"
	ChargeCategoryAdjustment ChargeCategory = "adjustment"
	ChargeCategoryMinimum    ChargeCategory = "minimum"
	ChargeCategoryOther      ChargeCategory = "other"
)

// ChargeOwner names the party the charge is owed to.
type ChargeOwner string

const (
	ChargeOwnerUtility    ChargeOwner = "utility"
	ChargeOwnerSupplier   ChargeOwner = "supplier"
	ChargeOwnerGovernment ChargeOwner = "government"
	ChargeOwnerOther      ChargeOwner = "other"
)

// ChargeSection places a charge within the bill's section structure.
type ChargeSection string

const (
	SectionSupply       ChargeSection = "supply"
	SectionDistribution ChargeSection = "distribution"
	SectionTaxes        ChargeSection = "taxes"
	SectionOther        ChargeSection = "other"
)

// ReadType describes how a meter reading was obtained.
type ReadType string

const (
	ReadTypeActual    ReadType = "actual"
	ReadTypeEstimated ReadType = "estimated"
	ReadTypeCustomer  ReadType = "customer"
)

// MathDisposition summarizes the outcome of a line-level or document-level
// arithmetic check.
type MathDisposition string

const (
	MathClean             MathDisposition = "clean"
	MathRoundingVariance  MathDisposition = "rounding_variance"
	MathMinimumBill       MathDisposition = "minimum_bill"
	MathUtilityAdjustment MathDisposition = "utility_adjustment"
	MathDiscrepancy       MathDisposition = "discrepancy"
)

// VATCategory is the VAT treatment of a charge.
type VATCategory string

const (
	VATStandard      VATCategory = "standard"
	VATReduced       VATCategory = "reduced"
	VATZero          VATCategory = "zero"
	VATExempt        VATCategory = "exempt"
	VATReverseCharge VATCategory = "reverse_charge"
)

// TaxRegime selects which tax validators apply.
type TaxRegime string

const (
	RegimeUSSalesTax TaxRegime = "us_sales_tax"
	RegimeEUVAT      TaxRegime = "eu_vat"
	RegimeUKVAT      TaxRegime = "uk_vat"
	RegimeMXIVA      TaxRegime = "mx_iva"
)

// MarketModel describes how the jurisdiction's energy market is organized.
type MarketModel string

const (
	MarketRegulated     MarketModel = "regulated"
	MarketDeregulated   MarketModel = "deregulated"
	MarketLiberalizedEU MarketModel = "liberalized_eu"
	MarketUnknown       MarketModel = "unknown"
)

// IssueSeverity grades a validation finding.
type IssueSeverity string

const (
	SeverityFatal   IssueSeverity = "fatal"
	SeverityWarning IssueSeverity = "warning"
	SeverityInfo    IssueSeverity = "info"
)

// MismatchSeverity grades an audit reconciliation mismatch. It shares the
// confidence engine's field-weight scale.
type MismatchSeverity string

const (
	MismatchFatal  MismatchSeverity = "fatal"
	MismatchHigh   MismatchSeverity = "high"
	MismatchMedium MismatchSeverity = "medium"
	MismatchLow    MismatchSeverity = "low"
)

// ExtractionStatus is the lifecycle of a queued document.
type ExtractionStatus string

const (
	ExtractionStatusPending    ExtractionStatus = "pending"
	ExtractionStatusProcessing ExtractionStatus = "processing"
	ExtractionStatusCompleted  ExtractionStatus = "completed"
	ExtractionStatusFailed     ExtractionStatus = "failed"
)
