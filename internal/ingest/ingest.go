package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"gridbill/internal/domain"
	"gridbill/internal/locale"
	"gridbill/internal/port"
)

// PageInfo is the extracted text and quality estimate for one page.
type PageInfo struct {
	Number      int     `json:"number"`
	Text        string  `json:"text"`
	TextQuality float64 `json:"text_quality"`
}

// Result is the Pass 0 output. Payload carries the bytes later sent to
// vision models (the whole PDF, or the single source image).
type Result struct {
	FileType     domain.FileType
	ContentType  string
	SHA256       string
	PageCount    int
	Pages        []PageInfo
	FullText     string
	Language     string
	ImageQuality float64
	OCRApplied   bool
	Structured   *locale.StructuredInvoice
	Payload      []byte
	PayloadMIME  string
}

// Ingestor runs Pass 0: file-type detection, hashing, page text extraction,
// quality scoring and language detection. Ingestion is the only stage whose
// failure aborts a pipeline run.
type Ingestor struct {
	ocr    port.OCREngine
	logger *zap.Logger
}

// NewIngestor creates an Ingestor. ocr may be a no-op engine.
func NewIngestor(ocr port.OCREngine, logger *zap.Logger) *Ingestor {
	return &Ingestor{ocr: ocr, logger: logger}
}

// Ingest reads a raw uploaded document and produces the Pass 0 result.
func (i *Ingestor) Ingest(ctx context.Context, raw []byte) (*Result, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("ingest: %w", domain.ErrEmptyDocument)
	}

	fileType, contentType, err := detectFileType(raw)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	sum := sha256.Sum256(raw)
	res := &Result{
		FileType:    fileType,
		ContentType: contentType,
		SHA256:      hex.EncodeToString(sum[:]),
		Payload:     raw,
		PayloadMIME: contentType,
	}

	switch fileType {
	case domain.FileTypePDF:
		if err := i.ingestPDF(ctx, raw, res); err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}
	default:
		if err := i.ingestImage(ctx, raw, res); err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}
	}

	res.Language = detectLanguage(res.FullText)
	res.Structured = locale.DetectStructuredInvoice(raw)

	i.logger.Debug("document ingested",
		zap.String("file_type", string(res.FileType)),
		zap.Int("pages", res.PageCount),
		zap.String("language", res.Language),
		zap.Float64("image_quality", res.ImageQuality),
		zap.Bool("ocr_applied", res.OCRApplied),
	)
	return res, nil
}

func (i *Ingestor) ingestPDF(ctx context.Context, raw []byte, res *Result) error {
	pages, err := extractPDFPages(raw)
	if err != nil {
		return err
	}
	res.PageCount = len(pages)
	res.Pages = pages

	var full bytes.Buffer
	for _, p := range pages {
		if full.Len() > 0 {
			full.WriteByte('\n')
		}
		full.WriteString(p.Text)
	}
	res.FullText = full.String()
	res.ImageQuality = estimateImageQuality(res.FullText, res.PageCount)

	// Scanned PDFs carry little or no text layer. Run OCR when available.
	if needsOCR(res.FullText, res.PageCount) {
		text, applied, ocrErr := i.ocr.Recognize(ctx, raw, res.ContentType)
		if ocrErr != nil {
			i.logger.Warn("ocr failed, continuing with extracted text", zap.Error(ocrErr))
		} else if applied {
			res.OCRApplied = true
			res.FullText = text
			res.ImageQuality = estimateImageQuality(text, res.PageCount)
		}
	}
	return nil
}

func (i *Ingestor) ingestImage(ctx context.Context, raw []byte, res *Result) error {
	res.PageCount = 1
	text, applied, err := i.ocr.Recognize(ctx, raw, res.ContentType)
	if err != nil {
		i.logger.Warn("ocr failed for image document", zap.Error(err))
	} else if applied {
		res.OCRApplied = true
		res.FullText = text
	}
	quality := 0.5
	if res.FullText != "" {
		quality = estimateImageQuality(res.FullText, 1)
	}
	res.ImageQuality = quality
	res.Pages = []PageInfo{{Number: 1, Text: res.FullText, TextQuality: quality}}
	return nil
}

var (
	pdfMagic  = []byte("%PDF-")
	pngMagic  = []byte{0x89, 'P', 'N', 'G'}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

func detectFileType(raw []byte) (domain.FileType, string, error) {
	switch {
	case bytes.HasPrefix(raw, pdfMagic):
		return domain.FileTypePDF, "application/pdf", nil
	case bytes.HasPrefix(raw, pngMagic):
		return domain.FileTypePNG, "image/png", nil
	case bytes.HasPrefix(raw, jpegMagic):
		return domain.FileTypeJPG, "image/jpeg", nil
	}
	return "", "", domain.ErrUnsupportedFileType
}

// needsOCR mirrors the usual scanned-bill signature: almost no text layer
// across the document.
func needsOCR(text string, pageCount int) bool {
	if pageCount == 0 {
		return true
	}
	return float64(len([]rune(text)))/float64(pageCount) < 50
}
