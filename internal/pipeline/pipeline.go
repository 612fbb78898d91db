package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gridbill/internal/audit"
	"gridbill/internal/classify"
	"gridbill/internal/confidence"
	"gridbill/internal/domain"
	"gridbill/internal/extract"
	"gridbill/internal/ingest"
	"gridbill/internal/locale"
	"gridbill/internal/port"
	"gridbill/internal/prompt"
	"gridbill/internal/validator"
)

// Pipeline runs one document through every pass sequentially. It is
// stateless per run; callers process N documents with N independent calls.
type Pipeline struct {
	ingestor   *ingest.Ingestor
	classifier *classify.Classifier
	extractor  *extract.Extractor
	validation *validator.Engine
	auditor    *audit.Auditor
	fewShot    port.FewShotProvider
	prompts    *prompt.Registry
	logger     *zap.Logger

	extractionModel string
	auditModel      string
}

func New(
	ingestor *ingest.Ingestor,
	classifier *classify.Classifier,
	extractor *extract.Extractor,
	validation *validator.Engine,
	auditor *audit.Auditor,
	fewShot port.FewShotProvider,
	prompts *prompt.Registry,
	extractionModel, auditModel string,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		ingestor:        ingestor,
		classifier:      classifier,
		extractor:       extractor,
		validation:      validation,
		auditor:         auditor,
		fewShot:         fewShot,
		prompts:         prompts,
		extractionModel: extractionModel,
		auditModel:      auditModel,
		logger:          logger,
	}
}

// Process runs the full pipeline over one document. Every stage after
// ingestion degrades instead of aborting: a failed stage appends a
// "<stage>_failed" flag and substitutes a safe default so the document
// still reaches human triage with a score. Callers must inspect Flags
// before trusting the tier.
func (p *Pipeline) Process(ctx context.Context, raw []byte, documentID string) (*domain.ExtractionResult, error) {
	start := time.Now()
	if documentID == "" {
		documentID = uuid.NewString()
	}
	var flags []string

	ing, err := p.ingestor.Ingest(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("ingesting document: %w", err)
	}

	clsOut, err := p.classifier.Classify(ctx, ing)
	if err != nil {
		p.logger.Warn("classification failed, using default", zap.String("document_id", documentID), zap.Error(err))
		flags = append(flags, "classification_failed")
		clsOut = classify.Default(ing)
	}
	cls := clsOut.Classification

	fewShotBlock, fewShotHash := "", ""
	if p.fewShot != nil {
		fewShotBlock, fewShotHash, err = p.fewShot.Context(ctx, clsOut.UtilityName, cls.Commodity)
		if err != nil {
			p.logger.Warn("few-shot context failed, extracting without it", zap.String("document_id", documentID), zap.Error(err))
			flags = append(flags, "few_shot_failed")
			fewShotBlock, fewShotHash = "", ""
		}
	}

	rawSt, stJSON, err := p.extractor.ExtractStructural(ctx, ing, cls, fewShotBlock)
	if err != nil {
		p.logger.Warn("structural extraction failed", zap.String("document_id", documentID), zap.Error(err))
		flags = append(flags, "structural_failed")
		rawSt, stJSON = &extract.RawStructural{}, "{}"
	}

	rawFin, finJSON, err := p.extractor.ExtractFinancial(ctx, ing, cls, stJSON, fewShotBlock)
	if err != nil {
		p.logger.Warn("financial extraction failed", zap.String("document_id", documentID), zap.Error(err))
		flags = append(flags, "financial_failed")
		rawFin, finJSON = &extract.RawFinancial{}, "{}"
	}

	doc, err := p.extractor.MapSchema(ctx, stJSON, finJSON, cls)
	if err != nil {
		p.logger.Warn("schema mapping failed, merging deterministically", zap.String("document_id", documentID), zap.Error(err))
		flags = append(flags, "schema_mapping_failed")
		doc = extract.BuildDocument(rawSt, rawFin, cls)
	}

	report := p.validation.Run(ctx, doc, cls)

	auditRep, err := p.auditor.Run(ctx, ing, cls, doc)
	if err != nil {
		p.logger.Warn("audit failed", zap.String("document_id", documentID), zap.Error(err))
		flags = append(flags, "audit_failed")
		auditRep = nil
	}

	conf := confidence.Compute(confidence.Input{
		Document:     doc,
		Validation:   report,
		Audit:        auditRep,
		Complexity:   cls.Complexity,
		ImageQuality: ing.ImageQuality,
		OCRApplied:   ing.OCRApplied,
	})
	structured := ing.Structured != nil
	if cls.Locale.CountryCode != "US" {
		conf = confidence.ApplyInternational(conf, cls.Complexity, confidence.InternationalInput{
			Locale:         cls.Locale,
			Validation:     report,
			AmbiguousDates: countAmbiguousDates(rawSt),
			Structured:     structured,
		})
	}
	// Degraded means a stage was skipped or fell back, not that validation
	// condemned the document. The fatal flag is routing signal only.
	degraded := len(flags) > 0
	if conf.FatalTriggered {
		flags = append(flags, "fatal_triggered")
	}

	result := &domain.ExtractionResult{
		Metadata: domain.ExtractionMetadata{
			ExtractionID:       documentID,
			ExtractionTime:     time.Now().UTC(),
			ProcessingTimeMS:   time.Since(start).Milliseconds(),
			ExtractionModel:    p.extractionModel,
			AuditModel:         p.auditModel,
			PromptVersions:     p.prompts.Versions(),
			FewShotContextHash: fewShotHash,
			SourceSHA256:       ing.SHA256,
			PageCount:          ing.PageCount,
			ImageQuality:       ing.ImageQuality,
			OCRApplied:         ing.OCRApplied,
		},
		Classification:  cls,
		Document:        *doc,
		Validation:      report,
		ConfidenceScore: conf.Score,
		ConfidenceTier:  conf.Tier,
		Penalties:       conf.Penalties,
		Flags:           flags,
		Degraded:        degraded,
		StructuredBonus: structured,
	}
	if auditRep != nil {
		result.Audit = *auditRep
	}

	p.logger.Info("pipeline complete",
		zap.String("document_id", documentID),
		zap.String("commodity", string(cls.Commodity)),
		zap.String("tier", string(conf.Tier)),
		zap.Float64("score", conf.Score),
		zap.Strings("flags", flags),
		zap.Int64("elapsed_ms", result.Metadata.ProcessingTimeMS))

	return result, nil
}

// countAmbiguousDates counts printed dates that parse under both day-first
// and month-first readings.
func countAmbiguousDates(st *extract.RawStructural) int {
	count := 0
	check := func(raw string) {
		if raw != "" && locale.IsDateAmbiguous(raw) {
			count++
		}
	}
	check(st.InvoiceDate)
	check(st.BillingPeriodStart)
	check(st.BillingPeriodEnd)
	for i := range st.Meters {
		check(st.Meters[i].PreviousReadDate)
		check(st.Meters[i].CurrentReadDate)
	}
	return count
}
