package validator

import (
	"context"

	"go.uber.org/zap"

	"gridbill/internal/domain"
	"gridbill/internal/locale"
)

// Engine runs the deterministic validation battery over a merged document.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEngine creates a validation engine over a populated registry.
func NewEngine(registry *Registry, logger *zap.Logger) *Engine {
	return &Engine{registry: registry, logger: logger}
}

// Run executes every applicable rule and folds the issues into a report.
// Rules observe the document; only the math rule annotates charges with
// their MathCheck outcome.
func (e *Engine) Run(ctx context.Context, doc *domain.BillDocument, cls domain.Classification) domain.ValidationReport {
	in := &Input{
		Document:       doc,
		Classification: cls,
		Tolerance:      locale.ToleranceFor(cls.Locale.CountryCode),
	}

	var issues []domain.ValidationIssue
	for _, v := range e.registry.All() {
		if !v.Applies(in) {
			continue
		}
		issues = append(issues, v.Validate(ctx, in)...)
	}

	report := domain.ValidationReport{
		Issues:      issues,
		Disposition: dispositionFor(issues),
	}

	e.logger.Info("validation complete",
		zap.Int("issues", len(issues)),
		zap.String("disposition", string(report.Disposition)))

	return report
}

func dispositionFor(issues []domain.ValidationIssue) domain.MathDisposition {
	hasWarning := false
	for _, is := range issues {
		switch is.Severity {
		case domain.SeverityFatal:
			return domain.MathDiscrepancy
		case domain.SeverityWarning:
			hasWarning = true
		}
	}
	if hasWarning {
		return domain.MathRoundingVariance
	}
	return domain.MathClean
}
