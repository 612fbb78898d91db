package validator

import (
	"context"

	"gridbill/internal/domain"
	"gridbill/internal/locale"
)

// Input carries everything a rule needs for one document. Tolerance is
// resolved from the rounding table once per run; rules must never hardcode
// monetary tolerances.
type Input struct {
	Document       *domain.BillDocument
	Classification domain.Classification
	Tolerance      locale.Tolerance
}

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	RuleID() string
	RuleName() string
	Applies(in *Input) bool
	Validate(ctx context.Context, in *Input) []domain.ValidationIssue
}
