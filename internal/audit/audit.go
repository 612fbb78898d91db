package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gridbill/internal/domain"
	"gridbill/internal/ingest"
	"gridbill/internal/llm"
	"gridbill/internal/prompt"
)

// Auditor runs Pass 4 against a model independent of the extraction model.
// It sees only the raw document, never the extraction output; the two meet
// in Compare.
type Auditor struct {
	client  llm.Client
	prompts *prompt.Registry
	logger  *zap.Logger
}

func NewAuditor(client llm.Client, prompts *prompt.Registry, logger *zap.Logger) *Auditor {
	return &Auditor{client: client, prompts: prompts, logger: logger}
}

type rawAuditResponse struct {
	Answers []domain.AuditAnswer `json:"answers"`
}

// Run asks the audit model the assembled questions and reconciles the
// scored answers against the merged document.
func (a *Auditor) Run(ctx context.Context, ing *ingest.Result, cls domain.Classification, doc *domain.BillDocument) (*domain.AuditReport, error) {
	questions := BuildQuestions(cls)

	rendered, err := a.prompts.Render(prompt.Audit, map[string]string{
		"questions": FormatQuestions(questions),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering audit prompt: %w", err)
	}

	resp, err := a.client.CompleteVision(ctx, llm.Request{
		Meta:      llm.CallMeta{Stage: "audit"},
		Prompt:    rendered,
		Images:    [][]byte{ing.Payload},
		ImageMIME: ing.PayloadMIME,
		JSONMode:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("audit call: %w", err)
	}

	var raw rawAuditResponse
	if err := llm.ParseJSON(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parsing audit response: %w", err)
	}

	byID := make(map[string]string, len(questions))
	for _, q := range questions {
		byID[q.ID] = q.Text
	}
	answers := make([]domain.AuditAnswer, 0, len(raw.Answers))
	for _, ans := range raw.Answers {
		ans.Question = byID[ans.QuestionID]
		answers = append(answers, ans)
	}

	report := &domain.AuditReport{
		Model:      a.client.Model(),
		Answers:    answers,
		Mismatches: Compare(doc, answers, cls.Locale),
	}

	a.logger.Info("audit complete",
		zap.String("model", report.Model),
		zap.Int("questions", len(questions)),
		zap.Int("answers", len(answers)),
		zap.Int("mismatches", len(report.Mismatches)))

	return report, nil
}
