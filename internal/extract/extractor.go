package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gridbill/internal/domain"
	"gridbill/internal/ingest"
	"gridbill/internal/llm"
	"gridbill/internal/prompt"
)

// Extractor runs the extraction passes against the primary model.
type Extractor struct {
	client  llm.Client
	prompts *prompt.Registry
	logger  *zap.Logger
}

func NewExtractor(client llm.Client, prompts *prompt.Registry, logger *zap.Logger) *Extractor {
	return &Extractor{client: client, prompts: prompts, logger: logger}
}

// ExtractStructural runs Pass 1A. The returned string is the model's JSON
// payload verbatim; the financial pass anchors on it and the schema mapping
// pass merges it.
func (e *Extractor) ExtractStructural(ctx context.Context, ing *ingest.Result, cls domain.Classification, fewShot string) (*RawStructural, string, error) {
	rendered, err := e.prompts.Render(prompt.Structural, map[string]string{
		"commodity": string(cls.Commodity),
		"country":   cls.Locale.CountryCode,
		"few_shot":  fewShot,
	})
	if err != nil {
		return nil, "", fmt.Errorf("rendering structural prompt: %w", err)
	}

	resp, err := e.client.CompleteVision(ctx, llm.Request{
		Meta:      llm.CallMeta{Stage: "structural"},
		Prompt:    rendered,
		Images:    [][]byte{ing.Payload},
		ImageMIME: ing.PayloadMIME,
		JSONMode:  true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("structural extraction call: %w", err)
	}

	var raw RawStructural
	if err := llm.ParseJSON(resp.Content, &raw); err != nil {
		return nil, "", fmt.Errorf("parsing structural response: %w", err)
	}

	e.logger.Debug("structural pass complete",
		zap.String("utility", raw.UtilityName.Value),
		zap.Int("meters", len(raw.Meters)),
		zap.Int("output_tokens", resp.OutputTokens))

	return &raw, resp.Content, nil
}

// ExtractFinancial runs Pass 1B with the structural payload as anchoring
// context so both passes agree on which meters and pages they describe.
func (e *Extractor) ExtractFinancial(ctx context.Context, ing *ingest.Result, cls domain.Classification, structuralJSON, fewShot string) (*RawFinancial, string, error) {
	rendered, err := e.prompts.Render(prompt.Financial, map[string]string{
		"commodity":  string(cls.Commodity),
		"country":    cls.Locale.CountryCode,
		"structural": structuralJSON,
		"few_shot":   fewShot,
	})
	if err != nil {
		return nil, "", fmt.Errorf("rendering financial prompt: %w", err)
	}

	resp, err := e.client.CompleteVision(ctx, llm.Request{
		Meta:      llm.CallMeta{Stage: "financial"},
		Prompt:    rendered,
		Images:    [][]byte{ing.Payload},
		ImageMIME: ing.PayloadMIME,
		JSONMode:  true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("financial extraction call: %w", err)
	}

	var raw RawFinancial
	if err := llm.ParseJSON(resp.Content, &raw); err != nil {
		return nil, "", fmt.Errorf("parsing financial response: %w", err)
	}

	e.logger.Debug("financial pass complete",
		zap.Int("charges", len(raw.Charges)),
		zap.Int("output_tokens", resp.OutputTokens))

	return &raw, resp.Content, nil
}
