package classify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gridbill/internal/domain"
	"gridbill/internal/ingest"
	"gridbill/internal/llm"
	"gridbill/internal/locale"
	"gridbill/internal/prompt"
)

// Output is the classification pass result. UtilityName is carried
// separately because it keys few-shot context lookup before any
// structural extraction has run.
type Output struct {
	Classification domain.Classification
	UtilityName    string
}

// Classifier runs the vision classification pass over an ingested document.
type Classifier struct {
	client  llm.Client
	prompts *prompt.Registry
	logger  *zap.Logger
}

func NewClassifier(client llm.Client, prompts *prompt.Registry, logger *zap.Logger) *Classifier {
	return &Classifier{client: client, prompts: prompts, logger: logger}
}

type rawClassification struct {
	CommodityType string             `json:"commodity_type"`
	Signals       domain.SignalFlags `json:"signals"`
	LineItemCount int                `json:"line_item_count"`
	UtilityName   string             `json:"utility_name"`
}

// Classify asks the extraction model for commodity and structural signals,
// then derives locale, market model and complexity tier deterministically.
func (c *Classifier) Classify(ctx context.Context, ing *ingest.Result) (*Output, error) {
	rendered, err := c.prompts.Render(prompt.Classification, nil)
	if err != nil {
		return nil, fmt.Errorf("rendering classification prompt: %w", err)
	}

	resp, err := c.client.CompleteVision(ctx, llm.Request{
		Meta:      llm.CallMeta{Stage: "classification"},
		Prompt:    rendered,
		Images:    [][]byte{ing.Payload},
		ImageMIME: ing.PayloadMIME,
		JSONMode:  true,
		MaxTokens: 2048,
	})
	if err != nil {
		return nil, fmt.Errorf("classification call: %w", err)
	}

	var raw rawClassification
	if err := llm.ParseJSON(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parsing classification response: %w", err)
	}

	loc := locale.Detect(ing.FullText, ing.Language)
	score := ScoreComplexity(raw.Signals, raw.LineItemCount, ing.PageCount)

	cls := domain.Classification{
		Commodity:     parseCommodity(raw.CommodityType),
		Complexity:    TierFor(score),
		Signals:       raw.Signals,
		Market:        loc.MarketModel,
		Locale:        loc,
		LineItemCount: raw.LineItemCount,
		PageCount:     ing.PageCount,
		Score:         score,
	}

	c.logger.Info("document classified",
		zap.String("commodity", string(cls.Commodity)),
		zap.String("complexity", string(cls.Complexity)),
		zap.Int("score", score),
		zap.String("country", loc.CountryCode),
		zap.String("utility", raw.UtilityName))

	return &Output{Classification: cls, UtilityName: raw.UtilityName}, nil
}

// Default is the safe classification used when the classification call
// fails. The pipeline records the failure flag and proceeds with it.
func Default(ing *ingest.Result) *Output {
	loc := locale.Detect(ing.FullText, ing.Language)
	return &Output{
		Classification: domain.Classification{
			Commodity:  domain.CommodityElectricity,
			Complexity: domain.ComplexityStandard,
			Market:     loc.MarketModel,
			Locale:     loc,
			PageCount:  ing.PageCount,
		},
	}
}

func parseCommodity(s string) domain.CommodityType {
	switch domain.CommodityType(s) {
	case domain.CommodityElectricity, domain.CommodityNaturalGas, domain.CommodityWater, domain.CommodityMulti:
		return domain.CommodityType(s)
	default:
		return domain.CommodityElectricity
	}
}
