package classify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gridbill/internal/classify"
	"gridbill/internal/domain"
	"gridbill/internal/ingest"
	"gridbill/internal/llm"
	"gridbill/internal/prompt"
	"gridbill/mocks"
)

func newClassifier(t *testing.T, client llm.Client) *classify.Classifier {
	t.Helper()
	prompts, err := prompt.NewRegistry()
	require.NoError(t, err)
	return classify.NewClassifier(client, prompts, zap.NewNop())
}

func germanGasIngest() *ingest.Result {
	return &ingest.Result{
		FileType:    domain.FileTypePDF,
		PageCount:   2,
		FullText:    "Gasrechnung Brennwert 11,2 kWh/m³ Arbeitspreis 0,0812 EUR Gesamtbetrag 1.234,56 €",
		Language:    "de",
		Payload:     []byte("%PDF-1.4 payload"),
		PayloadMIME: "application/pdf",
	}
}

func TestClassify(t *testing.T) {
	client := new(mocks.MockLLMClient)
	client.On("CompleteVision", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Meta.Stage == "classification" && req.JSONMode && len(req.Images) == 1
	})).Return(&llm.Response{
		Content: `{
			"commodity_type": "natural_gas",
			"signals": {"has_calorific_conversion": true, "has_supplier_split": true},
			"line_item_count": 12,
			"utility_name": "Stadtwerke München"
		}`,
		Model: "claude-sonnet-4",
	}, nil)

	out, err := newClassifier(t, client).Classify(context.Background(), germanGasIngest())
	require.NoError(t, err)

	assert.Equal(t, domain.CommodityNaturalGas, out.Classification.Commodity)
	assert.Equal(t, domain.ComplexityStandard, out.Classification.Complexity)
	assert.Equal(t, 3, out.Classification.Score)
	assert.True(t, out.Classification.Signals.HasCalorificConversion)
	assert.Equal(t, 12, out.Classification.LineItemCount)
	assert.Equal(t, 2, out.Classification.PageCount)
	assert.Equal(t, "DE", out.Classification.Locale.CountryCode)
	assert.Equal(t, domain.MarketLiberalizedEU, out.Classification.Market)
	assert.Equal(t, "Stadtwerke München", out.UtilityName)
	client.AssertExpectations(t)
}

func TestClassify_UnknownCommodityDefaultsToElectricity(t *testing.T) {
	client := new(mocks.MockLLMClient)
	client.On("CompleteVision", mock.Anything, mock.Anything).Return(&llm.Response{
		Content: `{"commodity_type": "district_heating", "line_item_count": 3}`,
	}, nil)

	out, err := newClassifier(t, client).Classify(context.Background(), germanGasIngest())
	require.NoError(t, err)
	assert.Equal(t, domain.CommodityElectricity, out.Classification.Commodity)
}

func TestClassify_RepairsSloppyJSON(t *testing.T) {
	client := new(mocks.MockLLMClient)
	client.On("CompleteVision", mock.Anything, mock.Anything).Return(&llm.Response{
		Content: "```json\n{\"commodity_type\": \"water\", \"line_item_count\": 4,}\n```",
	}, nil)

	out, err := newClassifier(t, client).Classify(context.Background(), germanGasIngest())
	require.NoError(t, err)
	assert.Equal(t, domain.CommodityWater, out.Classification.Commodity)
	assert.Equal(t, 4, out.Classification.LineItemCount)
}

func TestClassify_CallFailure(t *testing.T) {
	client := new(mocks.MockLLMClient)
	client.On("CompleteVision", mock.Anything, mock.Anything).Return(nil, errors.New("model overloaded"))

	out, err := newClassifier(t, client).Classify(context.Background(), germanGasIngest())
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestDefault(t *testing.T) {
	out := classify.Default(germanGasIngest())

	assert.Equal(t, domain.CommodityElectricity, out.Classification.Commodity)
	assert.Equal(t, domain.ComplexityStandard, out.Classification.Complexity)
	assert.Equal(t, "DE", out.Classification.Locale.CountryCode)
	assert.Empty(t, out.UtilityName)
}
