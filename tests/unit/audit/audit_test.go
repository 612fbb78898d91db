package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gridbill/internal/audit"
	"gridbill/internal/domain"
	"gridbill/internal/ingest"
	"gridbill/internal/llm"
	"gridbill/internal/prompt"
	"gridbill/mocks"
)

func TestRun(t *testing.T) {
	client := new(mocks.MockLLMClient)
	client.On("Model").Return("gpt-4o")
	client.On("CompleteVision", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Meta.Stage == "audit" && req.JSONMode
	})).Return(&llm.Response{
		Content: `{"answers": [
			{"question_id": "total_due", "answer": "184.27"},
			{"question_id": "meter_count", "answer": "1"},
			{"question_id": "account_number", "answer": "1023456789"}
		]}`,
	}, nil)

	prompts, err := prompt.NewRegistry()
	require.NoError(t, err)

	doc := &domain.BillDocument{
		Account: domain.Account{AccountNumber: domain.ConfidentString{Value: "1023456789"}},
		Meters:  []domain.Meter{{MeterID: "E-1"}, {MeterID: "E-2"}},
		Totals:  domain.Totals{TotalAmountDue: domain.MonetaryAmount{Value: 184.27}},
	}
	ing := &ingest.Result{Payload: []byte("%PDF-1.4"), PayloadMIME: "application/pdf"}
	cls := domain.Classification{
		Commodity:  domain.CommodityElectricity,
		Complexity: domain.ComplexitySimple,
		Locale:     domain.LocaleInfo{CountryCode: "US", TaxRegime: domain.RegimeUSSalesTax},
	}

	report, err := audit.NewAuditor(client, prompts, zap.NewNop()).Run(context.Background(), ing, cls, doc)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", report.Model)
	assert.Len(t, report.Answers, 3)
	assert.Equal(t, "What is the total amount due on this bill?", report.Answers[0].Question)

	// The meter count disagrees; the other two answers reconcile.
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "meters", report.Mismatches[0].Field)
}
