package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
	"gridbill/internal/service"
	"gridbill/mocks"
)

func completedRecord(t *testing.T, totalDue float64) *domain.ExtractionRecord {
	t.Helper()
	result := domain.ExtractionResult{
		Metadata: domain.ExtractionMetadata{
			ExtractionID:    uuid.NewString(),
			ExtractionModel: "claude-sonnet-4",
			SourceSHA256:    "feedc0de",
		},
		Document: domain.BillDocument{
			Totals: domain.Totals{
				TotalAmountDue: domain.MonetaryAmount{Value: totalDue, Currency: "USD"},
			},
		},
	}
	raw, err := json.Marshal(result)
	require.NoError(t, err)

	return &domain.ExtractionRecord{
		ID:              uuid.New(),
		Status:          domain.ExtractionStatusCompleted,
		Result:          raw,
		ExtractionModel: "claude-sonnet-4",
	}
}

func TestDriftService_Compare(t *testing.T) {
	driftRepo := new(mocks.MockDriftRepo)
	extractionRepo := new(mocks.MockExtractionRepo)
	svc := service.NewDriftService(driftRepo, extractionRepo)

	baselineRec := completedRecord(t, 184.27)
	rerunRec := completedRecord(t, 190.00)

	extractionRepo.On("GetByID", mock.Anything, rerunRec.ID).Return(rerunRec, nil)
	driftRepo.On("GetBySHA256", mock.Anything, "feedc0de").Return(&domain.DriftBaseline{
		ID:           uuid.New(),
		SourceSHA256: "feedc0de",
		ExtractionID: baselineRec.ID,
		Result:       baselineRec.Result,
		Model:        "claude-sonnet-4",
	}, nil)

	report, err := svc.Compare(context.Background(), rerunRec.ID)

	require.NoError(t, err)
	assert.Equal(t, "feedc0de", report.SourceSHA256)
	require.NotEmpty(t, report.Differences)

	found := false
	for _, d := range report.Differences {
		if d.BaselineValue == "184.27" && d.CurrentValue == "190" {
			found = true
		}
	}
	assert.True(t, found, "expected a total_amount_due difference")
}

func TestDriftService_Compare_SelfBaseline(t *testing.T) {
	driftRepo := new(mocks.MockDriftRepo)
	extractionRepo := new(mocks.MockExtractionRepo)
	svc := service.NewDriftService(driftRepo, extractionRepo)

	rec := completedRecord(t, 184.27)
	extractionRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	driftRepo.On("GetBySHA256", mock.Anything, "feedc0de").Return(&domain.DriftBaseline{
		SourceSHA256: "feedc0de",
		ExtractionID: rec.ID,
		Result:       rec.Result,
	}, nil)

	_, err := svc.Compare(context.Background(), rec.ID)
	assert.ErrorIs(t, err, domain.ErrBaselineIsSelf)
}

func TestDriftService_Compare_NotCompleted(t *testing.T) {
	driftRepo := new(mocks.MockDriftRepo)
	extractionRepo := new(mocks.MockExtractionRepo)
	svc := service.NewDriftService(driftRepo, extractionRepo)

	rec := &domain.ExtractionRecord{ID: uuid.New(), Status: domain.ExtractionStatusProcessing}
	extractionRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	_, err := svc.Compare(context.Background(), rec.ID)
	assert.ErrorIs(t, err, domain.ErrExtractionNotDone)
	driftRepo.AssertNotCalled(t, "GetBySHA256", mock.Anything, mock.Anything)
}

func TestDriftService_Compare_NoBaseline(t *testing.T) {
	driftRepo := new(mocks.MockDriftRepo)
	extractionRepo := new(mocks.MockExtractionRepo)
	svc := service.NewDriftService(driftRepo, extractionRepo)

	rec := completedRecord(t, 184.27)
	extractionRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	driftRepo.On("GetBySHA256", mock.Anything, "feedc0de").Return(nil, domain.ErrNotFound)

	_, err := svc.Compare(context.Background(), rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDriftService_PinBaseline(t *testing.T) {
	driftRepo := new(mocks.MockDriftRepo)
	extractionRepo := new(mocks.MockExtractionRepo)
	svc := service.NewDriftService(driftRepo, extractionRepo)

	rec := completedRecord(t, 184.27)
	extractionRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	driftRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(b *domain.DriftBaseline) bool {
		return b.SourceSHA256 == "feedc0de" && b.ExtractionID == rec.ID && b.Model == "claude-sonnet-4"
	})).Return(nil)

	baseline, err := svc.PinBaseline(context.Background(), rec.ID)

	require.NoError(t, err)
	assert.Equal(t, rec.ID, baseline.ExtractionID)
	driftRepo.AssertExpectations(t)
}

func TestDriftService_PinBaseline_NotCompleted(t *testing.T) {
	driftRepo := new(mocks.MockDriftRepo)
	extractionRepo := new(mocks.MockExtractionRepo)
	svc := service.NewDriftService(driftRepo, extractionRepo)

	rec := &domain.ExtractionRecord{ID: uuid.New(), Status: domain.ExtractionStatusPending}
	extractionRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	_, err := svc.PinBaseline(context.Background(), rec.ID)
	assert.ErrorIs(t, err, domain.ErrExtractionNotDone)
	driftRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
