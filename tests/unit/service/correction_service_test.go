package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
	"gridbill/internal/service"
	"gridbill/mocks"
)

func TestCorrectionService_Create(t *testing.T) {
	correctionRepo := new(mocks.MockCorrectionRepo)
	extractionRepo := new(mocks.MockExtractionRepo)
	svc := service.NewCorrectionService(correctionRepo, extractionRepo)

	extractionID := uuid.New()
	extractionRepo.On("GetByID", mock.Anything, extractionID).Return(&domain.ExtractionRecord{
		ID:          extractionID,
		UtilityName: "Pacific Gas & Electric",
		Commodity:   domain.CommodityElectricity,
		Status:      domain.ExtractionStatusCompleted,
	}, nil)
	correctionRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Correction")).Return(nil)

	c, err := svc.Create(context.Background(), service.CorrectionInput{
		ExtractionID:   extractionID,
		FieldPath:      "totals.total_amount_due",
		ExtractedValue: "1842.70",
		CorrectedValue: "184.27",
		Note:           "decimal point dropped",
	})

	require.NoError(t, err)
	assert.Equal(t, extractionID, c.ExtractionID)
	assert.Equal(t, "Pacific Gas & Electric", c.UtilityName)
	assert.Equal(t, domain.CommodityElectricity, c.Commodity)
	assert.Equal(t, "Pacific Gas & Electric|electricity|totals.total_amount_due", c.Pattern)
	assert.NotEqual(t, uuid.Nil, c.ID)

	correctionRepo.AssertExpectations(t)
}

func TestCorrectionService_Create_UnknownExtraction(t *testing.T) {
	correctionRepo := new(mocks.MockCorrectionRepo)
	extractionRepo := new(mocks.MockExtractionRepo)
	svc := service.NewCorrectionService(correctionRepo, extractionRepo)

	id := uuid.New()
	extractionRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	_, err := svc.Create(context.Background(), service.CorrectionInput{ExtractionID: id})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	correctionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCorrectionService_ListByExtraction(t *testing.T) {
	correctionRepo := new(mocks.MockCorrectionRepo)
	extractionRepo := new(mocks.MockExtractionRepo)
	svc := service.NewCorrectionService(correctionRepo, extractionRepo)

	id := uuid.New()
	stored := []domain.Correction{
		{ID: uuid.New(), ExtractionID: id, FieldPath: "account.account_number"},
		{ID: uuid.New(), ExtractionID: id, FieldPath: "totals.total_amount_due"},
	}
	correctionRepo.On("ListByExtraction", mock.Anything, id).Return(stored, nil)

	got, err := svc.ListByExtraction(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestCorrectionPattern(t *testing.T) {
	p := service.CorrectionPattern("Con Edison", domain.CommodityNaturalGas, "meters[0].consumption")
	assert.Equal(t, "Con Edison|natural_gas|meters[0].consumption", p)
}
