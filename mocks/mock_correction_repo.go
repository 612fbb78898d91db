package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

// MockCorrectionRepo is a mock implementation of port.CorrectionRepository.
type MockCorrectionRepo struct {
	mock.Mock
}

func (m *MockCorrectionRepo) Create(ctx context.Context, c *domain.Correction) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCorrectionRepo) ListByExtraction(ctx context.Context, extractionID uuid.UUID) ([]domain.Correction, error) {
	args := m.Called(ctx, extractionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Correction), args.Error(1)
}

func (m *MockCorrectionRepo) ListRecurring(ctx context.Context, utilityName string, commodity domain.CommodityType, minRecurrence int) ([]port.RecurringCorrection, error) {
	args := m.Called(ctx, utilityName, commodity, minRecurrence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.RecurringCorrection), args.Error(1)
}
