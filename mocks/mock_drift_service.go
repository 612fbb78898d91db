package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gridbill/internal/domain"
)

// MockDriftService is a mock implementation of service.DriftService.
type MockDriftService struct {
	mock.Mock
}

func (m *MockDriftService) Compare(ctx context.Context, extractionID uuid.UUID) (*domain.DriftReport, error) {
	args := m.Called(ctx, extractionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DriftReport), args.Error(1)
}

func (m *MockDriftService) PinBaseline(ctx context.Context, extractionID uuid.UUID) (*domain.DriftBaseline, error) {
	args := m.Called(ctx, extractionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DriftBaseline), args.Error(1)
}
