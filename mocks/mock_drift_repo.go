package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gridbill/internal/domain"
)

// MockDriftRepo is a mock implementation of port.DriftRepository.
type MockDriftRepo struct {
	mock.Mock
}

func (m *MockDriftRepo) Upsert(ctx context.Context, baseline *domain.DriftBaseline) error {
	args := m.Called(ctx, baseline)
	return args.Error(0)
}

func (m *MockDriftRepo) GetBySHA256(ctx context.Context, sha string) (*domain.DriftBaseline, error) {
	args := m.Called(ctx, sha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DriftBaseline), args.Error(1)
}
