package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gridbill/internal/domain"
)

// MockFewShotProvider is a mock implementation of port.FewShotProvider.
type MockFewShotProvider struct {
	mock.Mock
}

func (m *MockFewShotProvider) Context(ctx context.Context, utilityName string, commodity domain.CommodityType) (string, string, error) {
	args := m.Called(ctx, utilityName, commodity)
	return args.String(0), args.String(1), args.Error(2)
}
