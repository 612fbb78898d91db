package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockOCREngine is a mock implementation of port.OCREngine.
type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Recognize(ctx context.Context, raw []byte, contentType string) (string, bool, error) {
	args := m.Called(ctx, raw, contentType)
	return args.String(0), args.Bool(1), args.Error(2)
}
