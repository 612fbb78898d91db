package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gridbill/internal/llm"
)

// MockLLMClient is a mock implementation of llm.Client.
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) CompleteText(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

func (m *MockLLMClient) CompleteVision(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

func (m *MockLLMClient) Name() string {
	return m.Called().String(0)
}

func (m *MockLLMClient) Model() string {
	return m.Called().String(0)
}
