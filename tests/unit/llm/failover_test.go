package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gridbill/internal/llm"
	"gridbill/mocks"
)

func TestFailoverClient_PrimaryHealthy(t *testing.T) {
	primary := new(mocks.MockLLMClient)
	fallback := new(mocks.MockLLMClient)
	primary.On("CompleteVision", mock.Anything, mock.Anything).
		Return(&llm.Response{Content: "primary"}, nil).Once()

	f := llm.NewFailoverClient(zap.NewNop(), primary, fallback)
	resp, err := f.CompleteVision(context.Background(), llm.Request{Prompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "primary", resp.Content)
	fallback.AssertNotCalled(t, "CompleteVision", mock.Anything, mock.Anything)
}

func TestFailoverClient_FallsBackOnError(t *testing.T) {
	primary := new(mocks.MockLLMClient)
	fallback := new(mocks.MockLLMClient)
	primary.On("Name").Return("claude")
	primary.On("CompleteVision", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()
	fallback.On("CompleteVision", mock.Anything, mock.Anything).
		Return(&llm.Response{Content: "fallback"}, nil).Once()

	f := llm.NewFailoverClient(zap.NewNop(), primary, fallback)
	resp, err := f.CompleteVision(context.Background(), llm.Request{Prompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Content)
}

func TestFailoverClient_RateLimitOpensCircuit(t *testing.T) {
	primary := new(mocks.MockLLMClient)
	fallback := new(mocks.MockLLMClient)
	primary.On("Name").Return("claude")
	primary.On("CompleteVision", mock.Anything, mock.Anything).
		Return(nil, llm.NewRateLimitError("claude", errors.New("429"), 300)).Once()
	fallback.On("CompleteVision", mock.Anything, mock.Anything).
		Return(&llm.Response{Content: "fallback"}, nil).Twice()

	f := llm.NewFailoverClient(zap.NewNop(), primary, fallback)

	// First call trips the primary's circuit.
	resp, err := f.CompleteVision(context.Background(), llm.Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Content)

	// Second call skips the primary entirely while the circuit is open.
	resp, err = f.CompleteVision(context.Background(), llm.Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Content)
	primary.AssertNumberOfCalls(t, "CompleteVision", 1)
}

func TestFailoverClient_AllRateLimited(t *testing.T) {
	primary := new(mocks.MockLLMClient)
	fallback := new(mocks.MockLLMClient)
	primary.On("Name").Return("claude")
	fallback.On("Name").Return("openai")
	primary.On("CompleteVision", mock.Anything, mock.Anything).
		Return(nil, llm.NewRateLimitError("claude", errors.New("429"), 120)).Once()
	fallback.On("CompleteVision", mock.Anything, mock.Anything).
		Return(nil, llm.NewRateLimitError("openai", errors.New("429"), 60)).Once()

	f := llm.NewFailoverClient(zap.NewNop(), primary, fallback)
	_, err := f.CompleteVision(context.Background(), llm.Request{Prompt: "x"})

	require.Error(t, err)
	var rlErr *llm.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.True(t, llm.IsTransient(err))
}

func TestFailoverClient_AllFailed(t *testing.T) {
	primary := new(mocks.MockLLMClient)
	fallback := new(mocks.MockLLMClient)
	primary.On("Name").Return("claude")
	fallback.On("Name").Return("openai")
	primary.On("CompleteText", mock.Anything, mock.Anything).
		Return(nil, errors.New("boom")).Once()
	fallback.On("CompleteText", mock.Anything, mock.Anything).
		Return(nil, &llm.APIError{Provider: "openai", StatusCode: 500}).Once()

	f := llm.NewFailoverClient(zap.NewNop(), primary, fallback)
	_, err := f.CompleteText(context.Background(), llm.Request{Prompt: "x"})

	require.Error(t, err)
	var apiErr *llm.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestFailoverClient_IdentityFollowsPrimary(t *testing.T) {
	primary := new(mocks.MockLLMClient)
	primary.On("Name").Return("claude")
	primary.On("Model").Return("claude-sonnet-4")

	f := llm.NewFailoverClient(zap.NewNop(), primary)
	assert.Equal(t, "claude", f.Name())
	assert.Equal(t, "claude-sonnet-4", f.Model())
}
