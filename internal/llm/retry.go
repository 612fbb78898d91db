package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// retryDelays are the backoff waits between attempts. len(retryDelays)+1 is
// the total attempt count.
var retryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// RetryClient wraps a Client with a bounded retry policy. Only
// transient-classified errors are retried; a context timeout on one attempt
// counts as transient, a cancelled parent context stops immediately.
type RetryClient struct {
	inner  Client
	delays []time.Duration
	logger *zap.Logger
}

// NewRetryClient wraps inner with the standard retry policy.
func NewRetryClient(inner Client, logger *zap.Logger) *RetryClient {
	return &RetryClient{inner: inner, delays: retryDelays, logger: logger}
}

func (r *RetryClient) Name() string  { return r.inner.Name() }
func (r *RetryClient) Model() string { return r.inner.Model() }

func (r *RetryClient) CompleteText(ctx context.Context, req Request) (*Response, error) {
	return r.do(ctx, req, r.inner.CompleteText)
}

func (r *RetryClient) CompleteVision(ctx context.Context, req Request) (*Response, error) {
	return r.do(ctx, req, r.inner.CompleteVision)
}

func (r *RetryClient) do(ctx context.Context, req Request, call func(context.Context, Request) (*Response, error)) (*Response, error) {
	var lastErr error
	attempts := len(r.delays) + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		req.Meta.Attempt = attempt
		resp, err := call(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return nil, err
		}
		if attempt == attempts {
			break
		}
		delay := r.delays[attempt-1]
		r.logger.Warn("llm call failed, retrying",
			zap.String("provider", r.inner.Name()),
			zap.String("stage", req.Meta.Stage),
			zap.String("document_id", req.Meta.DocumentID),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("llm call exhausted %d attempts: %w", attempts, lastErr)
}
