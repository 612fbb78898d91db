package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// circuitState tracks rate-limit backoff for a single client.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FailoverClient tries clients in order, skipping those with open circuits.
// A rate-limited client's circuit stays open until the provider's
// Retry-After elapses.
type FailoverClient struct {
	clients  []Client
	circuits []*circuitState
	logger   *zap.Logger
}

// NewFailoverClient creates a FailoverClient from an ordered list of clients.
func NewFailoverClient(logger *zap.Logger, clients ...Client) *FailoverClient {
	circuits := make([]*circuitState, len(clients))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FailoverClient{clients: clients, circuits: circuits, logger: logger}
}

func (f *FailoverClient) Name() string {
	if len(f.clients) == 0 {
		return "failover"
	}
	return f.clients[0].Name()
}

func (f *FailoverClient) Model() string {
	if len(f.clients) == 0 {
		return ""
	}
	return f.clients[0].Model()
}

func (f *FailoverClient) CompleteText(ctx context.Context, req Request) (*Response, error) {
	return f.do(ctx, req, func(c Client) (*Response, error) { return c.CompleteText(ctx, req) })
}

func (f *FailoverClient) CompleteVision(ctx context.Context, req Request) (*Response, error) {
	return f.do(ctx, req, func(c Client) (*Response, error) { return c.CompleteVision(ctx, req) })
}

func (f *FailoverClient) do(ctx context.Context, req Request, call func(Client) (*Response, error)) (*Response, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, c := range f.clients {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.logger.Warn("skipping llm client, circuit open",
				zap.String("provider", c.Name()),
				zap.Time("reset_at", resetAt),
			)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := call(c)
		if err == nil {
			return out, nil
		}

		f.logger.Warn("llm client failed",
			zap.String("provider", c.Name()),
			zap.String("stage", req.Meta.Stage),
			zap.Error(err),
		)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all llm clients rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all llm clients failed: %w", lastErr)
}
