package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"gridbill/internal/config"
	"gridbill/internal/llm"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Client implements llm.Client using the Anthropic Messages API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a Claude client from a provider config.
func NewClient(cfg *config.LLMProviderConfig) *Client {
	return newClient(cfg, apiURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.LLMProviderConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.LLMProviderConfig, endpoint string) *Client {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 60
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
	}
}

func (c *Client) Name() string  { return "claude" }
func (c *Client) Model() string { return c.model }

func (c *Client) CompleteText(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return c.complete(ctx, req, false)
}

func (c *Client) CompleteVision(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("claude vision call requires at least one image")
	}
	return c.complete(ctx, req, true)
}

func (c *Client) complete(ctx context.Context, req llm.Request, vision bool) (*llm.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 16384
	}

	reqBody := map[string]interface{}{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": buildContentBlocks(req, vision),
			},
		},
	}
	if req.System != "" {
		reqBody["system"] = req.System
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &llm.APIError{Provider: "claude", StatusCode: resp.StatusCode, Body: string(respBody)}
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, llm.NewRateLimitError("claude", apiErr, retryAfter)
		}
		return nil, apiErr
	}

	return parseResponse(respBody, c.model, time.Since(start))
}

func buildContentBlocks(req llm.Request, vision bool) []map[string]interface{} {
	var blocks []map[string]interface{}
	if vision {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/png"
		}
		blockType := "image"
		if mime == "application/pdf" {
			blockType = "document"
		}
		for _, img := range req.Images {
			blocks = append(blocks, map[string]interface{}{
				"type": blockType,
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": mime,
					"data":       base64.StdEncoding.EncodeToString(img),
				},
			})
		}
	}
	prompt := req.Prompt
	if req.JSONMode {
		prompt += "\n\nRespond with a single JSON object and nothing else."
	}
	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": prompt,
	})
	return blocks
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func parseResponse(body []byte, model string, latency time.Duration) (*llm.Response, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	return &llm.Response{
		Content:      resp.Content[0].Text,
		Model:        model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		FinishReason: resp.StopReason,
		LatencyMS:    latency.Milliseconds(),
	}, nil
}
