package openai

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

const apiURL = "https://api.openai.com/v1/chat/completions"

// Client implements llm.Client using the OpenAI Chat Completions API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates an OpenAI client from a provider config.
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
		model = "gpt-4o"
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

func (c *Client) Name() string  { return "openai" }
func (c *Client) Model() string { return c.model }

func (c *Client) CompleteText(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return c.complete(ctx, req, false)
}

func (c *Client) CompleteVision(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("openai vision call requires at least one image")
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

	var messages []map[string]interface{}
	if req.System != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": req.System,
		})
	}
	messages = append(messages, map[string]interface{}{
		"role":    "user",
		"content": buildContentBlocks(req, vision),
	})

	reqBody := map[string]interface{}{
		"model":                 c.model,
		"max_completion_tokens": maxTokens,
		"temperature":           req.Temperature,
		"messages":              messages,
	}
	if req.JSONMode {
		reqBody["response_format"] = map[string]interface{}{"type": "json_object"}
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
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &llm.APIError{Provider: "openai", StatusCode: resp.StatusCode, Body: string(respBody)}
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, llm.NewRateLimitError("openai", apiErr, retryAfter)
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
		for _, img := range req.Images {
			dataURI := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(img))
			if mime == "application/pdf" {
				blocks = append(blocks, map[string]interface{}{
					"type": "file",
					"file": map[string]interface{}{
						"filename":  "document.pdf",
						"file_data": dataURI,
					},
				})
				continue
			}
			blocks = append(blocks, map[string]interface{}{
				"type": "image_url",
				"image_url": map[string]interface{}{
					"url": dataURI,
				},
			})
		}
	}
	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": req.Prompt,
	})
	return blocks
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func parseResponse(body []byte, model string, latency time.Duration) (*llm.Response, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return &llm.Response{
		Content:      resp.Choices[0].Message.Content,
		Model:        model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		FinishReason: resp.Choices[0].FinishReason,
		LatencyMS:    latency.Milliseconds(),
	}, nil
}
