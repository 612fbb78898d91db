package llm

import "context"

// CallMeta identifies the pipeline context of a single LLM call. It is
// threaded explicitly through every call so stage execution stays
// parallelizable and testable without process-wide state.
type CallMeta struct {
	Stage      string
	DocumentID string
	Attempt    int
}

// Request is a provider-agnostic completion request. Images are raw bytes;
// providers encode them for their wire format.
type Request struct {
	Meta        CallMeta
	System      string
	Prompt      string
	Images      [][]byte
	ImageMIME   string
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// Response is a provider-agnostic completion response.
type Response struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	FinishReason string
	LatencyMS    int64
}

// Client is the LLM capability contract consumed by the pipeline. Text
// completion never sends images; vision completion requires at least one.
type Client interface {
	CompleteText(ctx context.Context, req Request) (*Response, error)
	CompleteVision(ctx context.Context, req Request) (*Response, error)
	Name() string
	Model() string
}
