package llm

import "context"

// Provider is the core abstraction for generative-text providers.
// Consumers build a Request and receive plain generated text; which
// vendor serves the call is a construction-time decision.
type Provider interface {
	// Generate sends exactly one request to the provider and returns the
	// generated text. Expected failure modes come back as the typed
	// errors in errors.go, never as panics. Generate does not retry;
	// retries, if desired, belong to the caller.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the provider.
type Request struct {
	// System is the system instruction. Sets the model's role and constraints.
	System string

	// UserPrompt is the user-side content for this single-turn exchange.
	UserPrompt string

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Response holds the provider's output.
type Response struct {
	// Text is the generated text.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
