package llm

import (
	"context"
	"fmt"

	"github.com/pkamble/lessonchat/internal/logger"
	"github.com/pkamble/lessonchat/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout and audit middleware.
func NewProvider(ctx context.Context, cfg Config, calls store.LLMCallRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → timeout → audit → base.
	// The audit layer sits inside the timeout so it records deadline
	// failures too.
	audited := WithAudit(base, calls, log)
	bounded := WithTimeout(audited, cfg.Timeout)

	return bounded, nil
}
