package llm

import (
	"context"
	"testing"

	"github.com/pkamble/lessonchat/internal/logger"
)

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"

	p, err := NewProvider(context.Background(), cfg, nil, logger.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "llama"

	if _, err := NewProvider(context.Background(), cfg, nil, logger.NewNop()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openai"

	if _, err := NewProvider(context.Background(), cfg, nil, logger.NewNop()); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
