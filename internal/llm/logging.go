package llm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkamble/lessonchat/internal/logger"
	"github.com/pkamble/lessonchat/internal/store"
)

// AuditProvider is a decorator that records every gateway call — prompt
// and raw response included — as a structured log entry and a persisted
// audit row. Auditing never fails or blocks the request itself.
type AuditProvider struct {
	inner Provider
	calls store.LLMCallRepo
	log   *logger.Logger
}

// WithAudit wraps a Provider with call auditing.
func WithAudit(p Provider, calls store.LLMCallRepo, log *logger.Logger) Provider {
	return &AuditProvider{inner: p, calls: calls, log: log.With("component", "llm")}
}

func (a *AuditProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)
	requestID := uuid.NewString()

	resp, err := a.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMCallData{
		RequestID:   requestID,
		Provider:    a.inner.ModelID(),
		Model:       a.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = resp.Text
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		a.log.Error("llm request failed",
			"request_id", requestID,
			"purpose", purpose,
			"model", data.Model,
			"latency_ms", latencyMs,
			"prompt", data.RequestBody,
			"error", err,
		)
	} else {
		a.log.Info("llm request",
			"request_id", requestID,
			"purpose", purpose,
			"model", data.Model,
			"latency_ms", latencyMs,
			"input_tokens", data.InputTokens,
			"output_tokens", data.OutputTokens,
			"prompt", data.RequestBody,
			"response", data.ResponseBody,
		)
	}

	// Persist the audit row but never fail the request over it.
	if a.calls != nil {
		if auditErr := a.calls.Append(ctx, data); auditErr != nil {
			a.log.Warn("failed to persist llm audit row", "request_id", requestID, "error", auditErr)
		}
	}

	return resp, err
}

func (a *AuditProvider) ModelID() string {
	return a.inner.ModelID()
}

// serializeRequest builds a readable representation of the outbound prompt.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	b.WriteString("[user]\n")
	b.WriteString(req.UserPrompt)
	b.WriteString("\n")

	return b.String()
}
