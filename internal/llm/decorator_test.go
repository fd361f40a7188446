package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pkamble/lessonchat/internal/logger"
	"github.com/pkamble/lessonchat/internal/store"
)

// slowProvider blocks until its context is cancelled.
type slowProvider struct{}

func (s *slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *slowProvider) ModelID() string { return "slow" }

func TestTimeoutProvider_DeadlineBecomesUnavailable(t *testing.T) {
	p := WithTimeout(&slowProvider{}, 10*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{UserPrompt: "test"})
	if err == nil {
		t.Fatal("expected error")
	}
	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrUnavailable, got: %T (%v)", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("expected wrapped DeadlineExceeded")
	}
}

func TestTimeoutProvider_PassesThroughSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "quick answer"})
	p := WithTimeout(mock, time.Second)

	resp, err := p.Generate(context.Background(), Request{UserPrompt: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "quick answer" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
}

// recordingCallRepo captures appended audit rows in memory.
type recordingCallRepo struct {
	rows      []store.LLMCallData
	appendErr error
}

func (r *recordingCallRepo) Append(_ context.Context, data store.LLMCallData) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.rows = append(r.rows, data)
	return nil
}

func (r *recordingCallRepo) List(context.Context, int) ([]store.LLMCall, error) {
	return nil, nil
}

func (r *recordingCallRepo) GetByID(context.Context, uint) (*store.LLMCall, error) {
	return nil, nil
}

func (r *recordingCallRepo) UsageByPurpose(context.Context) ([]store.LLMUsage, error) {
	return nil, nil
}

func TestAuditProvider_RecordsSuccessfulCall(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Text:  "the answer",
		Usage: Usage{InputTokens: 12, OutputTokens: 7, TotalTokens: 19},
	})
	repo := &recordingCallRepo{}
	p := WithAudit(mock, repo, logger.NewNop())

	ctx := WithPurpose(context.Background(), "answer")
	resp, err := p.Generate(ctx, Request{System: "sys", UserPrompt: "why is the sky blue"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "the answer" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}

	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(repo.rows))
	}
	row := repo.rows[0]
	if row.RequestID == "" {
		t.Fatal("expected a request ID")
	}
	if row.Purpose != "answer" {
		t.Fatalf("expected purpose 'answer', got %q", row.Purpose)
	}
	if !row.Success {
		t.Fatal("expected success flag")
	}
	if row.InputTokens != 12 || row.OutputTokens != 7 {
		t.Fatalf("unexpected token counts: %d in / %d out", row.InputTokens, row.OutputTokens)
	}
	if row.ResponseBody != "the answer" {
		t.Fatalf("expected response body captured, got %q", row.ResponseBody)
	}
	if row.RequestBody == "" {
		t.Fatal("expected request body captured")
	}
}

func TestAuditProvider_RecordsFailedCall(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrUnavailable{}})
	repo := &recordingCallRepo{}
	p := WithAudit(mock, repo, logger.NewNop())

	_, err := p.Generate(context.Background(), Request{UserPrompt: "test"})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(repo.rows))
	}
	row := repo.rows[0]
	if row.Success {
		t.Fatal("expected failure flag")
	}
	if row.ErrorMessage == "" {
		t.Fatal("expected error message captured")
	}
	if row.Purpose != "unknown" {
		t.Fatalf("expected purpose 'unknown', got %q", row.Purpose)
	}
}

func TestAuditProvider_AppendFailureDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "fine"})
	repo := &recordingCallRepo{appendErr: errors.New("disk full")}
	p := WithAudit(mock, repo, logger.NewNop())

	resp, err := p.Generate(context.Background(), Request{UserPrompt: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "fine" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
}

func TestSerializeRequest(t *testing.T) {
	got := serializeRequest(Request{System: "sys", UserPrompt: "hello"})
	want := "[system]\nsys\n\n[user]\nhello\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	got = serializeRequest(Request{UserPrompt: "hello"})
	want = "[user]\nhello\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
