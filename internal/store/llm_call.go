package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pkamble/lessonchat/internal/logger"
)

// LLMCall is the audit row recorded for every gateway call, success or
// failure, including the outbound prompt and raw response.
type LLMCall struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RequestID    string    `gorm:"index" json:"request_id"`
	Provider     string    `gorm:"index" json:"provider"`
	Model        string    `json:"model"`
	Purpose      string    `gorm:"index" json:"purpose"`
	RequestBody  string    `json:"request_body"`
	ResponseBody string    `json:"response_body"`
	InputTokens  int       `gorm:"default:0" json:"input_tokens"`
	OutputTokens int       `gorm:"default:0" json:"output_tokens"`
	LatencyMs    int64     `gorm:"default:0" json:"latency_ms"`
	Success      bool      `gorm:"index" json:"success"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

// LLMCallData captures the data for a single gateway call.
type LLMCallData struct {
	RequestID    string
	Provider     string
	Model        string
	Purpose      string
	RequestBody  string
	ResponseBody string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsage aggregates token consumption per purpose label.
type LLMUsage struct {
	Purpose      string `json:"purpose"`
	Calls        int    `json:"calls"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	AvgLatencyMs int64  `json:"avg_latency_ms"`
}

// LLMCallRepo provides append and query access to the gateway audit log.
type LLMCallRepo interface {
	Append(ctx context.Context, data LLMCallData) error
	List(ctx context.Context, limit int) ([]LLMCall, error)
	GetByID(ctx context.Context, id uint) (*LLMCall, error)
	UsageByPurpose(ctx context.Context) ([]LLMUsage, error)
}

type llmCallRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *llmCallRepo) Append(ctx context.Context, data LLMCallData) error {
	call := &LLMCall{
		RequestID:    data.RequestID,
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
	}
	return r.db.WithContext(ctx).Create(call).Error
}

func (r *llmCallRepo) List(ctx context.Context, limit int) ([]LLMCall, error) {
	var calls []LLMCall
	q := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&calls).Error; err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *llmCallRepo) GetByID(ctx context.Context, id uint) (*LLMCall, error) {
	var call LLMCall
	if err := r.db.WithContext(ctx).First(&call, id).Error; err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *llmCallRepo) UsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	var rows []LLMUsage
	err := r.db.WithContext(ctx).Model(&LLMCall{}).
		Select("purpose, COUNT(*) as calls, SUM(input_tokens) as input_tokens, SUM(output_tokens) as output_tokens, CAST(AVG(latency_ms) AS INTEGER) as avg_latency_ms").
		Group("purpose").
		Order("calls DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
