package tutor

import (
	"context"

	"github.com/pkamble/lessonchat/internal/llm"
	"github.com/pkamble/lessonchat/internal/store"
)

// Summarize produces a short summary of the lesson content for display
// on lesson cards. On any failure it returns SummaryUnavailable; lesson
// create/update flows never fail because of a summary.
func (s *Service) Summarize(ctx context.Context, lesson *store.Lesson) string {
	ctx = llm.WithPurpose(ctx, "summary")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      summarySystemPrompt,
		UserPrompt:  lesson.Content,
		MaxTokens:   s.cfg.SummaryMaxTokens,
		Temperature: s.cfg.SummaryTemperature,
	})
	if err != nil {
		s.log.Warn("summary generation failed",
			"lesson_id", lesson.ID,
			"error", err,
		)
		return SummaryUnavailable
	}

	return resp.Text
}
