package tutor

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkamble/lessonchat/internal/llm"
	"github.com/pkamble/lessonchat/internal/store"
)

// Recommend asks the model which candidate lessons best follow up the
// student's question and resolves its answer to at most three lessons.
// Recommendations are a soft feature: any failure yields an empty slice,
// never an error.
func (s *Service) Recommend(ctx context.Context, current *store.Lesson, question string, candidates []store.Lesson) []Recommendation {
	ctx = llm.WithPurpose(ctx, "recommend")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      recommendSystemPrompt,
		UserPrompt:  buildRecommendPrompt(current, question, candidates),
		MaxTokens:   s.cfg.RecommendMaxTokens,
		Temperature: s.cfg.RecommendTemperature,
	})
	if err != nil {
		s.log.Warn("recommendation generation failed",
			"lesson_id", current.ID,
			"error", err,
		)
		return nil
	}

	ids := parseRecommendedIDs(resp.Text)
	return resolveRecommendations(ids, current.ID, candidates)
}

// parseRecommendedIDs extracts lesson ids from a comma-separated model
// response. Non-numeric tokens and duplicates are dropped; the order of
// first mention is preserved.
func parseRecommendedIDs(raw string) []uint {
	var ids []uint
	seen := make(map[uint]bool)

	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		n, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			continue
		}
		id := uint(n)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return ids
}

// resolveRecommendations maps parsed ids back to candidate lessons.
// Ids without a candidate are dropped silently, the current lesson is
// never recommended for itself, and the result is capped at
// MaxRecommendations.
func resolveRecommendations(ids []uint, currentID uint, candidates []store.Lesson) []Recommendation {
	byID := make(map[uint]*store.Lesson, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	var recs []Recommendation
	for _, id := range ids {
		if id == currentID {
			continue
		}
		lesson, ok := byID[id]
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			ID:      lesson.ID,
			Title:   lesson.Title,
			Subject: lesson.Subject,
			Summary: lesson.Summary,
		})
		if len(recs) == MaxRecommendations {
			break
		}
	}

	return recs
}
