package tutor

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/pkamble/lessonchat/internal/llm"
	"github.com/pkamble/lessonchat/internal/logger"
	"github.com/pkamble/lessonchat/internal/store"
)

// Service answers student questions against lesson content, recommends
// follow-up lessons, and summarizes lessons. Each call is one independent
// request/response cycle; the service holds no per-call state.
type Service struct {
	provider  llm.Provider
	questions store.QuestionRepo
	log       *logger.Logger
	cfg       Config
}

// NewService creates a tutoring service.
func NewService(provider llm.Provider, questions store.QuestionRepo, log *logger.Logger, cfg Config) *Service {
	return &Service{
		provider:  provider,
		questions: questions,
		log:       log.With("component", "tutor"),
		cfg:       cfg,
	}
}

// Answer generates an answer for a student question about a lesson and
// persists the Q&A pair. Generation failures are absorbed into fixed
// fallback text which is persisted like any other answer; store failures
// propagate.
func (s *Service) Answer(ctx context.Context, lesson *store.Lesson, userID uint, question string) (*AnswerRecord, error) {
	if n := utf8.RuneCountInString(question); n < MinQuestionLen || n > MaxQuestionLen {
		return nil, ErrInvalidQuestion
	}

	answer := s.generateAnswer(ctx, lesson, question)

	q, err := s.questions.Create(ctx, lesson.ID, userID, question, answer)
	if err != nil {
		return nil, fmt.Errorf("persist question: %w", err)
	}

	userMsg, aiMsg := messagesFor(q)

	return &AnswerRecord{
		QuestionID: q.ID,
		Answer:     answer,
		UserMsg:    userMsg,
		AIMsg:      aiMsg,
	}, nil
}

// generateAnswer runs the gateway call and converts any failure into
// the appropriate fallback text.
func (s *Service) generateAnswer(ctx context.Context, lesson *store.Lesson, question string) string {
	ctx = llm.WithPurpose(ctx, "answer")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      answerSystemPrompt,
		UserPrompt:  buildAnswerPrompt(lesson, question),
		MaxTokens:   s.cfg.AnswerMaxTokens,
		Temperature: s.cfg.AnswerTemperature,
	})
	if err != nil {
		s.log.Warn("answer generation failed, storing fallback",
			"lesson_id", lesson.ID,
			"error", err,
		)
		if llm.IsGatewayError(err) {
			return FallbackGateway
		}
		return FallbackUnexpected
	}

	return resp.Text
}

// Transcript formats stored questions as chat messages, user question
// first and AI answer second for each pair, ordered by creation time.
func Transcript(questions []store.Question) []ChatMessage {
	messages := make([]ChatMessage, 0, len(questions)*2)
	for i := range questions {
		userMsg, aiMsg := messagesFor(&questions[i])
		messages = append(messages, userMsg, aiMsg)
	}
	return messages
}

// messagesFor builds the user/assistant message pair for one stored
// question. The AI message is stamped one second after the user message
// so chat ordering is stable.
func messagesFor(q *store.Question) (ChatMessage, ChatMessage) {
	userMsg := ChatMessage{
		ID:        fmt.Sprintf("user_%d", q.ID),
		Type:      "user",
		Content:   q.Question,
		CreatedAt: q.CreatedAt,
	}
	aiMsg := ChatMessage{
		ID:        fmt.Sprintf("ai_%d", q.ID),
		Type:      "assistant",
		Content:   q.AIResponse,
		CreatedAt: q.CreatedAt.Add(time.Second),
	}
	return userMsg, aiMsg
}
