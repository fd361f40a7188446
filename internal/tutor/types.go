package tutor

import (
	"errors"
	"time"
)

// ErrInvalidQuestion is returned when the question text is outside the
// accepted length range. Nothing is persisted in that case.
var ErrInvalidQuestion = errors.New("question must be between 5 and 500 characters")

// Question length bounds, in runes.
const (
	MinQuestionLen = 5
	MaxQuestionLen = 500
)

// Fallback answers persisted when generation fails. The user always gets
// a stored Q&A pair for an ask, never a bare error; this is a product
// contract, so the literals must not change.
const (
	// FallbackGateway is stored when the gateway reports a typed failure.
	FallbackGateway = "I apologize, but I cannot process your question right now. Please try again later."

	// FallbackUnexpected is stored when something other than the gateway
	// blew up while generating the answer.
	FallbackUnexpected = "An error occurred while processing your question. Please try again."
)

// SummaryUnavailable is returned by Summarize on any failure. Summary is
// a non-critical enrichment; lesson create/update never fails over it.
const SummaryUnavailable = "Summary not available."

// MaxRecommendations caps how many lessons Recommend returns.
const MaxRecommendations = 3

// ChatMessage is one entry of the chat transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AnswerRecord is the result of a successful Answer call.
type AnswerRecord struct {
	QuestionID uint        `json:"question_id"`
	Answer     string      `json:"answer"`
	UserMsg    ChatMessage `json:"new_user_message"`
	AIMsg      ChatMessage `json:"new_ai_message"`
}

// Recommendation is one suggested lesson. Ephemeral, never persisted.
type Recommendation struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Summary string `json:"summary"`
}
