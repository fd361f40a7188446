package insights

import "github.com/pkamble/lessonchat/internal/store"

// TopicCount is one entry of the common-topics breakdown.
type TopicCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// DifficultyIndicators are rough signals that a lesson is hard to follow.
type DifficultyIndicators struct {
	LowRatedQuestions     int64 `json:"questions_with_low_rating"`
	QuestionsWithFeedback int64 `json:"questions_with_feedback"`
	RepeatQuestions       int64 `json:"repeat_questions"`
}

// LessonAnalytics summarizes question activity on one lesson.
type LessonAnalytics struct {
	TotalQuestions  int64                `json:"total_questions"`
	UniqueStudents  int64                `json:"unique_students"`
	AverageRating   float64              `json:"average_rating"`
	CommonTopics    []TopicCount         `json:"common_topics"`
	RecentQuestions []store.Question     `json:"recent_questions"`
	Difficulty      DifficultyIndicators `json:"difficulty_indicators"`
}

// Statistics is the admin dashboard aggregate.
type Statistics struct {
	TotalLessons          int64                           `json:"total_lessons"`
	TotalQuestions        int64                           `json:"total_questions"`
	MostPopularSubject    *store.LessonStats              `json:"most_popular_subject"`
	RecentLessons         []store.Lesson                  `json:"recent_lessons"`
	MostQuestionedLessons []store.LessonWithQuestionCount `json:"most_questioned_lessons"`
}

// ExportedQuestion is one row of a lesson Q&A export.
type ExportedQuestion struct {
	StudentID uint    `json:"student_id"`
	Question  string  `json:"question"`
	Answer    string  `json:"ai_response"`
	Rating    *int    `json:"rating,omitempty"`
	Feedback  *string `json:"feedback,omitempty"`
	AskedAt   string  `json:"asked_at"`
}

// LessonExport is the full Q&A export for one lesson.
type LessonExport struct {
	LessonTitle    string             `json:"lesson_title"`
	TotalQuestions int                `json:"total_questions"`
	Questions      []ExportedQuestion `json:"questions"`
}
