package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/pkamble/lessonchat/internal/logger"
	"github.com/pkamble/lessonchat/internal/store"
)

const (
	lowRatingThreshold = 2
	commonTopicsLimit  = 10
	recentQuestionsN   = 10
	popularQuestionsN  = 20
	recentLessonsN     = 5
	mostQuestionedN    = 5
)

// Service computes admin-facing aggregates over lessons and questions.
type Service struct {
	lessons   store.LessonRepo
	questions store.QuestionRepo
	log       *logger.Logger
}

// NewService creates an insights service.
func NewService(lessons store.LessonRepo, questions store.QuestionRepo, log *logger.Logger) *Service {
	return &Service{
		lessons:   lessons,
		questions: questions,
		log:       log.With("component", "insights"),
	}
}

// LessonAnalytics gathers question activity metrics for one lesson.
func (s *Service) LessonAnalytics(ctx context.Context, lessonID uint) (*LessonAnalytics, error) {
	total, err := s.questions.CountByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	unique, err := s.questions.CountUniqueAskers(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("count unique askers: %w", err)
	}

	avg, err := s.questions.AverageRating(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	all, err := s.questions.AllByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	recent, err := s.questions.RecentByLesson(ctx, lessonID, recentQuestionsN)
	if err != nil {
		return nil, fmt.Errorf("recent questions: %w", err)
	}

	lowRated, err := s.questions.CountLowRated(ctx, lessonID, lowRatingThreshold)
	if err != nil {
		return nil, fmt.Errorf("count low rated: %w", err)
	}

	withFeedback, err := s.questions.CountWithFeedback(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("count with feedback: %w", err)
	}

	repeats, err := s.questions.CountRepeats(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("count repeats: %w", err)
	}

	texts := make([]string, len(all))
	for i, q := range all {
		texts[i] = q.Question
	}

	return &LessonAnalytics{
		TotalQuestions:  total,
		UniqueStudents:  unique,
		AverageRating:   avg,
		CommonTopics:    commonTopics(texts, commonTopicsLimit),
		RecentQuestions: recent,
		Difficulty: DifficultyIndicators{
			LowRatedQuestions:     lowRated,
			QuestionsWithFeedback: withFeedback,
			RepeatQuestions:       repeats,
		},
	}, nil
}

// PopularQuestions returns questions asked more than once across all
// lessons, most frequent first.
func (s *Service) PopularQuestions(ctx context.Context) ([]store.PopularQuestion, error) {
	return s.questions.Popular(ctx, popularQuestionsN)
}

// Statistics builds the admin dashboard aggregate.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	lessonCount, err := s.lessons.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}

	questionCount, err := s.questions.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	topSubject, err := s.lessons.TopSubject(ctx)
	if err != nil {
		return nil, fmt.Errorf("top subject: %w", err)
	}

	recent, err := s.lessons.Recent(ctx, recentLessonsN)
	if err != nil {
		return nil, fmt.Errorf("recent lessons: %w", err)
	}

	mostQuestioned, err := s.lessons.MostQuestioned(ctx, mostQuestionedN)
	if err != nil {
		return nil, fmt.Errorf("most questioned lessons: %w", err)
	}

	return &Statistics{
		TotalLessons:          lessonCount,
		TotalQuestions:        questionCount,
		MostPopularSubject:    topSubject,
		RecentLessons:         recent,
		MostQuestionedLessons: mostQuestioned,
	}, nil
}

// Export collects every Q&A pair for a lesson, newest first.
func (s *Service) Export(ctx context.Context, lessonID uint) (*LessonExport, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}

	questions, err := s.questions.AllByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	export := &LessonExport{
		LessonTitle:    lesson.Title,
		TotalQuestions: len(questions),
		Questions:      make([]ExportedQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		export.Questions = append(export.Questions, ExportedQuestion{
			StudentID: q.UserID,
			Question:  q.Question,
			Answer:    q.AIResponse,
			Rating:    q.Rating,
			Feedback:  q.Feedback,
			AskedAt:   q.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return export, nil
}

// commonTopics counts words longer than three characters across question
// texts and returns the top n, most frequent first. Ties break
// alphabetically so output is deterministic.
func commonTopics(questions []string, n int) []TopicCount {
	counts := make(map[string]int)
	for _, q := range questions {
		words := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, w := range words {
			if len(w) > 3 {
				counts[w]++
			}
		}
	}

	topics := make([]TopicCount, 0, len(counts))
	for w, c := range counts {
		topics = append(topics, TopicCount{Word: w, Count: c})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Word < topics[j].Word
	})

	if len(topics) > n {
		topics = topics[:n]
	}
	return topics
}
