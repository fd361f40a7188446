package insights

import (
	"context"
	"reflect"
	"testing"

	"github.com/pkamble/lessonchat/internal/logger"
	"github.com/pkamble/lessonchat/internal/store"
)

func TestCommonTopics(t *testing.T) {
	questions := []string{
		"What is photosynthesis?",
		"How does photosynthesis work in plants?",
		"Why do plants need sunlight?",
	}

	topics := commonTopics(questions, 3)
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	// "photosynthesis" and "plants" appear twice; ties break alphabetically.
	if topics[0].Word != "photosynthesis" || topics[0].Count != 2 {
		t.Fatalf("unexpected first topic: %+v", topics[0])
	}
	if topics[1].Word != "plants" || topics[1].Count != 2 {
		t.Fatalf("unexpected second topic: %+v", topics[1])
	}
	if topics[2].Count != 1 {
		t.Fatalf("unexpected third topic: %+v", topics[2])
	}
}

func TestCommonTopics_SkipsShortWords(t *testing.T) {
	topics := commonTopics([]string{"why is the sky so blue"}, 10)
	for _, tc := range topics {
		if len(tc.Word) <= 3 {
			t.Fatalf("short word %q should be skipped", tc.Word)
		}
	}
}

func TestCommonTopics_CaseAndPunctuation(t *testing.T) {
	topics := commonTopics([]string{"Fractions!", "FRACTIONS?", "fractions..."}, 10)
	want := []TopicCount{{Word: "fractions", Count: 3}}
	if !reflect.DeepEqual(topics, want) {
		t.Fatalf("expected %+v, got %+v", want, topics)
	}
}

func TestCommonTopics_Empty(t *testing.T) {
	if topics := commonTopics(nil, 10); len(topics) != 0 {
		t.Fatalf("expected no topics, got %+v", topics)
	}
}

// The aggregate queries are covered against real sqlite through the
// store tests; here a minimal end-to-end pass over an in-memory store
// checks the wiring.
func newSeededService(t *testing.T) (*Service, *store.Lesson) {
	t.Helper()
	s, err := store.Open(store.Config{Driver: "sqlite", DSN: ":memory:"}, logger.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	lesson, err := s.Lessons().Create(ctx, store.LessonFields{
		Title:   "Photosynthesis",
		Content: "Plants convert light into chemical energy.",
		Subject: "Biology",
	})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	for _, q := range []struct {
		userID   uint
		question string
	}{
		{1, "what is photosynthesis about?"},
		{2, "what is photosynthesis about?"},
		{2, "where does the energy come from?"},
	} {
		if _, err := s.Questions().Create(ctx, lesson.ID, q.userID, q.question, "answer"); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}

	return NewService(s.Lessons(), s.Questions(), logger.NewNop()), lesson
}

func TestLessonAnalytics(t *testing.T) {
	svc, lesson := newSeededService(t)

	analytics, err := svc.LessonAnalytics(context.Background(), lesson.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if analytics.TotalQuestions != 3 {
		t.Fatalf("expected 3 questions, got %d", analytics.TotalQuestions)
	}
	if analytics.UniqueStudents != 2 {
		t.Fatalf("expected 2 students, got %d", analytics.UniqueStudents)
	}
	if analytics.Difficulty.RepeatQuestions != 1 {
		t.Fatalf("expected 1 repeat, got %d", analytics.Difficulty.RepeatQuestions)
	}
	if len(analytics.RecentQuestions) != 3 {
		t.Fatalf("expected 3 recent questions, got %d", len(analytics.RecentQuestions))
	}
	if len(analytics.CommonTopics) == 0 {
		t.Fatal("expected common topics")
	}
	if analytics.CommonTopics[0].Word != "photosynthesis" {
		t.Fatalf("unexpected top topic: %+v", analytics.CommonTopics[0])
	}
}

func TestStatistics(t *testing.T) {
	svc, lesson := newSeededService(t)

	stats, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalLessons != 1 || stats.TotalQuestions != 3 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.MostPopularSubject == nil || stats.MostPopularSubject.Subject != "Biology" {
		t.Fatalf("unexpected top subject: %+v", stats.MostPopularSubject)
	}
	if len(stats.RecentLessons) != 1 || stats.RecentLessons[0].ID != lesson.ID {
		t.Fatalf("unexpected recent lessons: %+v", stats.RecentLessons)
	}
	if len(stats.MostQuestionedLessons) != 1 || stats.MostQuestionedLessons[0].QuestionCount != 3 {
		t.Fatalf("unexpected most questioned: %+v", stats.MostQuestionedLessons)
	}
}

func TestExport(t *testing.T) {
	svc, lesson := newSeededService(t)

	export, err := svc.Export(context.Background(), lesson.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if export.LessonTitle != "Photosynthesis" {
		t.Fatalf("unexpected title: %q", export.LessonTitle)
	}
	if export.TotalQuestions != 3 || len(export.Questions) != 3 {
		t.Fatalf("unexpected counts: %+v", export)
	}
	q := export.Questions[0]
	if q.Question == "" || q.Answer != "answer" {
		t.Fatalf("unexpected exported question: %+v", q)
	}
	if q.AskedAt == "" {
		t.Fatal("expected formatted timestamp")
	}
}

func TestExport_MissingLesson(t *testing.T) {
	svc, _ := newSeededService(t)

	if _, err := svc.Export(context.Background(), 999); err == nil {
		t.Fatal("expected error for missing lesson")
	}
}
