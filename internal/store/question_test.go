package store

import (
	"context"
	"testing"
)

func seedQuestion(t *testing.T, repo QuestionRepo, lessonID, userID uint, question string) *Question {
	t.Helper()
	q, err := repo.Create(context.Background(), lessonID, userID, question, "an answer")
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func TestQuestionRepo_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	q := seedQuestion(t, repo, 1, 7, "What is a fraction?")
	if q.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	got, err := repo.GetByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Question != "What is a fraction?" || got.AIResponse != "an answer" {
		t.Fatalf("unexpected question: %+v", got)
	}
	if got.Rating != nil || got.RatedAt != nil {
		t.Fatal("new question must be unrated")
	}
}

func TestQuestionRepo_RateAndOverwrite(t *testing.T) {
	s := newTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	q := seedQuestion(t, repo, 1, 7, "What is a fraction?")

	feedback := "very clear"
	if err := repo.Rate(ctx, q.ID, 5, &feedback); err != nil {
		t.Fatalf("rate: %v", err)
	}

	got, err := repo.GetByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Rating == nil || *got.Rating != 5 {
		t.Fatalf("unexpected rating: %v", got.Rating)
	}
	if got.Feedback == nil || *got.Feedback != "very clear" {
		t.Fatalf("unexpected feedback: %v", got.Feedback)
	}
	if got.RatedAt == nil {
		t.Fatal("expected rated timestamp")
	}

	// Re-rating overwrites, including clearing feedback.
	if err := repo.Rate(ctx, q.ID, 2, nil); err != nil {
		t.Fatalf("re-rate: %v", err)
	}
	got, err = repo.GetByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Rating == nil || *got.Rating != 2 {
		t.Fatalf("expected overwritten rating 2, got %v", got.Rating)
	}
	if got.Feedback != nil {
		t.Fatalf("expected feedback cleared, got %v", *got.Feedback)
	}
}

func TestQuestionRepo_ListByLessonAndUser(t *testing.T) {
	s := newTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	seedQuestion(t, repo, 1, 7, "first?")
	seedQuestion(t, repo, 1, 7, "second?")
	seedQuestion(t, repo, 1, 8, "someone else?")
	seedQuestion(t, repo, 2, 7, "other lesson?")

	questions, err := repo.ListByLessonAndUser(ctx, 1, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	// Ascending by creation for chat display.
	if questions[0].Question != "first?" || questions[1].Question != "second?" {
		t.Fatalf("unexpected order: %q, %q", questions[0].Question, questions[1].Question)
	}
}

func TestQuestionRepo_History(t *testing.T) {
	s := newTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	seedQuestion(t, repo, 1, 7, "about fractions?")
	seedQuestion(t, repo, 2, 7, "about plants?")
	seedQuestion(t, repo, 1, 8, "not mine")

	all, err := repo.History(ctx, 7, QuestionFilters{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}

	byLesson, err := repo.History(ctx, 7, QuestionFilters{LessonID: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(byLesson) != 1 || byLesson[0].Question != "about plants?" {
		t.Fatalf("unexpected filtered rows: %+v", byLesson)
	}

	bySearch, err := repo.History(ctx, 7, QuestionFilters{Search: "fractions"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Question != "about fractions?" {
		t.Fatalf("unexpected search rows: %+v", bySearch)
	}
}

func TestQuestionRepo_DeleteByLessonAndUser(t *testing.T) {
	s := newTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	seedQuestion(t, repo, 1, 7, "mine a?")
	seedQuestion(t, repo, 1, 7, "mine b?")
	keeper := seedQuestion(t, repo, 1, 8, "theirs?")

	if err := repo.DeleteByLessonAndUser(ctx, 1, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}

	n, err := repo.CountByLessonAndUser(ctx, 1, 7)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 remaining, got %d", n)
	}

	// The other student's chat survives.
	if _, err := repo.GetByID(ctx, keeper.ID); err != nil {
		t.Fatalf("other user's question should survive: %v", err)
	}
}

func TestQuestionRepo_AnalyticsCounts(t *testing.T) {
	s := newTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	q1 := seedQuestion(t, repo, 1, 7, "why is the sky blue?")
	seedQuestion(t, repo, 1, 8, "why is the sky blue?")
	q3 := seedQuestion(t, repo, 1, 8, "unique question?")
	seedQuestion(t, repo, 2, 9, "other lesson?")

	feedback := "confusing"
	if err := repo.Rate(ctx, q1.ID, 1, &feedback); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := repo.Rate(ctx, q3.ID, 5, nil); err != nil {
		t.Fatalf("rate: %v", err)
	}

	if n, _ := repo.CountByLesson(ctx, 1); n != 3 {
		t.Fatalf("expected 3 questions, got %d", n)
	}
	if n, _ := repo.CountUniqueAskers(ctx, 1); n != 2 {
		t.Fatalf("expected 2 unique askers, got %d", n)
	}
	if n, _ := repo.CountLowRated(ctx, 1, 2); n != 1 {
		t.Fatalf("expected 1 low-rated, got %d", n)
	}
	if n, _ := repo.CountWithFeedback(ctx, 1); n != 1 {
		t.Fatalf("expected 1 with feedback, got %d", n)
	}
	if n, _ := repo.CountRepeats(ctx, 1); n != 1 {
		t.Fatalf("expected 1 repeated question, got %d", n)
	}

	avg, err := repo.AverageRating(ctx, 1)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg != 3 {
		t.Fatalf("expected average 3, got %v", avg)
	}

	// Unrated lesson averages to zero, not an error.
	avg, err = repo.AverageRating(ctx, 2)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg != 0 {
		t.Fatalf("expected 0 for unrated lesson, got %v", avg)
	}
}

func TestQuestionRepo_Popular(t *testing.T) {
	s := newTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedQuestion(t, repo, 1, uint(i+1), "what is photosynthesis?")
	}
	seedQuestion(t, repo, 1, 1, "what is a chloroplast?")
	seedQuestion(t, repo, 1, 2, "what is a chloroplast?")
	seedQuestion(t, repo, 1, 1, "asked only once?")

	popular, err := repo.Popular(ctx, 10)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	if len(popular) != 2 {
		t.Fatalf("expected 2 popular questions, got %d", len(popular))
	}
	if popular[0].Question != "what is photosynthesis?" || popular[0].Frequency != 3 {
		t.Fatalf("unexpected first row: %+v", popular[0])
	}
	if popular[1].Frequency != 2 {
		t.Fatalf("unexpected second row: %+v", popular[1])
	}
}
