package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pkamble/lessonchat/internal/logger"
)

// Question is a stored student question paired 1:1 with its generated
// answer. Rating moves one way, {unrated} -> {rated}; a later Rate call
// overwrites the previous rating rather than clearing it.
type Question struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	LessonID   uint       `gorm:"index;not null" json:"lesson_id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	Question   string     `gorm:"not null" json:"question"`
	AIResponse string     `gorm:"not null" json:"ai_response"`
	Rating     *int       `json:"rating,omitempty"`
	Feedback   *string    `json:"feedback,omitempty"`
	RatedAt    *time.Time `json:"rated_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// QuestionFilters narrows History results. Zero values are ignored.
type QuestionFilters struct {
	LessonID uint
	Search   string // matches question text
	Limit    int
	Offset   int
}

// PopularQuestion is a question text asked more than once.
type PopularQuestion struct {
	Question  string `json:"question"`
	LessonID  uint   `json:"lesson_id"`
	Frequency int64  `json:"frequency"`
}

// QuestionRepo is the persistence boundary for question/answer records.
type QuestionRepo interface {
	Create(ctx context.Context, lessonID, userID uint, question, answer string) (*Question, error)
	GetByID(ctx context.Context, id uint) (*Question, error)
	Delete(ctx context.Context, id uint) error

	// Rate sets rating, feedback and the rated timestamp. Re-rating
	// overwrites.
	Rate(ctx context.Context, id uint, rating int, feedback *string) error

	// ListByLessonAndUser returns one user's questions for a lesson,
	// ordered by creation time ascending for chat display.
	ListByLessonAndUser(ctx context.Context, lessonID, userID uint) ([]Question, error)

	// History returns a user's questions across lessons, newest first.
	History(ctx context.Context, userID uint, filters QuestionFilters) ([]Question, error)

	// DeleteByLessonAndUser clears one user's chat history for a lesson.
	DeleteByLessonAndUser(ctx context.Context, lessonID, userID uint) error

	CountByLessonAndUser(ctx context.Context, lessonID, userID uint) (int64, error)
	Count(ctx context.Context) (int64, error)

	// Analytics queries.
	CountByLesson(ctx context.Context, lessonID uint) (int64, error)
	CountUniqueAskers(ctx context.Context, lessonID uint) (int64, error)
	AverageRating(ctx context.Context, lessonID uint) (float64, error)
	RecentByLesson(ctx context.Context, lessonID uint, limit int) ([]Question, error)
	AllByLesson(ctx context.Context, lessonID uint) ([]Question, error)
	CountLowRated(ctx context.Context, lessonID uint, threshold int) (int64, error)
	CountWithFeedback(ctx context.Context, lessonID uint) (int64, error)
	CountRepeats(ctx context.Context, lessonID uint) (int64, error)
	Popular(ctx context.Context, limit int) ([]PopularQuestion, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *questionRepo) Create(ctx context.Context, lessonID, userID uint, question, answer string) (*Question, error) {
	q := &Question{
		LessonID:   lessonID,
		UserID:     userID,
		Question:   question,
		AIResponse: answer,
	}
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

func (r *questionRepo) GetByID(ctx context.Context, id uint) (*Question, error) {
	var q Question
	if err := r.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Question{}, id).Error
}

func (r *questionRepo) Rate(ctx context.Context, id uint, rating int, feedback *string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&Question{}).Where("id = ?", id).
		Updates(map[string]any{
			"rating":   rating,
			"feedback": feedback,
			"rated_at": now,
		}).Error
}

func (r *questionRepo) ListByLessonAndUser(ctx context.Context, lessonID, userID uint) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).
		Where("lesson_id = ? AND user_id = ?", lessonID, userID).
		Order("created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) History(ctx context.Context, userID uint, filters QuestionFilters) ([]Question, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filters.LessonID != 0 {
		q = q.Where("lesson_id = ?", filters.LessonID)
	}
	if filters.Search != "" {
		q = q.Where("question LIKE ?", "%"+filters.Search+"%")
	}
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		q = q.Offset(filters.Offset)
	}

	var questions []Question
	if err := q.Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) DeleteByLessonAndUser(ctx context.Context, lessonID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("lesson_id = ? AND user_id = ?", lessonID, userID).
		Delete(&Question{}).Error
}

func (r *questionRepo) CountByLessonAndUser(ctx context.Context, lessonID, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Question{}).
		Where("lesson_id = ? AND user_id = ?", lessonID, userID).
		Count(&n).Error
	return n, err
}

func (r *questionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Question{}).Count(&n).Error
	return n, err
}

func (r *questionRepo) CountByLesson(ctx context.Context, lessonID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Question{}).
		Where("lesson_id = ?", lessonID).
		Count(&n).Error
	return n, err
}

func (r *questionRepo) CountUniqueAskers(ctx context.Context, lessonID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Question{}).
		Where("lesson_id = ?", lessonID).
		Distinct("user_id").
		Count(&n).Error
	return n, err
}

func (r *questionRepo) AverageRating(ctx context.Context, lessonID uint) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&Question{}).
		Where("lesson_id = ? AND rating IS NOT NULL", lessonID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *questionRepo) RecentByLesson(ctx context.Context, lessonID uint, limit int) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("created_at DESC").
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) AllByLesson(ctx context.Context, lessonID uint) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) CountLowRated(ctx context.Context, lessonID uint, threshold int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Question{}).
		Where("lesson_id = ? AND rating IS NOT NULL AND rating <= ?", lessonID, threshold).
		Count(&n).Error
	return n, err
}

func (r *questionRepo) CountWithFeedback(ctx context.Context, lessonID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Question{}).
		Where("lesson_id = ? AND feedback IS NOT NULL", lessonID).
		Count(&n).Error
	return n, err
}

func (r *questionRepo) CountRepeats(ctx context.Context, lessonID uint) (int64, error) {
	sub := r.db.Model(&Question{}).
		Select("question").
		Where("lesson_id = ?", lessonID).
		Group("question").
		Having("COUNT(*) > 1")

	var n int64
	err := r.db.WithContext(ctx).Table("(?) as repeats", sub).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *questionRepo) Popular(ctx context.Context, limit int) ([]PopularQuestion, error) {
	var rows []PopularQuestion
	err := r.db.WithContext(ctx).Model(&Question{}).
		Select("question, lesson_id, COUNT(*) as frequency").
		Group("question, lesson_id").
		Having("COUNT(*) > 1").
		Order("frequency DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
