package store

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pkamble/lessonchat/internal/logger"
)

// Lesson is an educational content unit authored by an admin.
// Title and Content are non-empty and Content is at least 50 characters;
// both are enforced at the API boundary, not here.
type Lesson struct {
	ID         uint                        `gorm:"primaryKey" json:"id"`
	Title      string                      `gorm:"not null" json:"title"`
	Content    string                      `gorm:"not null" json:"content"`
	Subject    string                      `gorm:"index" json:"subject"`
	GradeLevel string                      `json:"grade_level"`
	Summary    string                      `json:"summary"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	ViewCount  uint                        `gorm:"default:0" json:"view_count"`
	CreatedBy  uint                        `gorm:"index" json:"created_by"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// LessonFields carries the mutable fields for create/update.
type LessonFields struct {
	Title      string
	Content    string
	Subject    string
	GradeLevel string
	Summary    string
	Tags       []string
	CreatedBy  uint
}

// LessonFilters narrows List results. Zero values are ignored.
type LessonFilters struct {
	Subject    string
	GradeLevel string
	Search     string // matches title, content, or subject
	CreatedBy  uint
	Limit      int
	Offset     int
}

// LessonStats is one row of the per-subject breakdown.
type LessonStats struct {
	Subject string `json:"subject"`
	Count   int64  `json:"count"`
}

// LessonWithQuestionCount pairs a lesson with how many questions it has received.
type LessonWithQuestionCount struct {
	Lesson
	QuestionCount int64 `json:"question_count"`
}

// LessonRepo is the persistence boundary for lessons.
type LessonRepo interface {
	Create(ctx context.Context, fields LessonFields) (*Lesson, error)
	GetByID(ctx context.Context, id uint) (*Lesson, error)
	Update(ctx context.Context, id uint, fields LessonFields) (*Lesson, error)
	UpdateSummary(ctx context.Context, id uint, summary string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters LessonFilters) ([]Lesson, error)
	Count(ctx context.Context) (int64, error)

	// AllExcept returns every lesson but the given one; recommendation
	// candidates come from here.
	AllExcept(ctx context.Context, id uint) ([]Lesson, error)

	// IncrementViewCount bumps the view counter by one. Monotonic;
	// called on student reads only.
	IncrementViewCount(ctx context.Context, id uint) error

	Popular(ctx context.Context, limit int) ([]Lesson, error)
	Recent(ctx context.Context, limit int) ([]Lesson, error)
	TopSubject(ctx context.Context) (*LessonStats, error)
	MostQuestioned(ctx context.Context, limit int) ([]LessonWithQuestionCount, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *lessonRepo) Create(ctx context.Context, fields LessonFields) (*Lesson, error) {
	lesson := &Lesson{
		Title:      fields.Title,
		Content:    fields.Content,
		Subject:    fields.Subject,
		GradeLevel: fields.GradeLevel,
		Summary:    fields.Summary,
		Tags:       datatypes.NewJSONSlice(fields.Tags),
		CreatedBy:  fields.CreatedBy,
	}
	if err := r.db.WithContext(ctx).Create(lesson).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}

func (r *lessonRepo) GetByID(ctx context.Context, id uint) (*Lesson, error) {
	var lesson Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) Update(ctx context.Context, id uint, fields LessonFields) (*Lesson, error) {
	updates := map[string]any{}
	if fields.Title != "" {
		updates["title"] = fields.Title
	}
	if fields.Content != "" {
		updates["content"] = fields.Content
	}
	if fields.Subject != "" {
		updates["subject"] = fields.Subject
	}
	if fields.GradeLevel != "" {
		updates["grade_level"] = fields.GradeLevel
	}
	if fields.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(fields.Tags)
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&Lesson{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *lessonRepo) UpdateSummary(ctx context.Context, id uint, summary string) error {
	return r.db.WithContext(ctx).Model(&Lesson{}).Where("id = ?", id).
		Update("summary", summary).Error
}

func (r *lessonRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Lesson{}, id).Error
}

func (r *lessonRepo) List(ctx context.Context, filters LessonFilters) ([]Lesson, error) {
	q := r.db.WithContext(ctx).Model(&Lesson{})

	if filters.Subject != "" {
		q = q.Where("subject = ?", filters.Subject)
	}
	if filters.GradeLevel != "" {
		q = q.Where("grade_level = ?", filters.GradeLevel)
	}
	if filters.CreatedBy != 0 {
		q = q.Where("created_by = ?", filters.CreatedBy)
	}
	if filters.Search != "" {
		term := "%" + filters.Search + "%"
		q = q.Where("title LIKE ? OR content LIKE ? OR subject LIKE ?", term, term, term)
	}
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		q = q.Offset(filters.Offset)
	}

	var lessons []Lesson
	if err := q.Order("created_at DESC").Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Lesson{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *lessonRepo) AllExcept(ctx context.Context, id uint) ([]Lesson, error) {
	var lessons []Lesson
	if err := r.db.WithContext(ctx).Where("id <> ?", id).Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&Lesson{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *lessonRepo) Popular(ctx context.Context, limit int) ([]Lesson, error) {
	var lessons []Lesson
	if err := r.db.WithContext(ctx).
		Order("view_count DESC").
		Limit(limit).
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) Recent(ctx context.Context, limit int) ([]Lesson, error) {
	var lessons []Lesson
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) TopSubject(ctx context.Context) (*LessonStats, error) {
	var row LessonStats
	err := r.db.WithContext(ctx).Model(&Lesson{}).
		Select("subject, COUNT(*) as count").
		Group("subject").
		Order("count DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Subject == "" && row.Count == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *lessonRepo) MostQuestioned(ctx context.Context, limit int) ([]LessonWithQuestionCount, error) {
	var rows []LessonWithQuestionCount
	err := r.db.WithContext(ctx).Model(&Lesson{}).
		Select("lessons.*, COUNT(questions.id) as question_count").
		Joins("LEFT JOIN questions ON questions.lesson_id = lessons.id").
		Group("lessons.id").
		Order("question_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
