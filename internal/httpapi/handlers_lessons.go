package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pkamble/lessonchat/internal/store"
	"github.com/pkamble/lessonchat/internal/tutor"
)

// minContentLen is the minimum lesson content length enforced at this
// boundary on create/update.
const minContentLen = 50

type lessonRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Subject    string   `json:"subject"`
	GradeLevel string   `json:"grade_level"`
	Tags       []string `json:"tags"`
}

func (r lessonRequest) validate(partial bool) string {
	if !partial || r.Title != "" {
		if r.Title == "" {
			return "title is required"
		}
	}
	if !partial || r.Content != "" {
		if utf8.RuneCountInString(r.Content) < minContentLen {
			return "content must be at least 50 characters"
		}
	}
	return ""
}

func (s *Server) listLessons(c *gin.Context) {
	filters := store.LessonFilters{
		Subject:    c.Query("subject"),
		GradeLevel: c.Query("grade_level"),
		Search:     c.Query("search"),
	}
	filters.Limit, filters.Offset = pagination(c)

	lessons, err := s.lessons.List(c.Request.Context(), filters)
	if err != nil {
		s.serverError(c, "list lessons", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

func (s *Server) createLesson(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return
	}

	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if msg := req.validate(false); msg != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	lesson, err := s.lessons.Create(ctx, store.LessonFields{
		Title:      req.Title,
		Content:    req.Content,
		Subject:    req.Subject,
		GradeLevel: req.GradeLevel,
		Tags:       req.Tags,
		CreatedBy:  currentUserID(c),
	})
	if err != nil {
		s.serverError(c, "create lesson", err)
		return
	}

	// Summary is an enrichment; failures come back as placeholder text
	// and never fail the create.
	summary := s.tutor.Summarize(ctx, lesson)
	if err := s.lessons.UpdateSummary(ctx, lesson.ID, summary); err != nil {
		s.serverError(c, "store summary", err)
		return
	}
	lesson.Summary = summary

	c.JSON(http.StatusCreated, gin.H{"lesson": lesson})
}

func (s *Server) getLesson(c *gin.Context) {
	lesson, ok := s.loadLesson(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	// Only student reads count as views.
	if !isAdmin(c) {
		if err := s.lessons.IncrementViewCount(ctx, lesson.ID); err != nil {
			s.serverError(c, "increment view count", err)
			return
		}
		lesson.ViewCount++
	}

	questions, err := s.question.ListByLessonAndUser(ctx, lesson.ID, currentUserID(c))
	if err != nil {
		s.serverError(c, "load chat history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lesson":          lesson,
		"messages":        tutor.Transcript(questions),
		"questions_count": len(questions),
	})
}

func (s *Server) updateLesson(c *gin.Context) {
	lesson, ok := s.loadLesson(c)
	if !ok {
		return
	}
	if !isAdmin(c) && lesson.CreatedBy != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return
	}

	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if msg := req.validate(true); msg != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	updated, err := s.lessons.Update(ctx, lesson.ID, store.LessonFields{
		Title:      req.Title,
		Content:    req.Content,
		Subject:    req.Subject,
		GradeLevel: req.GradeLevel,
		Tags:       req.Tags,
	})
	if err != nil {
		s.serverError(c, "update lesson", err)
		return
	}

	// Content changed: regenerate the summary.
	if req.Content != "" {
		summary := s.tutor.Summarize(ctx, updated)
		if err := s.lessons.UpdateSummary(ctx, updated.ID, summary); err != nil {
			s.serverError(c, "store summary", err)
			return
		}
		updated.Summary = summary
	}

	c.JSON(http.StatusOK, gin.H{"lesson": updated})
}

func (s *Server) deleteLesson(c *gin.Context) {
	lesson, ok := s.loadLesson(c)
	if !ok {
		return
	}
	if !isAdmin(c) && lesson.CreatedBy != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return
	}

	if err := s.lessons.Delete(c.Request.Context(), lesson.ID); err != nil {
		s.serverError(c, "delete lesson", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lesson deleted successfully"})
}

func (s *Server) popularLessons(c *gin.Context) {
	limit := 6
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	lessons, err := s.lessons.Popular(c.Request.Context(), limit)
	if err != nil {
		s.serverError(c, "popular lessons", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

// loadLesson resolves the :id path param. On failure it writes the error
// response and returns ok=false.
func (s *Server) loadLesson(c *gin.Context) (*store.Lesson, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
		return nil, false
	}

	lesson, err := s.lessons.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
		} else {
			s.serverError(c, "load lesson", err)
		}
		return nil, false
	}
	return lesson, true
}

func (s *Server) serverError(c *gin.Context, op string, err error) {
	s.log.Error(op+" failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 15
	if raw := c.Query("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	return limit, (page - 1) * limit
}
