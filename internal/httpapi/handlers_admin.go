package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statistics returns the platform-wide dashboard numbers.
func (s *Server) statistics(c *gin.Context) {
	stats, err := s.insights.Statistics(c.Request.Context())
	if err != nil {
		s.serverError(c, "load statistics", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// popularQuestions lists question texts asked more than once, most
// frequent first.
func (s *Server) popularQuestions(c *gin.Context) {
	popular, err := s.insights.PopularQuestions(c.Request.Context())
	if err != nil {
		s.serverError(c, "load popular questions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": popular})
}

// lessonAnalytics returns per-lesson engagement and difficulty signals.
func (s *Server) lessonAnalytics(c *gin.Context) {
	lesson, ok := s.loadLesson(c)
	if !ok {
		return
	}

	analytics, err := s.insights.LessonAnalytics(c.Request.Context(), lesson.ID)
	if err != nil {
		s.serverError(c, "load lesson analytics", err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// exportLesson returns the lesson and its full question log as a JSON
// attachment.
func (s *Server) exportLesson(c *gin.Context) {
	lesson, ok := s.loadLesson(c)
	if !ok {
		return
	}

	export, err := s.insights.Export(c.Request.Context(), lesson.ID)
	if err != nil {
		s.serverError(c, "export lesson", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=lesson-%d-export.json", lesson.ID))
	c.JSON(http.StatusOK, export)
}
