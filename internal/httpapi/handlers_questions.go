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

const maxFeedbackLen = 500

type askRequest struct {
	Question string `json:"question"`
}

type rateRequest struct {
	Rating   int     `json:"rating"`
	Feedback *string `json:"feedback"`
}

// askQuestion runs the full question flow: load the lesson, generate an
// answer, persist the exchange, and return the new chat messages along
// with the refreshed transcript.
func (s *Server) askQuestion(c *gin.Context) {
	lesson, ok := s.loadLesson(c)
	if !ok {
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := currentUserID(c)
	record, err := s.tutor.Answer(c.Request.Context(), lesson, userID, req.Question)
	if err != nil {
		if errors.Is(err, tutor.ErrInvalidQuestion) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		s.serverError(c, "answer question", err)
		return
	}

	questions, err := s.question.ListByLessonAndUser(c.Request.Context(), lesson.ID, userID)
	if err != nil {
		s.serverError(c, "list questions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":           record.Answer,
		"question_id":      record.QuestionID,
		"new_user_message": record.UserMsg,
		"new_ai_message":   record.AIMsg,
		"messages":         tutor.Transcript(questions),
		"questions_count":  len(questions),
	})
}

// lessonQuestions returns the caller's chat transcript for a lesson.
func (s *Server) lessonQuestions(c *gin.Context) {
	lesson, ok := s.loadLesson(c)
	if !ok {
		return
	}

	questions, err := s.question.ListByLessonAndUser(c.Request.Context(), lesson.ID, currentUserID(c))
	if err != nil {
		s.serverError(c, "list questions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":        tutor.Transcript(questions),
		"questions_count": len(questions),
	})
}

// clearChat deletes the caller's question history for a lesson. Other
// students' exchanges on the same lesson are untouched.
func (s *Server) clearChat(c *gin.Context) {
	lesson, ok := s.loadLesson(c)
	if !ok {
		return
	}

	if err := s.question.DeleteByLessonAndUser(c.Request.Context(), lesson.ID, currentUserID(c)); err != nil {
		s.serverError(c, "clear chat", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared"})
}

// recommendLessons suggests up to three related lessons based on the
// student's question. Failures degrade to an empty list.
func (s *Server) recommendLessons(c *gin.Context) {
	lesson, ok := s.loadLesson(c)
	if !ok {
		return
	}

	question := c.Query("question")
	if question == "" {
		c.JSON(http.StatusOK, gin.H{"recommendations": []tutor.Recommendation{}})
		return
	}

	candidates, err := s.lessons.AllExcept(c.Request.Context(), lesson.ID)
	if err != nil {
		s.serverError(c, "load candidate lessons", err)
		return
	}

	recs := s.tutor.Recommend(c.Request.Context(), lesson, question, candidates)
	if recs == nil {
		recs = []tutor.Recommendation{}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// rateQuestion records a 1-5 rating with optional feedback. Only the
// student who asked may rate, and re-rating overwrites.
func (s *Server) rateQuestion(c *gin.Context) {
	question, ok := s.loadQuestion(c)
	if !ok {
		return
	}

	if question.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "rating must be between 1 and 5"})
		return
	}
	if req.Feedback != nil && utf8.RuneCountInString(*req.Feedback) > maxFeedbackLen {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "feedback must be at most 500 characters"})
		return
	}

	if err := s.question.Rate(c.Request.Context(), question.ID, req.Rating, req.Feedback); err != nil {
		s.serverError(c, "rate question", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thank you for your feedback!"})
}

// deleteQuestion removes a single exchange. The asking student or an
// admin may delete.
func (s *Server) deleteQuestion(c *gin.Context) {
	question, ok := s.loadQuestion(c)
	if !ok {
		return
	}

	if question.UserID != currentUserID(c) && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return
	}

	if err := s.question.Delete(c.Request.Context(), question.ID); err != nil {
		s.serverError(c, "delete question", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// questionHistory lists the caller's past questions across all lessons,
// newest first, with optional lesson and text filters.
func (s *Server) questionHistory(c *gin.Context) {
	filters := store.QuestionFilters{
		Search: c.Query("search"),
	}
	if raw := c.Query("lesson_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
			return
		}
		filters.LessonID = uint(id)
	}
	filters.Limit, filters.Offset = pagination(c)

	questions, err := s.question.History(c.Request.Context(), currentUserID(c), filters)
	if err != nil {
		s.serverError(c, "load question history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (s *Server) loadQuestion(c *gin.Context) (*store.Question, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return nil, false
	}
	question, err := s.question.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return nil, false
		}
		s.serverError(c, "load question", err)
		return nil, false
	}
	return question, true
}
