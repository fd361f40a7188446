package httpapi

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/pkamble/lessonchat/internal/insights"
	"github.com/pkamble/lessonchat/internal/logger"
	"github.com/pkamble/lessonchat/internal/store"
	"github.com/pkamble/lessonchat/internal/tutor"
)

// Config holds HTTP server settings.
type Config struct {
	Addr string
	Mode string // gin mode: "debug", "release", "test"
}

// ConfigFromEnv builds a Config from LESSONCHAT_ADDR / LESSONCHAT_ENV.
func ConfigFromEnv() Config {
	cfg := Config{Addr: ":8080", Mode: gin.DebugMode}
	if a := os.Getenv("LESSONCHAT_ADDR"); a != "" {
		cfg.Addr = a
	}
	if e := os.Getenv("LESSONCHAT_ENV"); e == "prod" || e == "production" {
		cfg.Mode = gin.ReleaseMode
	}
	return cfg
}

// Server is the JSON API over the tutoring core. Authentication is a
// collaborator: requests arrive with identity already resolved into
// headers, and handlers only consume it.
type Server struct {
	cfg      Config
	router   *gin.Engine
	lessons  store.LessonRepo
	question store.QuestionRepo
	tutor    *tutor.Service
	insights *insights.Service
	log      *logger.Logger
}

// New wires the API server.
func New(cfg Config, lessons store.LessonRepo, questions store.QuestionRepo, tut *tutor.Service, ins *insights.Service, log *logger.Logger) *Server {
	gin.SetMode(cfg.Mode)

	s := &Server{
		cfg:      cfg,
		lessons:  lessons,
		question: questions,
		tutor:    tut,
		insights: ins,
		log:      log.With("component", "httpapi"),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	s.registerRoutes(router)
	s.router = router

	return s
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	s.log.Info("http server listening", "addr", s.cfg.Addr)
	return s.router.Run(s.cfg.Addr)
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(s.identity())

	api.GET("/lessons", s.listLessons)
	api.POST("/lessons", s.createLesson)
	api.GET("/lessons/popular", s.popularLessons)
	api.GET("/lessons/:id", s.getLesson)
	api.PUT("/lessons/:id", s.updateLesson)
	api.DELETE("/lessons/:id", s.deleteLesson)

	api.POST("/lessons/:id/ask", s.askQuestion)
	api.GET("/lessons/:id/questions", s.lessonQuestions)
	api.DELETE("/lessons/:id/chat", s.clearChat)
	api.GET("/lessons/:id/recommendations", s.recommendLessons)

	api.POST("/questions/:id/rate", s.rateQuestion)
	api.DELETE("/questions/:id", s.deleteQuestion)
	api.GET("/questions/history", s.questionHistory)

	admin := api.Group("/admin")
	admin.Use(s.requireAdmin())
	admin.GET("/statistics", s.statistics)
	admin.GET("/questions/popular", s.popularQuestions)
	admin.GET("/lessons/:id/analytics", s.lessonAnalytics)
	admin.GET("/lessons/:id/export", s.exportLesson)
}
