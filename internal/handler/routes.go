package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/spatial-quiz-api/internal/middleware"
)

// Handlers - обработчики API. Группа с nil-обработчиком не регистрируется.
type Handlers struct {
	Quiz     *QuizHandler
	Question *QuestionHandler
	Session  *SessionHandler
	Monitor  *MonitorHandler
}

// RouteOptions - middleware, которые зависят от инфраструктуры
type RouteOptions struct {
	Tickets    middleware.TicketVerifier
	StartLimit gin.HandlerFunc
	AdminLimit gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// RegisterRoutes регистрирует маршруты /api
func RegisterRoutes(r gin.IRouter, h Handlers, opts RouteOptions) {
	api := r.Group("/api")

	if h.Quiz != nil {
		quiz := api.Group("/quiz")
		quiz.POST("/start", chain(opts.StartLimit, h.Quiz.Start)...)

		session := quiz.Group("/:session", middleware.RequireSessionTicket(opts.Tickets, "session"))
		{
			session.GET("/question/:direction", h.Quiz.GetQuestion)
			session.POST("/answer", h.Quiz.SubmitAnswer)
			session.GET("/result", h.Quiz.GetResult)
		}
	}

	admin := api.Group("/admin", chain(opts.AdminLimit)...)

	if h.Question != nil {
		questions := admin.Group("/questions")
		{
			questions.GET("", h.Question.List)
			questions.POST("", h.Question.Create)
			questions.POST("/batch-toggle", h.Question.BatchToggle)

			withID := questions.Group("/:id", middleware.ExtractUintParam("id", middleware.ContextQuestionID))
			withID.GET("", h.Question.Get)
			withID.PUT("", h.Question.Update)
			withID.DELETE("", h.Question.Delete)
			withID.POST("/toggle", h.Question.Toggle)
		}
		admin.POST("/answers/generate", h.Question.GenerateAnswers)
		admin.POST("/placement/preview", h.Question.Preview)
	}

	if h.Session != nil {
		sessions := admin.Group("/test-sessions")
		{
			sessions.GET("", h.Session.List)
			sessions.POST("/batch-delete", h.Session.BatchDelete)
			sessions.POST("/export", h.Session.Export)
		}
	}

	if h.Monitor != nil {
		admin.GET("/monitor", h.Monitor.Connect)
		admin.GET("/monitor/metrics", h.Monitor.Metrics)
	}
}
