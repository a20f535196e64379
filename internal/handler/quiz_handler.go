package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/spatial-quiz-api/internal/handler/dto"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	"github.com/yourusername/spatial-quiz-api/internal/service"
)

// QuizHandler обслуживает прохождение теста респондентом
type QuizHandler struct {
	quizService *service.QuizService
	log         *logger.Logger
}

// NewQuizHandler создает новый обработчик теста
func NewQuizHandler(quizService *service.QuizService, log *logger.Logger) *QuizHandler {
	return &QuizHandler{quizService: quizService, log: log.Component("QuizHandler")}
}

// Start создаёт сессию по анкете и выдаёт тикет
func (h *QuizHandler) Start(c *gin.Context) {
	var req dto.StartQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	res, err := h.quizService.Start(c.Request.Context(), req.Demographics())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewStartQuizResponse(res))
}

// GetQuestion возвращает данные направления и варианты ответа
func (h *QuizHandler) GetQuestion(c *gin.Context) {
	prompt, err := h.quizService.GetDirectionPrompt(c.Request.Context(), c.Param("session"), c.Param("direction"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDirectionQuestionResponse(prompt))
}

// SubmitAnswer принимает ответ на направление
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	outcome, err := h.quizService.SubmitAnswer(c.Request.Context(), c.Param("session"), service.SubmitInput{
		Direction:      req.Direction,
		Answer:         req.Answer,
		ReactionTimeMs: *req.TimeMs,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSubmitAnswerResponse(outcome))
}

// GetResult возвращает итог завершённой сессии
func (h *QuizHandler) GetResult(c *gin.Context) {
	sessionID := c.Param("session")
	result, err := h.quizService.GetResult(c.Request.Context(), sessionID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResultResponse(sessionID, result))
}
