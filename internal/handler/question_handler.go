package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/spatial-quiz-api/internal/handler/dto"
	"github.com/yourusername/spatial-quiz-api/internal/middleware"
	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	"github.com/yourusername/spatial-quiz-api/internal/service"
)

// QuestionHandler обслуживает админские операции с вопросами
type QuestionHandler struct {
	questionService *service.QuestionService
	log             *logger.Logger
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService, log *logger.Logger) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, log: log.Component("QuestionHandler")}
}

// List возвращает все вопросы, новые первыми
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questionService.List(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	out := make([]*dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, dto.NewQuestionResponse(&questions[i], h.questionService.ImageURL(&questions[i])))
	}
	c.JSON(http.StatusOK, out)
}

// questionID - ID из пути, разобранный ExtractUintParam
func (h *QuestionHandler) questionID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UintParam(c, middleware.ContextQuestionID)
	if !ok {
		handleError(c, h.log, fmt.Errorf("%w: question id is not set for %s", apperrors.ErrInvariant, c.FullPath()))
	}
	return id, ok
}

// Get возвращает вопрос по ID
func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := h.questionID(c)
	if !ok {
		return
	}

	q, err := h.questionService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionResponse(q, h.questionService.ImageURL(q)))
}

// imageFromForm открывает файл "image". Отсутствие файла не ошибка.
func imageFromForm(c *gin.Context) (io.ReadCloser, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return fh.Open()
}

// Create создаёт вопрос из multipart-формы
func (h *QuestionHandler) Create(c *gin.Context) {
	var form dto.QuestionForm
	if err := c.ShouldBind(&form); err != nil {
		handleBindError(c, err)
		return
	}

	file, err := imageFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var image io.Reader
	if file != nil {
		defer file.Close()
		image = file
	}

	q, err := h.questionService.Create(c.Request.Context(), form.Input(), image)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuestionResponse(q, h.questionService.ImageURL(q)))
}

// Update изменяет вопрос. Новое изображение необязательно.
func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := h.questionID(c)
	if !ok {
		return
	}

	var form dto.QuestionForm
	if err := c.ShouldBind(&form); err != nil {
		handleBindError(c, err)
		return
	}

	file, err := imageFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var image io.Reader
	if file != nil {
		defer file.Close()
		image = file
	}

	q, err := h.questionService.Update(c.Request.Context(), id, form.Input(), image)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionResponse(q, h.questionService.ImageURL(q)))
}

// Delete удаляет вопрос вместе с его сессиями
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := h.questionID(c)
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// Toggle переключает активность вопроса
func (h *QuestionHandler) Toggle(c *gin.Context) {
	id, ok := h.questionID(c)
	if !ok {
		return
	}

	active, err := h.questionService.Toggle(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": active})
}

// BatchToggle включает или выключает несколько вопросов
func (h *QuestionHandler) BatchToggle(c *gin.Context) {
	var req dto.BatchToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	updated, err := h.questionService.SetActiveBatch(c.Request.Context(), req.QuestionIDs, *req.IsActive)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated, "is_active": *req.IsActive})
}

// GenerateAnswers рассчитывает ответы для основных направлений
func (h *QuestionHandler) GenerateAnswers(c *gin.Context) {
	var req dto.PlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	answers, err := h.questionService.GenerateAnswers(req.Coords())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGeneratedAnswersResponse(answers))
}

// Preview возвращает PNG с расстановкой
func (h *QuestionHandler) Preview(c *gin.Context) {
	var req dto.PlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	size := req.Size
	if size == 0 {
		size = 300
	}
	png, err := h.questionService.Preview(req.Coords(), size)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
