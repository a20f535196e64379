package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/spatial-quiz-api/internal/handler/dto"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	"github.com/yourusername/spatial-quiz-api/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SessionHandler обслуживает админские операции с сессиями тестирования
type SessionHandler struct {
	sessionService *service.SessionService
	log            *logger.Logger
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, log: log.Component("SessionHandler")}
}

// List возвращает страницу сессий с ответами
func (h *SessionHandler) List(c *gin.Context) {
	var query dto.SessionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		handleBindError(c, err)
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.PageSize == 0 {
		query.PageSize = 20
	}

	sessions, total, err := h.sessionService.List(c.Request.Context(), query.Filter())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	out := make([]*dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, dto.NewSessionResponse(&sessions[i]))
	}
	c.JSON(http.StatusOK, dto.PaginatedSessionResponse{
		Sessions: out,
		Total:    total,
		Page:     query.Page,
		PerPage:  query.PageSize,
	})
}

// BatchDelete удаляет выбранные сессии
func (h *SessionHandler) BatchDelete(c *gin.Context) {
	var req dto.SessionIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	deleted, err := h.sessionService.BatchDelete(c.Request.Context(), req.SessionIDs)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// Export отдаёт XLSX с выбранными сессиями.
// Файл собирается в памяти, чтобы ошибка не оборвала уже начатый ответ.
func (h *SessionHandler) Export(c *gin.Context) {
	var req dto.SessionIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.sessionService.Export(c.Request.Context(), req.SessionIDs, &buf); err != nil {
		handleError(c, h.log, err)
		return
	}

	filename := fmt.Sprintf("test_sessions_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
