package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	"github.com/yourusername/spatial-quiz-api/internal/websocket"
)

// MonitorHandler подключает админские мониторы к хабу событий
type MonitorHandler struct {
	hub *websocket.Hub
	log *logger.Logger
}

// NewMonitorHandler создает обработчик монитора
func NewMonitorHandler(hub *websocket.Hub, log *logger.Logger) *MonitorHandler {
	return &MonitorHandler{hub: hub, log: log.Component("MonitorHandler")}
}

// Connect апгрейдит соединение до websocket
func (h *MonitorHandler) Connect(c *gin.Context) {
	if err := h.hub.ServeWS(c.Writer, c.Request); err != nil {
		// Upgrader уже ответил клиенту
		h.log.Warn("Monitor connection failed", "ip", c.ClientIP(), "error", err)
	}
}

// Metrics возвращает счётчики хаба
func (h *MonitorHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.GetMetrics())
}
