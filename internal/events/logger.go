package events

import (
	"github.com/ThreeDotsLabs/watermill"

	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
)

// zapAdapter реализует watermill.LoggerAdapter поверх логгера приложения
type zapAdapter struct {
	log *logger.Logger
}

// NewWatermillLogger оборачивает логгер приложения для watermill
func NewWatermillLogger(log *logger.Logger) watermill.LoggerAdapter {
	return zapAdapter{log: log.Component("watermill")}
}

func flatten(fields watermill.LogFields) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return kv
}

func (a zapAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(flatten(fields), "error", err)...)
}

func (a zapAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, flatten(fields)...)
}

func (a zapAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, flatten(fields)...)
}

// Trace у zap нет, пишем в debug
func (a zapAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, flatten(fields)...)
}

func (a zapAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return zapAdapter{log: a.log.With(flatten(fields)...)}
}
