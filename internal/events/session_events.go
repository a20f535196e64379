package events

import (
	"time"

	"github.com/google/uuid"
)

// SessionEventType - тип события сессии тестирования
type SessionEventType string

const (
	SessionStarted  SessionEventType = "session_started"
	AnswerRecorded  SessionEventType = "answer_recorded"
	SessionFinished SessionEventType = "session_finished"
)

// SessionEvent публикуется при каждом изменении сессии.
// Поля ответа и итога заполняются только для соответствующих типов.
type SessionEvent struct {
	ID         string           `json:"id"`
	Type       SessionEventType `json:"type"`
	SessionID  string           `json:"session_id"`
	QuestionID uint             `json:"question_id"`
	Timestamp  time.Time        `json:"timestamp"`

	Direction      string `json:"direction,omitempty"`
	Position       int    `json:"position,omitempty"`
	IsCorrect      *bool  `json:"is_correct,omitempty"`
	ReactionTimeMs int64  `json:"reaction_time_ms,omitempty"`

	Accuracy              *float64 `json:"accuracy,omitempty"`
	AverageReactionTimeMs *float64 `json:"average_reaction_time_ms,omitempty"`
}

// NewSessionEvent создаёт событие с новым ID и текущим временем
func NewSessionEvent(t SessionEventType, sessionID string, questionID uint) *SessionEvent {
	return &SessionEvent{
		ID:         uuid.NewString(),
		Type:       t,
		SessionID:  sessionID,
		QuestionID: questionID,
		Timestamp:  time.Now().UTC(),
	}
}
