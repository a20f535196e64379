package dto

import (
	"time"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/domain/repository"
)

// SessionListQuery - параметры списка сессий
type SessionListQuery struct {
	Page       int   `form:"page" binding:"omitempty,min=1"`
	PageSize   int   `form:"page_size" binding:"omitempty,min=1,max=100"`
	QuestionID *uint `form:"question_id"`
	Finished   *bool `form:"finished"`
}

// Filter переводит запрос в фильтр репозитория
func (q *SessionListQuery) Filter() repository.SessionFilter {
	return repository.SessionFilter{
		Page:       q.Page,
		PageSize:   q.PageSize,
		QuestionID: q.QuestionID,
		Finished:   q.Finished,
	}
}

// SessionIDsRequest - выбор сессий для удаления или экспорта
type SessionIDsRequest struct {
	SessionIDs []uint `json:"session_ids" binding:"required,min=1"`
}

// ResponseItem - ответ на одно направление
type ResponseItem struct {
	Direction      string `json:"direction"`
	Position       int    `json:"position"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	ReactionTimeMs int64  `json:"reaction_time_ms"`
}

// SessionResponse - сессия для админки
type SessionResponse struct {
	ID         uint     `json:"id"`
	SessionID  string   `json:"session_id"`
	QuestionID uint     `json:"question_id"`
	Order      []string `json:"question_order"`
	entity.Demographics
	CreatedAt           time.Time      `json:"created_at"`
	FinishedAt          *time.Time     `json:"finished_at,omitempty"`
	CorrectCount        *int           `json:"correct_count,omitempty"`
	Accuracy            string         `json:"accuracy,omitempty"`
	AverageReactionTime string         `json:"average_reaction_time,omitempty"`
	Responses           []ResponseItem `json:"responses"`
}

// NewSessionResponse создает DTO сессии
func NewSessionResponse(s *entity.TestSession) *SessionResponse {
	out := &SessionResponse{
		ID:           s.ID,
		SessionID:    s.PublicID,
		QuestionID:   s.QuestionID,
		Order:        s.QuestionOrder,
		Demographics: s.Demographics,
		CreatedAt:    s.CreatedAt,
		FinishedAt:   s.FinishedAt,
		CorrectCount: s.CorrectCount,
		Responses:    make([]ResponseItem, 0, len(s.Responses)),
	}
	if r, ok := s.StoredResult(); ok {
		out.Accuracy = r.AccuracyPercent()
		out.AverageReactionTime = r.AverageReactionSeconds()
	}
	for _, r := range s.Responses {
		out.Responses = append(out.Responses, ResponseItem{
			Direction:      r.Direction,
			Position:       r.Position,
			UserAnswer:     r.UserAnswer,
			CorrectAnswer:  r.CorrectAnswer,
			IsCorrect:      r.IsCorrect,
			ReactionTimeMs: r.ReactionTimeMs,
		})
	}
	return out
}

// PaginatedSessionResponse - страница сессий
type PaginatedSessionResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PerPage  int                `json:"per_page"`
}
