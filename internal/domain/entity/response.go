package entity

import "time"

// Response - ответ респондента на одно направление
type Response struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SessionID      uint      `gorm:"column:test_session_id;not null;uniqueIndex:idx_responses_session_direction" json:"-"`
	Direction      string    `gorm:"size:8;not null;uniqueIndex:idx_responses_session_direction" json:"direction"`
	Position       int       `gorm:"not null" json:"position"`
	UserAnswer     string    `gorm:"size:20;not null" json:"user_answer"`
	CorrectAnswer  string    `gorm:"size:20;not null" json:"correct_answer"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	ReactionTimeMs int64     `gorm:"not null" json:"reaction_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Response) TableName() string {
	return "responses"
}
