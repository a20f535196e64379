package entity

import (
	"fmt"

	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
)

// SessionResult - итог прохождения теста
type SessionResult struct {
	Total        int `json:"total"`
	CorrectCount int `json:"correct_count"`
	// Accuracy - доля правильных ответов: correct / 8
	Accuracy float64 `json:"accuracy"`
	// AverageReactionTimeMs - среднее арифметическое восьми времён реакции
	AverageReactionTimeMs float64 `json:"average_reaction_time_ms"`
}

// ComputeResult рассчитывает итог по ответам сессии.
// Ответов должно быть ровно столько, сколько направлений в тесте.
func ComputeResult(responses []Response) (SessionResult, error) {
	if len(responses) != spatial.QuestionCount {
		return SessionResult{}, fmt.Errorf("expected %d responses, got %d", spatial.QuestionCount, len(responses))
	}
	var correct int
	var totalMs int64
	for _, r := range responses {
		if r.IsCorrect {
			correct++
		}
		totalMs += r.ReactionTimeMs
	}
	n := float64(len(responses))
	return SessionResult{
		Total:                 len(responses),
		CorrectCount:          correct,
		Accuracy:              float64(correct) / n,
		AverageReactionTimeMs: float64(totalMs) / n,
	}, nil
}

// AccuracyPercent форматирует точность как "62.50%"
func (r SessionResult) AccuracyPercent() string {
	return fmt.Sprintf("%.2f%%", r.Accuracy*100)
}

// AverageReactionSeconds форматирует среднее время реакции в секундах: "1.23"
func (r SessionResult) AverageReactionSeconds() string {
	return fmt.Sprintf("%.2f", r.AverageReactionTimeMs/1000)
}
