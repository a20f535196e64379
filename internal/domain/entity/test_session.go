package entity

import (
	"fmt"
	"time"

	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
)

// Demographics - анкетные данные респондента
type Demographics struct {
	Name             *string `gorm:"column:tester_name;size:100" json:"name,omitempty"`
	AgeGroup         string  `gorm:"column:tester_age_group;size:20;not null" json:"age_group"`
	Gender           string  `gorm:"column:tester_gender;size:20;not null" json:"gender"`
	Education        string  `gorm:"column:tester_education;size:20;not null" json:"education"`
	VisionStatus     string  `gorm:"column:tester_vision_status;size:30;not null" json:"vision_status"`
	InjuryAge        *int    `gorm:"column:tester_injury_age" json:"injury_age,omitempty"`
	BrailleAbility   string  `gorm:"column:tester_braille_ability;size:20;not null" json:"braille_ability"`
	MobilityAbility  string  `gorm:"column:tester_mobility_ability;size:20;not null" json:"mobility_ability"`
	DrawingFrequency string  `gorm:"column:tester_drawing_frequency;size:20;not null" json:"drawing_frequency"`
	MuseumExperience string  `gorm:"column:tester_museum_experience;size:30;not null" json:"museum_experience"`
}

// MissingFields возвращает имена незаполненных обязательных полей
func (d Demographics) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"age_group", d.AgeGroup},
		{"gender", d.Gender},
		{"education", d.Education},
		{"vision_status", d.VisionStatus},
		{"braille_ability", d.BrailleAbility},
		{"mobility_ability", d.MobilityAbility},
		{"drawing_frequency", d.DrawingFrequency},
		{"museum_experience", d.MuseumExperience},
	}
	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// TestSession - прохождение теста одним респондентом
type TestSession struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// PublicID - идентификатор сессии, выдаваемый клиенту
	PublicID   string    `gorm:"size:36;uniqueIndex;not null" json:"session_id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`

	Demographics `gorm:"embedded"`

	// QuestionOrder - 8 ключей направлений: 4 основных, затем 4 диагональных
	QuestionOrder StringArray `gorm:"type:jsonb;not null" json:"question_order"`
	Responses     []Response  `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"responses,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	// OverallAccuracy - доля правильных ответов 0..1
	OverallAccuracy *float64 `json:"overall_accuracy,omitempty"`
	// AverageReactionTime - среднее время реакции, мс
	AverageReactionTime *float64 `json:"average_reaction_time,omitempty"`
	CorrectCount        *int     `json:"correct_count,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (TestSession) TableName() string {
	return "test_sessions"
}

// Order возвращает порядок направлений сессии
func (s *TestSession) Order() ([]spatial.Direction, error) {
	order, err := spatial.ParseDirections(s.QuestionOrder)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", s.PublicID, err)
	}
	return order, nil
}

// IsFinished - итог уже рассчитан и сохранён
func (s *TestSession) IsFinished() bool {
	return s.FinishedAt != nil
}

// Finish сохраняет итог сессии. Повторный вызов не меняет сохранённые значения.
func (s *TestSession) Finish(result SessionResult, at time.Time) bool {
	if s.IsFinished() {
		return false
	}
	accuracy := result.Accuracy
	avg := result.AverageReactionTimeMs
	correct := result.CorrectCount
	s.OverallAccuracy = &accuracy
	s.AverageReactionTime = &avg
	s.CorrectCount = &correct
	s.FinishedAt = &at
	return true
}

// StoredResult возвращает сохранённый итог завершённой сессии
func (s *TestSession) StoredResult() (SessionResult, bool) {
	if !s.IsFinished() || s.OverallAccuracy == nil || s.AverageReactionTime == nil {
		return SessionResult{}, false
	}
	r := SessionResult{
		Total:                 spatial.QuestionCount,
		Accuracy:              *s.OverallAccuracy,
		AverageReactionTimeMs: *s.AverageReactionTime,
	}
	if s.CorrectCount != nil {
		r.CorrectCount = *s.CorrectCount
	}
	return r, true
}
