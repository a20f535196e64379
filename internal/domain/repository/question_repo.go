package repository

import (
	"context"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	GetByID(ctx context.Context, id uint) (*entity.Question, error)
	// List возвращает все вопросы, новые первыми
	List(ctx context.Context) ([]entity.Question, error)
	Update(ctx context.Context, question *entity.Question) error
	// Delete удаляет вопрос вместе с его сессиями и ответами
	Delete(ctx context.Context, id uint) error
	// Toggle инвертирует is_active и возвращает новое значение
	Toggle(ctx context.Context, id uint) (bool, error)
	SetActiveBatch(ctx context.Context, ids []uint, active bool) (int64, error)
	// GetRandomActive возвращает случайный активный вопрос
	GetRandomActive(ctx context.Context) (*entity.Question, error)
}
