package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	var question entity.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &question, nil
}

// List возвращает все вопросы, новые первыми
func (r *QuestionRepo) List(ctx context.Context) ([]entity.Question, error) {
	var questions []entity.Question
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// Update сохраняет все поля вопроса
func (r *QuestionRepo) Update(ctx context.Context, question *entity.Question) error {
	result := r.db.WithContext(ctx).Model(question).Select("*").Omit("created_at").Updates(question)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: question #%d", apperrors.ErrNotFound, question.ID)
	}
	return nil
}

// Delete удаляет вопрос, его сессии и ответы в одной транзакции
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessionIDs := tx.Model(&entity.TestSession{}).Select("id").Where("question_id = ?", id)
		if err := tx.Where("test_session_id IN (?)", sessionIDs).Delete(&entity.Response{}).Error; err != nil {
			return fmt.Errorf("delete responses of question #%d: %w", id, err)
		}
		if err := tx.Where("question_id = ?", id).Delete(&entity.TestSession{}).Error; err != nil {
			return fmt.Errorf("delete sessions of question #%d: %w", id, err)
		}
		result := tx.Delete(&entity.Question{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: question #%d", apperrors.ErrNotFound, id)
		}
		return nil
	})
}

// Toggle инвертирует флаг is_active
func (r *QuestionRepo) Toggle(ctx context.Context, id uint) (bool, error) {
	var active bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question entity.Question
		if err := tx.Select("id", "is_active").First(&question, id).Error; err != nil {
			return mapNotFound(err)
		}
		active = !question.IsActive
		return tx.Model(&question).Update("is_active", active).Error
	})
	return active, err
}

// SetActiveBatch устанавливает is_active для набора вопросов
func (r *QuestionRepo) SetActiveBatch(ctx context.Context, ids []uint, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&entity.Question{}).Where("id IN ?", ids).Update("is_active", active)
	return result.RowsAffected, result.Error
}

// GetRandomActive возвращает случайный активный вопрос.
// Таблица вопросов небольшая, поэтому ORDER BY RANDOM() достаточно.
func (r *QuestionRepo) GetRandomActive(ctx context.Context) (*entity.Question, error) {
	var question entity.Question
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("RANDOM()").Take(&question).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &question, nil
}
