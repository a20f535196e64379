package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// SessionRepo реализует repository.SessionRepository
type SessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo создает новый репозиторий сессий тестирования
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create создает новую сессию
func (r *SessionRepo) Create(ctx context.Context, session *entity.TestSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByPublicID возвращает сессию по публичному идентификатору
func (r *SessionRepo) GetByPublicID(ctx context.Context, publicID string) (*entity.TestSession, error) {
	var session entity.TestSession
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&session).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &session, nil
}

// ListResponses возвращает ответы сессии в порядке прохождения
func (r *SessionRepo) ListResponses(ctx context.Context, sessionID uint) ([]entity.Response, error) {
	var responses []entity.Response
	err := r.db.WithContext(ctx).
		Where("test_session_id = ?", sessionID).
		Order("position ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// AddResponse сохраняет ответ на направление.
// Уникальный индекс (test_session_id, direction) не даёт записать второй ответ.
func (r *SessionRepo) AddResponse(ctx context.Context, response *entity.Response) error {
	if err := r.db.WithContext(ctx).Create(response).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: direction %s already answered", apperrors.ErrConflict, response.Direction)
		}
		return err
	}
	return nil
}

// Finish записывает итог, если сессия ещё не завершена
func (r *SessionRepo) Finish(ctx context.Context, session *entity.TestSession) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.TestSession{}).
		Where("id = ? AND finished_at IS NULL", session.ID).
		Updates(map[string]interface{}{
			"finished_at":           session.FinishedAt,
			"overall_accuracy":      session.OverallAccuracy,
			"average_reaction_time": session.AverageReactionTime,
			"correct_count":         session.CorrectCount,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func withResponses(db *gorm.DB) *gorm.DB {
	return db.Preload("Responses", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// List возвращает страницу сессий с ответами и общее количество
func (r *SessionRepo) List(ctx context.Context, filter repository.SessionFilter) ([]entity.TestSession, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.QuestionID != nil {
			db = db.Where("question_id = ?", *filter.QuestionID)
		}
		if filter.Finished != nil {
			if *filter.Finished {
				db = db.Where("finished_at IS NOT NULL")
			} else {
				db = db.Where("finished_at IS NULL")
			}
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.TestSession{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	var sessions []entity.TestSession
	err := withResponses(r.db.WithContext(ctx)).
		Scopes(scope).
		Order("id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// GetByIDs возвращает сессии с ответами по списку ID
func (r *SessionRepo) GetByIDs(ctx context.Context, ids []uint) ([]entity.TestSession, error) {
	var sessions []entity.TestSession
	if len(ids) == 0 {
		return sessions, nil
	}
	err := withResponses(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteByIDs удаляет сессии и их ответы
func (r *SessionRepo) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_session_id IN ?", ids).Delete(&entity.Response{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&entity.TestSession{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}
