package repository

import (
	"context"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
)

// SessionFilter - параметры выборки сессий для админки
type SessionFilter struct {
	Page       int
	PageSize   int
	QuestionID *uint
	Finished   *bool
}

// SessionRepository определяет методы для работы с сессиями тестирования и ответами
type SessionRepository interface {
	Create(ctx context.Context, session *entity.TestSession) error
	GetByPublicID(ctx context.Context, publicID string) (*entity.TestSession, error)
	ListResponses(ctx context.Context, sessionID uint) ([]entity.Response, error)
	// AddResponse сохраняет ответ. Повторный ответ на то же направление - apperrors.ErrConflict.
	AddResponse(ctx context.Context, response *entity.Response) error
	// Finish сохраняет итог, только если сессия ещё не завершена. false - итог уже был.
	Finish(ctx context.Context, session *entity.TestSession) (bool, error)
	List(ctx context.Context, filter SessionFilter) ([]entity.TestSession, int64, error)
	GetByIDs(ctx context.Context, ids []uint) ([]entity.TestSession, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}
