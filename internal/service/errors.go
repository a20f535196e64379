package service

import (
	"fmt"

	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// Ошибки сервисов прохождения теста
var (
	// ErrAlreadyAnswered - на направление уже получен ответ
	ErrAlreadyAnswered = fmt.Errorf("%w: direction already answered", apperrors.ErrConflict)
	// ErrOutOfOrder - направление запрошено не в порядке сессии
	ErrOutOfOrder = fmt.Errorf("%w: direction is not next in session order", apperrors.ErrConflict)
	// ErrNotInOrder - направления нет в порядке вопросов сессии
	ErrNotInOrder = fmt.Errorf("%w: direction is not part of session order", apperrors.ErrValidation)
	// ErrSessionFinished - сессия уже завершена
	ErrSessionFinished = fmt.Errorf("%w: session already finished", apperrors.ErrConflict)
	// ErrSessionIncomplete - итог запрошен до ответа на все направления
	ErrSessionIncomplete = fmt.Errorf("%w: test not completed", apperrors.ErrConflict)
	// ErrNoActiveQuestion - нет активных вопросов для новой сессии
	ErrNoActiveQuestion = fmt.Errorf("%w: no active question available", apperrors.ErrNotFound)
)
