package spatial

import (
	"errors"
	"fmt"

	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// Ошибки предметной области. Пользовательские ошибки оборачивают apperrors.ErrValidation,
// нарушения инвариантов - apperrors.ErrInvariant.
var (
	ErrCenterCell          = fmt.Errorf("%w: center cell is reserved", apperrors.ErrValidation)
	ErrAxisConflict        = fmt.Errorf("%w: another object already occupies this row or column", apperrors.ErrValidation)
	ErrCellOutOfRange      = fmt.Errorf("%w: cell index out of range", apperrors.ErrValidation)
	ErrCoordOutOfRange     = fmt.Errorf("%w: coordinate out of range", apperrors.ErrValidation)
	ErrIncompletePlacement = fmt.Errorf("%w: INCOMPLETE_PLACEMENT", apperrors.ErrValidation)
	ErrUnknownObject       = fmt.Errorf("%w: unknown object kind", apperrors.ErrValidation)
	ErrUnknownDirection    = fmt.Errorf("%w: unknown direction", apperrors.ErrValidation)
	ErrInvalidAnswer       = fmt.Errorf("%w: malformed answer option", apperrors.ErrValidation)
	ErrOptionNotAllowed    = fmt.Errorf("%w: answer option is not allowed for direction", apperrors.ErrValidation)
	ErrAnswerUnset         = fmt.Errorf("%w: answer is not selected", apperrors.ErrValidation)

	// ErrTiedAxis - два объекта с одинаковой координатой при генерации ответов.
	// Означает дефект валидатора расстановки.
	ErrTiedAxis = fmt.Errorf("%w: objects share an axis value", apperrors.ErrInvariant)
	// ErrDirectionValue - значение Direction вне таблицы направлений. Внешний ввод
	// проходит через ParseDirection, поэтому такое значение - ошибка в коде.
	ErrDirectionValue = fmt.Errorf("%w: direction value is not in the direction table", apperrors.ErrInvariant)
)

// IsInvariantViolation сообщает, является ли ошибка нарушением инварианта
func IsInvariantViolation(err error) bool {
	return errors.Is(err, apperrors.ErrInvariant)
}
