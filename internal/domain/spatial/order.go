package spatial

import (
	"fmt"
	"math/rand"
)

// QuestionCount - число направлений в одном тесте
const QuestionCount = 8

// NewQuestionOrder возвращает порядок вопросов: сначала 4 основных направления
// в случайном порядке, затем 4 диагональных в случайном порядке
func NewQuestionOrder(rng *rand.Rand) []Direction {
	primary := StageDirections(StagePrimary)
	diagonal := StageDirections(StageDiagonal)
	rng.Shuffle(len(primary), func(i, j int) { primary[i], primary[j] = primary[j], primary[i] })
	rng.Shuffle(len(diagonal), func(i, j int) { diagonal[i], diagonal[j] = diagonal[j], diagonal[i] })
	return append(primary, diagonal...)
}

// ValidateQuestionOrder проверяет, что порядок содержит каждое направление ровно
// один раз и все основные направления идут раньше диагональных
func ValidateQuestionOrder(order []Direction) error {
	if len(order) != QuestionCount {
		return fmt.Errorf("%w: question order must contain %d directions, got %d", ErrUnknownDirection, QuestionCount, len(order))
	}
	seen := make(map[Direction]bool, QuestionCount)
	for i, d := range order {
		if !d.Valid() {
			return fmt.Errorf("%w: position %d", ErrUnknownDirection, i)
		}
		if seen[d] {
			return fmt.Errorf("%w: duplicate %s in question order", ErrUnknownDirection, d)
		}
		seen[d] = true
		wantStage := StagePrimary
		if i >= len(PrimaryDirections) {
			wantStage = StageDiagonal
		}
		if d.Stage() != wantStage {
			return fmt.Errorf("%w: %s at position %d belongs to stage %d", ErrUnknownDirection, d, i, d.Stage())
		}
	}
	return nil
}
