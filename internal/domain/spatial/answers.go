package spatial

import (
	"fmt"
	"sort"
)

// BasicAnswers - ответы для четырёх основных направлений, вычисляемые по координатам
type BasicAnswers struct {
	Down  AnswerOption `json:"down"`
	Right AnswerOption `json:"right"`
	Up    AnswerOption `json:"up"`
	Left  AnswerOption `json:"left"`
}

// For возвращает ответ для основного направления
func (b BasicAnswers) For(d Direction) (AnswerOption, bool) {
	switch d {
	case Down:
		return b.Down, true
	case Right:
		return b.Right, true
	case Up:
		return b.Up, true
	case Left:
		return b.Left, true
	}
	return "", false
}

// GenerateBasicAnswers вычисляет ответы для основных направлений:
// down - по возрастанию x, up - по убыванию x,
// right - по возрастанию y, left - по убыванию y.
// Диагональные ответы не генерируются никогда.
func GenerateBasicAnswers(p Placement) (BasicAnswers, error) {
	if !p.Complete() {
		return BasicAnswers{}, ErrIncompletePlacement
	}

	coords := p.Coords()
	byX, err := orderBy(coords, func(c Coord) int { return c.X }, "x")
	if err != nil {
		return BasicAnswers{}, err
	}
	byY, err := orderBy(coords, func(c Coord) int { return c.Y }, "y")
	if err != nil {
		return BasicAnswers{}, err
	}

	return BasicAnswers{
		Down:  NewAnswerOption(byX...),
		Right: NewAnswerOption(byY...),
		Up:    NewAnswerOption(reversed(byX)...),
		Left:  NewAnswerOption(reversed(byY)...),
	}, nil
}

// orderBy сортирует объекты по возрастанию ключа. Одинаковые ключи - нарушение
// инварианта расстановки, сортировка в этом случае не выполняется.
func orderBy(coords map[ObjectKind]Coord, key func(Coord) int, axis string) ([]ObjectKind, error) {
	seen := make(map[int]ObjectKind, len(coords))
	kinds := make([]ObjectKind, 0, len(coords))
	for _, kind := range Objects {
		c := coords[kind]
		if other, dup := seen[key(c)]; dup {
			return nil, fmt.Errorf("%w: %s and %s at %s=%d", ErrTiedAxis, other, kind, axis, key(c))
		}
		seen[key(c)] = kind
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return key(coords[kinds[i]]) < key(coords[kinds[j]])
	})
	return kinds, nil
}

func reversed(kinds []ObjectKind) []ObjectKind {
	out := make([]ObjectKind, len(kinds))
	for i, k := range kinds {
		out[len(kinds)-1-i] = k
	}
	return out
}
