package spatial

import (
	"fmt"
)

// Direction - одно из восьми направлений взгляда на поле
type Direction uint8

const (
	Up Direction = iota + 1
	Down
	Left
	Right
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// Stage - этап теста: 1 - основные направления, 2 - диагональные
type Stage int

const (
	StagePrimary  Stage = 1
	StageDiagonal Stage = 2
)

// directionInfo - связанные с направлением данные
type directionInfo struct {
	key   string
	stage Stage
	arrow string
}

var directionTable = map[Direction]directionInfo{
	Up:        {key: "up", stage: StagePrimary, arrow: "↑"},
	Down:      {key: "down", stage: StagePrimary, arrow: "↓"},
	Left:      {key: "left", stage: StagePrimary, arrow: "←"},
	Right:     {key: "right", stage: StagePrimary, arrow: "→"},
	NorthEast: {key: "ne", stage: StageDiagonal, arrow: "↗"},
	NorthWest: {key: "nw", stage: StageDiagonal, arrow: "↖"},
	SouthEast: {key: "se", stage: StageDiagonal, arrow: "↘"},
	SouthWest: {key: "sw", stage: StageDiagonal, arrow: "↙"},
}

// AllDirections - все направления в каноническом порядке
var AllDirections = []Direction{Up, Down, Left, Right, NorthEast, NorthWest, SouthEast, SouthWest}

// PrimaryDirections - направления первого этапа
var PrimaryDirections = []Direction{Up, Down, Left, Right}

// DiagonalDirections - направления второго этапа
var DiagonalDirections = []Direction{NorthEast, NorthWest, SouthEast, SouthWest}

// ParseDirection разбирает ключ направления ("up", "ne", ...).
// Любое другое значение - ошибка, значение по умолчанию не подставляется.
func ParseDirection(s string) (Direction, error) {
	for d, info := range directionTable {
		if info.key == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Valid - одно из восьми известных направлений
func (d Direction) Valid() bool {
	_, ok := directionTable[d]
	return ok
}

func (d Direction) String() string {
	if info, ok := directionTable[d]; ok {
		return info.key
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// IsPrimary - up/down/left/right
func (d Direction) IsPrimary() bool {
	return d.Valid() && directionTable[d].stage == StagePrimary
}

// IsDiagonal - ne/nw/se/sw
func (d Direction) IsDiagonal() bool {
	return d.Valid() && directionTable[d].stage == StageDiagonal
}

// info возвращает данные направления и паникует на значении вне таблицы
func (d Direction) info() directionInfo {
	info, ok := directionTable[d]
	if !ok {
		panic(fmt.Errorf("%w: %d", ErrDirectionValue, uint8(d)))
	}
	return info
}

// Stage возвращает этап, к которому относится направление
func (d Direction) Stage() Stage {
	return d.info().stage
}

// Arrow возвращает стрелку для отображения направления
func (d Direction) Arrow() string {
	return d.info().arrow
}

// MarshalText реализует encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// StageDirections возвращает направления этапа
func StageDirections(s Stage) []Direction {
	switch s {
	case StagePrimary:
		return append([]Direction(nil), PrimaryDirections...)
	case StageDiagonal:
		return append([]Direction(nil), DiagonalDirections...)
	}
	return nil
}

// DirectionKeys переводит список направлений в строковые ключи
func DirectionKeys(dirs []Direction) []string {
	keys := make([]string, len(dirs))
	for i, d := range dirs {
		keys[i] = d.String()
	}
	return keys
}

// ParseDirections разбирает список ключей направлений
func ParseDirections(keys []string) ([]Direction, error) {
	dirs := make([]Direction, len(keys))
	for i, k := range keys {
		d, err := ParseDirection(k)
		if err != nil {
			return nil, err
		}
		dirs[i] = d
	}
	return dirs, nil
}
