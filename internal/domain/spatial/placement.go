package spatial

import "fmt"

// Placement - расстановка трёх объектов на поле. Значение неизменяемое:
// TryPlace и Unplace возвращают новую расстановку.
type Placement struct {
	cells  [len(Objects)]Cell
	placed [len(Objects)]bool
}

// NewPlacement возвращает пустую расстановку (все объекты в зоне ожидания)
func NewPlacement() Placement {
	return Placement{}
}

// PlacementFromCoords строит расстановку из сохранённых координат и проверяет
// её по правилам поля. Нужны координаты всех трёх объектов.
func PlacementFromCoords(coords map[ObjectKind]Coord) (Placement, error) {
	var p Placement
	for kind, coord := range coords {
		if !kind.Valid() {
			return Placement{}, fmt.Errorf("%w: %d", ErrUnknownObject, int(kind))
		}
		if !coord.Valid() {
			return Placement{}, fmt.Errorf("%w: %s %s", ErrCoordOutOfRange, kind, coord)
		}
		p.cells[kind] = coord.Cell()
		p.placed[kind] = true
	}
	if err := p.Validate(); err != nil {
		return Placement{}, err
	}
	return p, nil
}

// Cell возвращает клетку объекта и признак того, что объект размещён
func (p Placement) Cell(kind ObjectKind) (Cell, bool) {
	if !kind.Valid() || !p.placed[kind] {
		return 0, false
	}
	return p.cells[kind], true
}

// Coord возвращает декартовы координаты объекта
func (p Placement) Coord(kind ObjectKind) (Coord, bool) {
	cell, ok := p.Cell(kind)
	if !ok {
		return Coord{}, false
	}
	return cell.Coord(), true
}

// Coords возвращает координаты всех размещённых объектов
func (p Placement) Coords() map[ObjectKind]Coord {
	out := make(map[ObjectKind]Coord, len(Objects))
	for _, kind := range Objects {
		if coord, ok := p.Coord(kind); ok {
			out[kind] = coord
		}
	}
	return out
}

// OccupantAt возвращает объект, стоящий в клетке
func (p Placement) OccupantAt(cell Cell) (ObjectKind, bool) {
	for _, kind := range Objects {
		if p.placed[kind] && p.cells[kind] == cell {
			return kind, true
		}
	}
	return 0, false
}

// Complete - все три объекта размещены
func (p Placement) Complete() bool {
	for _, kind := range Objects {
		if !p.placed[kind] {
			return false
		}
	}
	return true
}

// Unplace возвращает объект в зону ожидания
func (p Placement) Unplace(kind ObjectKind) Placement {
	if kind.Valid() {
		p.placed[kind] = false
		p.cells[kind] = 0
	}
	return p
}

// TryPlace перемещает объект в клетку target. target == nil означает возврат
// в зону ожидания. Правила проверяются по порядку:
//  1. центр запрещён;
//  2. nil снимает объект с поля;
//  3. совпадение x или y с другим размещённым объектом отклоняет ход;
//  4. иначе занявший клетку объект уходит в зону ожидания (без обмена).
//
// При ошибке возвращается исходная расстановка без изменений.
func (p Placement) TryPlace(kind ObjectKind, target *Cell) (Placement, error) {
	if !kind.Valid() {
		return p, fmt.Errorf("%w: %d", ErrUnknownObject, int(kind))
	}
	if target != nil && *target == CenterCell {
		return p, ErrCenterCell
	}
	if target == nil {
		return p.Unplace(kind), nil
	}
	if !target.Valid() {
		return p, fmt.Errorf("%w: %d", ErrCellOutOfRange, int(*target))
	}

	candidate := target.Coord()
	for _, other := range Objects {
		if other == kind || !p.placed[other] {
			continue
		}
		oc := p.cells[other].Coord()
		if oc.X == candidate.X || oc.Y == candidate.Y {
			return p, fmt.Errorf("%w: %s blocked by %s at %s", ErrAxisConflict, kind, other, oc)
		}
	}

	next := p
	if occupant, ok := p.OccupantAt(*target); ok && occupant != kind {
		next = next.Unplace(occupant)
	}
	next.cells[kind] = *target
	next.placed[kind] = true
	return next, nil
}

// Validate проверяет полную расстановку: все объекты размещены, центр свободен,
// x и y попарно различны
func (p Placement) Validate() error {
	if !p.Complete() {
		return ErrIncompletePlacement
	}
	xs := make(map[int]ObjectKind, len(Objects))
	ys := make(map[int]ObjectKind, len(Objects))
	for _, kind := range Objects {
		cell := p.cells[kind]
		if !cell.Valid() {
			return fmt.Errorf("%w: %d", ErrCellOutOfRange, int(cell))
		}
		if cell == CenterCell {
			return fmt.Errorf("%w: %s", ErrCenterCell, kind)
		}
		c := cell.Coord()
		if other, dup := xs[c.X]; dup {
			return fmt.Errorf("%w: %s and %s share x=%d", ErrAxisConflict, other, kind, c.X)
		}
		if other, dup := ys[c.Y]; dup {
			return fmt.Errorf("%w: %s and %s share y=%d", ErrAxisConflict, other, kind, c.Y)
		}
		xs[c.X] = kind
		ys[c.Y] = kind
	}
	return nil
}
