package spatial

import "fmt"

// GridSize - размер стороны поля (3×3)
const GridSize = 3

// CellCount - количество клеток поля
const CellCount = GridSize * GridSize

// Cell - индекс клетки поля в построчном порядке, начало координат в левом верхнем углу.
// Используется только внутри доски (редактор расстановки, рендер превью).
type Cell int

// CenterCell - центральная клетка, всегда пустая
const CenterCell Cell = 4

// Coord - декартовы координаты объекта, начало в левом нижнем углу.
// Именно в таком виде координаты хранятся в БД и передаются по сети.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CenterCoord - центр поля в декартовых координатах
var CenterCoord = Coord{X: 1, Y: 1}

// Valid проверяет, что индекс клетки лежит в диапазоне 0..8
func (c Cell) Valid() bool {
	return c >= 0 && c < CellCount
}

// Coord переводит клетку в декартовы координаты
func (c Cell) Coord() Coord {
	return CellToCoord(c)
}

func (c Cell) String() string {
	return fmt.Sprintf("cell(%d)", int(c))
}

// Valid проверяет, что обе координаты лежат в диапазоне 0..2
func (c Coord) Valid() bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}

// Cell переводит декартовы координаты в индекс клетки
func (c Coord) Cell() Cell {
	return CoordToCell(c)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CellToCoord: row = index / 3, col = index % 3, x = col, y = 2 - row
func CellToCoord(cell Cell) Coord {
	row := int(cell) / GridSize
	col := int(cell) % GridSize
	return Coord{X: col, Y: GridSize - 1 - row}
}

// CoordToCell: index = (2 - y) * 3 + x
func CoordToCell(coord Coord) Cell {
	return Cell((GridSize-1-coord.Y)*GridSize + coord.X)
}

// AllCells возвращает все клетки поля по порядку
func AllCells() []Cell {
	cells := make([]Cell, 0, CellCount)
	for i := 0; i < CellCount; i++ {
		cells = append(cells, Cell(i))
	}
	return cells
}
