package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellToCoord(t *testing.T) {
	testCases := []struct {
		cell     Cell
		expected Coord
	}{
		{0, Coord{X: 0, Y: 2}},
		{1, Coord{X: 1, Y: 2}},
		{2, Coord{X: 2, Y: 2}},
		{3, Coord{X: 0, Y: 1}},
		{4, Coord{X: 1, Y: 1}},
		{5, Coord{X: 2, Y: 1}},
		{6, Coord{X: 0, Y: 0}},
		{7, Coord{X: 1, Y: 0}},
		{8, Coord{X: 2, Y: 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.cell.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, CellToCoord(tc.cell))
			assert.Equal(t, tc.cell, CoordToCell(tc.expected))
		})
	}
}

func TestCellCoord_RoundTrip(t *testing.T) {
	seen := make(map[Coord]bool, CellCount)
	for _, cell := range AllCells() {
		coord := CellToCoord(cell)

		assert.True(t, coord.Valid(), "координаты клетки %d должны быть в пределах поля", cell)
		assert.Equal(t, cell, CoordToCell(coord), "преобразование должно быть обратимым для клетки %d", cell)
		assert.False(t, seen[coord], "координаты %s не должны повторяться", coord)
		seen[coord] = true
	}
	assert.Len(t, seen, CellCount, "отображение должно быть биекцией")
}

func TestCenter(t *testing.T) {
	assert.Equal(t, CenterCoord, CenterCell.Coord())
	assert.Equal(t, CenterCell, CenterCoord.Cell())
}

func TestCoord_Valid(t *testing.T) {
	assert.True(t, Coord{X: 0, Y: 0}.Valid())
	assert.True(t, Coord{X: 2, Y: 2}.Valid())
	assert.False(t, Coord{X: 3, Y: 0}.Valid())
	assert.False(t, Coord{X: 0, Y: -1}.Valid())
	assert.False(t, Cell(9).Valid())
	assert.False(t, Cell(-1).Valid())
}
