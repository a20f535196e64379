package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

func cellPtr(c int) *Cell {
	cell := Cell(c)
	return &cell
}

func mustPlace(t *testing.T, p Placement, kind ObjectKind, cell int) Placement {
	t.Helper()
	next, err := p.TryPlace(kind, cellPtr(cell))
	require.NoError(t, err, "размещение %s в клетку %d должно пройти", kind, cell)
	return next
}

func TestTryPlace_CenterAlwaysRejected(t *testing.T) {
	states := map[string]Placement{
		"пустое поле": NewPlacement(),
		"один объект": mustPlace(t, NewPlacement(), Square, 0),
		"два объекта": mustPlace(t, mustPlace(t, NewPlacement(), Square, 0), Triangle, 5),
	}

	for name, state := range states {
		for _, kind := range Objects {
			t.Run(name+"/"+kind.String(), func(t *testing.T) {
				// Act
				next, err := state.TryPlace(kind, cellPtr(int(CenterCell)))

				// Assert
				assert.ErrorIs(t, err, ErrCenterCell)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Equal(t, state, next, "расстановка не должна меняться")
			})
		}
	}
}

func TestTryPlace_NilTargetUnplaces(t *testing.T) {
	// Arrange
	p := mustPlace(t, NewPlacement(), Square, 0)

	// Act
	next, err := p.TryPlace(Square, nil)

	// Assert
	require.NoError(t, err)
	_, placed := next.Cell(Square)
	assert.False(t, placed, "объект должен вернуться в зону ожидания")

	// Снятие неразмещённого объекта тоже успешно
	again, err := next.TryPlace(Triangle, nil)
	require.NoError(t, err)
	assert.Equal(t, next, again)
}

func TestTryPlace_AxisConflict(t *testing.T) {
	// Arrange: квадрат в клетке 0 = (0,2)
	p := mustPlace(t, NewPlacement(), Square, 0)

	testCases := []struct {
		name string
		cell int
	}{
		{"та же строка (y=2)", 1},
		{"та же строка, край (y=2)", 2},
		{"тот же столбец (x=0)", 3},
		{"тот же столбец, низ (x=0)", 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			next, err := p.TryPlace(Triangle, cellPtr(tc.cell))

			// Assert
			assert.ErrorIs(t, err, ErrAxisConflict)
			assert.Equal(t, p, next, "предыдущая расстановка должна сохраниться")
		})
	}
}

func TestTryPlace_MovedObjectKeepsPriorPlacementOnReject(t *testing.T) {
	// Arrange: квадрат (0,2), треугольник (2,1)
	p := mustPlace(t, mustPlace(t, NewPlacement(), Square, 0), Triangle, 5)

	// Act: треугольник в клетку 8 = (2,0) - свободно по осям относительно квадрата
	moved, err := p.TryPlace(Triangle, cellPtr(8))
	require.NoError(t, err)

	// Act: треугольник в клетку 2 = (2,2) - конфликт с квадратом по y
	rejected, err := moved.TryPlace(Triangle, cellPtr(2))

	// Assert
	assert.ErrorIs(t, err, ErrAxisConflict)
	cell, ok := rejected.Cell(Triangle)
	require.True(t, ok)
	assert.Equal(t, Cell(8), cell, "треугольник должен остаться в клетке 8")
}

func TestTryPlace_OwnAxisIgnored(t *testing.T) {
	// Перемещение объекта вдоль его собственной строки разрешено
	p := mustPlace(t, NewPlacement(), Square, 0)

	next, err := p.TryPlace(Square, cellPtr(2))

	require.NoError(t, err)
	cell, _ := next.Cell(Square)
	assert.Equal(t, Cell(2), cell)
}

func TestTryPlace_OutOfRange(t *testing.T) {
	_, err := NewPlacement().TryPlace(Circle, cellPtr(9))
	assert.ErrorIs(t, err, ErrCellOutOfRange)

	_, err = NewPlacement().TryPlace(ObjectKind(7), cellPtr(0))
	assert.ErrorIs(t, err, ErrUnknownObject)
}

func TestPlacement_Complete(t *testing.T) {
	p := NewPlacement()
	assert.False(t, p.Complete())

	p = mustPlace(t, p, Square, 0)
	p = mustPlace(t, p, Triangle, 5)
	assert.False(t, p.Complete())

	p = mustPlace(t, p, Circle, 7)
	assert.True(t, p.Complete())
	assert.NoError(t, p.Validate())
}

func TestPlacementFromCoords(t *testing.T) {
	t.Run("валидная расстановка", func(t *testing.T) {
		p, err := PlacementFromCoords(map[ObjectKind]Coord{
			Square:   {X: 0, Y: 2},
			Triangle: {X: 2, Y: 1},
			Circle:   {X: 1, Y: 0},
		})

		require.NoError(t, err)
		cell, _ := p.Cell(Triangle)
		assert.Equal(t, Cell(5), cell)
	})

	t.Run("центр запрещён", func(t *testing.T) {
		_, err := PlacementFromCoords(map[ObjectKind]Coord{
			Square:   {X: 1, Y: 1},
			Triangle: {X: 2, Y: 0},
			Circle:   {X: 0, Y: 2},
		})
		assert.ErrorIs(t, err, ErrCenterCell)
	})

	t.Run("общий x", func(t *testing.T) {
		_, err := PlacementFromCoords(map[ObjectKind]Coord{
			Square:   {X: 0, Y: 2},
			Triangle: {X: 0, Y: 0},
			Circle:   {X: 2, Y: 1},
		})
		assert.ErrorIs(t, err, ErrAxisConflict)
	})

	t.Run("координата вне поля", func(t *testing.T) {
		_, err := PlacementFromCoords(map[ObjectKind]Coord{
			Square: {X: 3, Y: 0},
		})
		assert.ErrorIs(t, err, ErrCoordOutOfRange)
	})

	t.Run("неполная расстановка", func(t *testing.T) {
		_, err := PlacementFromCoords(map[ObjectKind]Coord{
			Square: {X: 0, Y: 2},
		})
		assert.ErrorIs(t, err, ErrIncompletePlacement)
	})
}
