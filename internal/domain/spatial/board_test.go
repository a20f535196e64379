package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_GenerateKeepsDiagonals(t *testing.T) {
	// Arrange
	b := NewBoard()
	require.NoError(t, b.Drop(Square, cellPtr(0)))
	require.NoError(t, b.Drop(Triangle, cellPtr(5)))
	require.NoError(t, b.Drop(Circle, cellPtr(7)))
	require.NoError(t, b.SetAnswer(NorthEast, "C,T"))

	// Act
	_, err := b.GenerateBasicAnswers()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, AnswerOption("S,C,T"), b.Answer(Down))
	assert.Equal(t, AnswerOption("C,T"), b.Answer(NorthEast), "диагональный ответ не должен меняться")
	assert.False(t, b.Answer(SouthWest).IsSet(), "диагональные ответы не генерируются")
}

func TestBoard_GenerateIncompleteLeavesAnswers(t *testing.T) {
	// Arrange
	b := NewBoard()
	require.NoError(t, b.SetAnswer(Up, "T,S,C"))
	require.NoError(t, b.Drop(Square, cellPtr(0)))

	// Act
	_, err := b.GenerateBasicAnswers()

	// Assert
	assert.ErrorIs(t, err, ErrIncompletePlacement)
	assert.Equal(t, AnswerOption("T,S,C"), b.Answer(Up), "прежние ответы не должны меняться")
	assert.False(t, b.Answer(Down).IsSet())
}

func TestBoard_DropRejected(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.Drop(Square, cellPtr(0)))

	err := b.Drop(Triangle, cellPtr(1))

	assert.ErrorIs(t, err, ErrAxisConflict)
	_, placed := b.Placement().Cell(Triangle)
	assert.False(t, placed)
}

func TestBoard_SetAnswerValidation(t *testing.T) {
	b := NewBoard()

	assert.ErrorIs(t, b.SetAnswer(Left, "S,T"), ErrOptionNotAllowed)
	assert.ErrorIs(t, b.SetAnswer(Direction(99), "S,T,C"), ErrUnknownDirection)
	assert.NoError(t, b.SetAnswer(SouthEast, "S,T"))
	assert.NoError(t, b.SetAnswer(SouthEast, ""))
	assert.False(t, b.Answer(SouthEast).IsSet(), "пустой ответ снимает выбор")
}

func TestBoard_ReadyAndReset(t *testing.T) {
	// Arrange
	b := NewBoard()
	require.NoError(t, b.Drop(Square, cellPtr(0)))
	require.NoError(t, b.Drop(Triangle, cellPtr(5)))
	require.NoError(t, b.Drop(Circle, cellPtr(7)))
	_, err := b.GenerateBasicAnswers()
	require.NoError(t, err)

	// Assert: диагонали ещё не выбраны
	err = b.Ready()
	assert.ErrorIs(t, err, ErrAnswerUnset)
	assert.Equal(t, DiagonalDirections, b.MissingAnswers())

	for _, d := range DiagonalDirections {
		require.NoError(t, b.SetAnswer(d, "S,C,T"))
	}
	assert.NoError(t, b.Ready())

	// Act
	b.Reset()

	// Assert
	assert.False(t, b.Placement().Complete())
	assert.Len(t, b.MissingAnswers(), len(AllDirections))
}

func TestBoard_Load(t *testing.T) {
	p, err := PlacementFromCoords(map[ObjectKind]Coord{
		Square:   {X: 0, Y: 2},
		Triangle: {X: 2, Y: 1},
		Circle:   {X: 1, Y: 0},
	})
	require.NoError(t, err)

	b := NewBoard()
	b.Load(p, map[Direction]AnswerOption{Up: "T,C,S", NorthEast: ""})

	assert.Equal(t, AnswerOption("T,C,S"), b.Answer(Up))
	assert.False(t, b.Answer(NorthEast).IsSet())
	assert.True(t, b.Placement().Complete())
}
