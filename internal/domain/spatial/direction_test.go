package spatial

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, d := range AllDirections {
		parsed, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}

	for _, bad := range []string{"", "UP", "north", "n", "up "} {
		_, err := ParseDirection(bad)
		assert.ErrorIs(t, err, ErrUnknownDirection, "ключ %q должен быть отклонён", bad)
	}
}

func TestDirection_Classification(t *testing.T) {
	for _, d := range PrimaryDirections {
		assert.True(t, d.IsPrimary())
		assert.False(t, d.IsDiagonal())
		assert.Equal(t, StagePrimary, d.Stage())
	}
	for _, d := range DiagonalDirections {
		assert.True(t, d.IsDiagonal())
		assert.False(t, d.IsPrimary())
		assert.Equal(t, StageDiagonal, d.Stage())
	}
	assert.False(t, Direction(0).Valid())
	assert.Equal(t, "↖", NorthWest.Arrow())
}

func TestDirection_UnknownValuePanics(t *testing.T) {
	tests := []struct {
		name string
		call func()
	}{
		{"Stage", func() { Direction(0).Stage() }},
		{"Arrow", func() { Direction(42).Arrow() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r, "значение вне таблицы не должно давать нулевой результат")
				err, ok := r.(error)
				require.True(t, ok)
				assert.ErrorIs(t, err, ErrDirectionValue)
				assert.True(t, IsInvariantViolation(err))
			}()
			tt.call()
		})
	}
}

func TestDirection_JSON(t *testing.T) {
	// Arrange
	payload := struct {
		Direction Direction `json:"direction"`
	}{Direction: SouthWest}

	// Act
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	// Assert
	assert.JSONEq(t, `{"direction":"sw"}`, string(data))

	var decoded struct {
		Direction Direction `json:"direction"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, SouthWest, decoded.Direction)

	err = json.Unmarshal([]byte(`{"direction":"north"}`), &decoded)
	assert.Error(t, err)
}

func TestNewQuestionOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		order := NewQuestionOrder(rng)

		require.Len(t, order, QuestionCount)
		assert.ElementsMatch(t, PrimaryDirections, order[:4], "первый этап - основные направления")
		assert.ElementsMatch(t, DiagonalDirections, order[4:], "второй этап - диагональные")
		assert.NoError(t, ValidateQuestionOrder(order))
	}

	assert.Equal(t,
		NewQuestionOrder(rand.New(rand.NewSource(1))),
		NewQuestionOrder(rand.New(rand.NewSource(1))),
		"порядок воспроизводим при одинаковом seed")
}

func TestValidateQuestionOrder(t *testing.T) {
	assert.NoError(t, ValidateQuestionOrder(AllDirections))

	assert.Error(t, ValidateQuestionOrder(AllDirections[:7]))
	assert.Error(t, ValidateQuestionOrder([]Direction{NorthEast, Down, Left, Right, Up, NorthWest, SouthEast, SouthWest}))
	assert.Error(t, ValidateQuestionOrder([]Direction{Up, Up, Left, Right, NorthEast, NorthWest, SouthEast, SouthWest}))
}

func TestDirectionKeys(t *testing.T) {
	keys := DirectionKeys([]Direction{Up, SouthWest})
	assert.Equal(t, []string{"up", "sw"}, keys)

	dirs, err := ParseDirections(keys)
	require.NoError(t, err)
	assert.Equal(t, []Direction{Up, SouthWest}, dirs)

	_, err = ParseDirections([]string{"up", "zz"})
	assert.ErrorIs(t, err, ErrUnknownDirection)
}
