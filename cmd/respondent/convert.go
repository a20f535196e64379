package main

import (
	"fmt"
	"strings"

	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	"github.com/yourusername/spatial-quiz-api/internal/handler/dto"
	"github.com/yourusername/spatial-quiz-api/internal/quizflow"
)

func coordsFrom(c dto.ObjectCoords) map[spatial.ObjectKind]spatial.Coord {
	return map[spatial.ObjectKind]spatial.Coord{
		spatial.Square:   {X: c.SquareX, Y: c.SquareY},
		spatial.Triangle: {X: c.TriangleX, Y: c.TriangleY},
		spatial.Circle:   {X: c.CircleX, Y: c.CircleY},
	}
}

func seedFromStart(res *dto.StartQuizResponse) (quizflow.Seed, error) {
	order, err := spatial.ParseDirections(res.QuestionOrder)
	if err != nil {
		return quizflow.Seed{}, err
	}
	return quizflow.Seed{SessionID: res.SessionID, Ticket: res.Ticket, Order: order}, nil
}

func promptFromQuestion(res *dto.DirectionQuestionResponse) (quizflow.Prompt, error) {
	d, err := spatial.ParseDirection(res.Direction)
	if err != nil {
		return quizflow.Prompt{}, err
	}
	options := make([]spatial.AnswerOption, 0, len(res.Options))
	for _, o := range res.Options {
		opt, err := spatial.ParseAnswerOption(o.Value)
		if err != nil {
			return quizflow.Prompt{}, err
		}
		options = append(options, opt)
	}
	return quizflow.Prompt{
		Direction: d,
		ImageRef:  res.QuestionImage,
		Coords:    coordsFrom(res.ObjectCoords),
		Options:   options,
	}, nil
}

// renderGrid рисует поле 3×3 построчно сверху вниз, центр отмечен стрелкой направления
func renderGrid(coords map[spatial.ObjectKind]spatial.Coord, d spatial.Direction) string {
	var cells [spatial.CellCount]string
	for i := range cells {
		cells[i] = "·"
	}
	cells[spatial.CenterCell] = d.Arrow()
	for kind, c := range coords {
		if c.Valid() {
			cells[c.Cell()] = kind.Code()
		}
	}

	var b strings.Builder
	for row := 0; row < spatial.GridSize; row++ {
		line := cells[row*spatial.GridSize : (row+1)*spatial.GridSize]
		fmt.Fprintf(&b, " %s\n", strings.Join(line, " "))
	}
	return b.String()
}
