package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	"github.com/yourusername/spatial-quiz-api/internal/service"
)

// questionFixture - вопрос в YAML-файле начальных данных
type questionFixture struct {
	Square   [2]int            `yaml:"square"`
	Triangle [2]int            `yaml:"triangle"`
	Circle   [2]int            `yaml:"circle"`
	Answers  map[string]string `yaml:"answers"`
	// Image - путь к файлу изображения; пусто - рисуется превью расстановки
	Image  string `yaml:"image"`
	Active *bool  `yaml:"active"`
}

type fixtureFile struct {
	Questions []questionFixture `yaml:"questions"`
}

func parseFixtures(r io.Reader) ([]questionFixture, error) {
	var f fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return f.Questions, nil
}

// input собирает входные данные сервиса. Ответы для основных направлений,
// которых нет в файле, рассчитываются по расстановке.
func (f questionFixture) input() (service.QuestionInput, error) {
	coords := map[spatial.ObjectKind]spatial.Coord{
		spatial.Square:   {X: f.Square[0], Y: f.Square[1]},
		spatial.Triangle: {X: f.Triangle[0], Y: f.Triangle[1]},
		spatial.Circle:   {X: f.Circle[0], Y: f.Circle[1]},
	}

	answers := make(map[spatial.Direction]string, len(spatial.AllDirections))
	for key, value := range f.Answers {
		d, err := spatial.ParseDirection(key)
		if err != nil {
			return service.QuestionInput{}, err
		}
		answers[d] = value
	}

	p, err := spatial.PlacementFromCoords(coords)
	if err != nil {
		return service.QuestionInput{}, err
	}
	generated, err := spatial.GenerateBasicAnswers(p)
	if err != nil {
		return service.QuestionInput{}, err
	}
	for _, d := range spatial.AllDirections {
		if _, ok := answers[d]; ok {
			continue
		}
		if a, ok := generated.For(d); ok {
			answers[d] = a.String()
		}
	}

	active := true
	if f.Active != nil {
		active = *f.Active
	}
	return service.QuestionInput{Coords: coords, Answers: answers, IsActive: active}, nil
}
