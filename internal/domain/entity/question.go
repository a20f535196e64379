package entity

import (
	"fmt"
	"time"

	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
)

// Question - вопрос теста: эталонное изображение, координаты трёх объектов
// и ответы для восьми направлений
type Question struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ImagePath string `gorm:"size:255" json:"image_path"`

	// Декартовы координаты 0..2, начало в левом нижнем углу
	SquareX   int `gorm:"not null" json:"square_x"`
	SquareY   int `gorm:"not null" json:"square_y"`
	TriangleX int `gorm:"not null" json:"triangle_x"`
	TriangleY int `gorm:"not null" json:"triangle_y"`
	CircleX   int `gorm:"not null" json:"circle_x"`
	CircleY   int `gorm:"not null" json:"circle_y"`

	AnswerUp    string `gorm:"size:20;not null" json:"answer_up"`
	AnswerDown  string `gorm:"size:20;not null" json:"answer_down"`
	AnswerLeft  string `gorm:"size:20;not null" json:"answer_left"`
	AnswerRight string `gorm:"size:20;not null" json:"answer_right"`
	AnswerNE    string `gorm:"column:answer_ne;size:20;not null" json:"answer_ne"`
	AnswerNW    string `gorm:"column:answer_nw;size:20;not null" json:"answer_nw"`
	AnswerSE    string `gorm:"column:answer_se;size:20;not null" json:"answer_se"`
	AnswerSW    string `gorm:"column:answer_sw;size:20;not null" json:"answer_sw"`

	// Значение по умолчанию задаётся в миграции; gorm-тег default не используется,
	// иначе false не записался бы при создании
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Coords возвращает координаты объектов в виде карты
func (q *Question) Coords() map[spatial.ObjectKind]spatial.Coord {
	return map[spatial.ObjectKind]spatial.Coord{
		spatial.Square:   {X: q.SquareX, Y: q.SquareY},
		spatial.Triangle: {X: q.TriangleX, Y: q.TriangleY},
		spatial.Circle:   {X: q.CircleX, Y: q.CircleY},
	}
}

// Placement переводит сохранённые координаты в расстановку на поле
func (q *Question) Placement() (spatial.Placement, error) {
	return spatial.PlacementFromCoords(q.Coords())
}

// ApplyPlacement записывает полную расстановку в координаты вопроса
func (q *Question) ApplyPlacement(p spatial.Placement) error {
	if err := p.Validate(); err != nil {
		return err
	}
	coords := p.Coords()
	q.SquareX, q.SquareY = coords[spatial.Square].X, coords[spatial.Square].Y
	q.TriangleX, q.TriangleY = coords[spatial.Triangle].X, coords[spatial.Triangle].Y
	q.CircleX, q.CircleY = coords[spatial.Circle].X, coords[spatial.Circle].Y
	return nil
}

// answerField возвращает указатель на поле ответа направления
func (q *Question) answerField(d spatial.Direction) (*string, error) {
	switch d {
	case spatial.Up:
		return &q.AnswerUp, nil
	case spatial.Down:
		return &q.AnswerDown, nil
	case spatial.Left:
		return &q.AnswerLeft, nil
	case spatial.Right:
		return &q.AnswerRight, nil
	case spatial.NorthEast:
		return &q.AnswerNE, nil
	case spatial.NorthWest:
		return &q.AnswerNW, nil
	case spatial.SouthEast:
		return &q.AnswerSE, nil
	case spatial.SouthWest:
		return &q.AnswerSW, nil
	}
	return nil, fmt.Errorf("%w: %s", spatial.ErrDirectionValue, d)
}

// AnswerFor возвращает эталонный ответ для направления
func (q *Question) AnswerFor(d spatial.Direction) (spatial.AnswerOption, error) {
	field, err := q.answerField(d)
	if err != nil {
		return "", err
	}
	return spatial.AnswerOption(*field), nil
}

// SetAnswer записывает эталонный ответ направления
func (q *Question) SetAnswer(d spatial.Direction, a spatial.AnswerOption) error {
	field, err := q.answerField(d)
	if err != nil {
		return err
	}
	*field = string(a)
	return nil
}

// Answers возвращает все восемь эталонных ответов
func (q *Question) Answers() map[spatial.Direction]spatial.AnswerOption {
	out := make(map[spatial.Direction]spatial.AnswerOption, len(spatial.AllDirections))
	for _, d := range spatial.AllDirections {
		a, _ := q.AnswerFor(d)
		out[d] = a
	}
	return out
}

// CheckAnswer проверяет ответ респондента для направления
func (q *Question) CheckAnswer(d spatial.Direction, submitted string) (spatial.CheckResult, error) {
	stored, err := q.AnswerFor(d)
	if err != nil {
		return spatial.CheckResult{}, err
	}
	return spatial.CheckAnswer(stored, submitted), nil
}

// Board загружает вопрос в редактор. Каждый ответ проверяется по каталогу направления.
func (q *Question) Board() (*spatial.Board, error) {
	p, err := q.Placement()
	if err != nil {
		return nil, err
	}
	b := spatial.NewBoard()
	b.Load(p, nil)
	for d, a := range q.Answers() {
		if err := b.SetAnswer(d, a); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Validate проверяет, что вопрос готов к сохранению: расстановка по правилам поля
// и допустимые ответы для всех восьми направлений
func (q *Question) Validate() error {
	b, err := q.Board()
	if err != nil {
		return err
	}
	return b.Ready()
}
