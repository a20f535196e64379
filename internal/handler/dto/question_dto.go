package dto

import (
	"time"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	"github.com/yourusername/spatial-quiz-api/internal/service"
)

// QuestionForm - multipart-форма вопроса. Изображение передаётся отдельным файлом "image".
type QuestionForm struct {
	SquareX   *int `form:"square_x" binding:"required,grid_coord"`
	SquareY   *int `form:"square_y" binding:"required,grid_coord"`
	TriangleX *int `form:"triangle_x" binding:"required,grid_coord"`
	TriangleY *int `form:"triangle_y" binding:"required,grid_coord"`
	CircleX   *int `form:"circle_x" binding:"required,grid_coord"`
	CircleY   *int `form:"circle_y" binding:"required,grid_coord"`

	AnswerUp    string `form:"answer_up" binding:"required,answer_option"`
	AnswerDown  string `form:"answer_down" binding:"required,answer_option"`
	AnswerLeft  string `form:"answer_left" binding:"required,answer_option"`
	AnswerRight string `form:"answer_right" binding:"required,answer_option"`
	AnswerNE    string `form:"answer_ne" binding:"required,answer_option"`
	AnswerNW    string `form:"answer_nw" binding:"required,answer_option"`
	AnswerSE    string `form:"answer_se" binding:"required,answer_option"`
	AnswerSW    string `form:"answer_sw" binding:"required,answer_option"`

	// IsActive по умолчанию true
	IsActive *bool `form:"is_active"`
}

// Input переводит форму во входные данные сервиса
func (f *QuestionForm) Input() service.QuestionInput {
	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	return service.QuestionInput{
		Coords: map[spatial.ObjectKind]spatial.Coord{
			spatial.Square:   {X: *f.SquareX, Y: *f.SquareY},
			spatial.Triangle: {X: *f.TriangleX, Y: *f.TriangleY},
			spatial.Circle:   {X: *f.CircleX, Y: *f.CircleY},
		},
		Answers: map[spatial.Direction]string{
			spatial.Up:        f.AnswerUp,
			spatial.Down:      f.AnswerDown,
			spatial.Left:      f.AnswerLeft,
			spatial.Right:     f.AnswerRight,
			spatial.NorthEast: f.AnswerNE,
			spatial.NorthWest: f.AnswerNW,
			spatial.SouthEast: f.AnswerSE,
			spatial.SouthWest: f.AnswerSW,
		},
		IsActive: active,
	}
}

// QuestionResponse - вопрос для админки
type QuestionResponse struct {
	ID       uint   `json:"id"`
	ImageURL string `json:"image_url"`
	ObjectCoords
	AnswerUp    string    `json:"answer_up"`
	AnswerDown  string    `json:"answer_down"`
	AnswerLeft  string    `json:"answer_left"`
	AnswerRight string    `json:"answer_right"`
	AnswerNE    string    `json:"answer_ne"`
	AnswerNW    string    `json:"answer_nw"`
	AnswerSE    string    `json:"answer_se"`
	AnswerSW    string    `json:"answer_sw"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question, imageURL string) *QuestionResponse {
	return &QuestionResponse{
		ID:           q.ID,
		ImageURL:     imageURL,
		ObjectCoords: NewObjectCoords(q.Coords()),
		AnswerUp:     q.AnswerUp,
		AnswerDown:   q.AnswerDown,
		AnswerLeft:   q.AnswerLeft,
		AnswerRight:  q.AnswerRight,
		AnswerNE:     q.AnswerNE,
		AnswerNW:     q.AnswerNW,
		AnswerSE:     q.AnswerSE,
		AnswerSW:     q.AnswerSW,
		IsActive:     q.IsActive,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

// BatchToggleRequest - массовое включение/выключение вопросов
type BatchToggleRequest struct {
	QuestionIDs []uint `json:"question_ids" binding:"required,min=1"`
	IsActive    *bool  `json:"is_active" binding:"required"`
}

// PlacementRequest - координаты для генерации ответов и превью.
// Для превью координаты необязательны.
type PlacementRequest struct {
	SquareX   *int `json:"square_x" binding:"omitempty,grid_coord"`
	SquareY   *int `json:"square_y" binding:"omitempty,grid_coord"`
	TriangleX *int `json:"triangle_x" binding:"omitempty,grid_coord"`
	TriangleY *int `json:"triangle_y" binding:"omitempty,grid_coord"`
	CircleX   *int `json:"circle_x" binding:"omitempty,grid_coord"`
	CircleY   *int `json:"circle_y" binding:"omitempty,grid_coord"`
	Size      int  `json:"size" binding:"omitempty,min=96,max=1024"`
}

// Coords возвращает координаты объектов, для которых заданы обе оси
func (r *PlacementRequest) Coords() map[spatial.ObjectKind]spatial.Coord {
	out := make(map[spatial.ObjectKind]spatial.Coord, 3)
	pairs := []struct {
		kind spatial.ObjectKind
		x, y *int
	}{
		{spatial.Square, r.SquareX, r.SquareY},
		{spatial.Triangle, r.TriangleX, r.TriangleY},
		{spatial.Circle, r.CircleX, r.CircleY},
	}
	for _, p := range pairs {
		if p.x != nil && p.y != nil {
			out[p.kind] = spatial.Coord{X: *p.x, Y: *p.y}
		}
	}
	return out
}

// GeneratedAnswersResponse - ответы для четырёх основных направлений
type GeneratedAnswersResponse struct {
	AnswerDown  string `json:"answer_down"`
	AnswerUp    string `json:"answer_up"`
	AnswerRight string `json:"answer_right"`
	AnswerLeft  string `json:"answer_left"`
}

// NewGeneratedAnswersResponse создает DTO сгенерированных ответов
func NewGeneratedAnswersResponse(a spatial.BasicAnswers) *GeneratedAnswersResponse {
	return &GeneratedAnswersResponse{
		AnswerDown:  a.Down.String(),
		AnswerUp:    a.Up.String(),
		AnswerRight: a.Right.String(),
		AnswerLeft:  a.Left.String(),
	}
}
