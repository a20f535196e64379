package dto

import (
	"time"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	"github.com/yourusername/spatial-quiz-api/internal/handler/helper"
	"github.com/yourusername/spatial-quiz-api/internal/service"
)

// StartQuizRequest - анкета респондента
type StartQuizRequest struct {
	Name             *string `json:"name" binding:"omitempty,max=100"`
	AgeGroup         string  `json:"age_group" binding:"required,max=20"`
	Gender           string  `json:"gender" binding:"required,max=20"`
	Education        string  `json:"education" binding:"required,max=20"`
	VisionStatus     string  `json:"vision_status" binding:"required,max=30"`
	InjuryAge        *int    `json:"injury_age" binding:"omitempty,min=0,max=120"`
	BrailleAbility   string  `json:"braille_ability" binding:"required,max=20"`
	MobilityAbility  string  `json:"mobility_ability" binding:"required,max=20"`
	DrawingFrequency string  `json:"drawing_frequency" binding:"required,max=20"`
	MuseumExperience string  `json:"museum_experience" binding:"required,max=30"`
}

// Demographics переводит запрос в анкету сессии
func (r *StartQuizRequest) Demographics() entity.Demographics {
	return entity.Demographics{
		Name:             r.Name,
		AgeGroup:         r.AgeGroup,
		Gender:           r.Gender,
		Education:        r.Education,
		VisionStatus:     r.VisionStatus,
		InjuryAge:        r.InjuryAge,
		BrailleAbility:   r.BrailleAbility,
		MobilityAbility:  r.MobilityAbility,
		DrawingFrequency: r.DrawingFrequency,
		MuseumExperience: r.MuseumExperience,
	}
}

// ObjectCoords - координаты трёх объектов
type ObjectCoords struct {
	SquareX   int `json:"square_x"`
	SquareY   int `json:"square_y"`
	TriangleX int `json:"triangle_x"`
	TriangleY int `json:"triangle_y"`
	CircleX   int `json:"circle_x"`
	CircleY   int `json:"circle_y"`
}

// NewObjectCoords создаёт DTO координат
func NewObjectCoords(coords map[spatial.ObjectKind]spatial.Coord) ObjectCoords {
	return ObjectCoords{
		SquareX:   coords[spatial.Square].X,
		SquareY:   coords[spatial.Square].Y,
		TriangleX: coords[spatial.Triangle].X,
		TriangleY: coords[spatial.Triangle].Y,
		CircleX:   coords[spatial.Circle].X,
		CircleY:   coords[spatial.Circle].Y,
	}
}

// StartQuizResponse - созданная сессия
type StartQuizResponse struct {
	SessionID       string    `json:"session_id"`
	QuestionID      uint      `json:"question_id"`
	QuestionOrder   []string  `json:"question_order"`
	QuestionImage   string    `json:"question_image"`
	Ticket          string    `json:"ticket"`
	TicketExpiresAt time.Time `json:"ticket_expires_at"`
	ObjectCoords
}

// NewStartQuizResponse создает DTO новой сессии
func NewStartQuizResponse(res *service.StartResult) *StartQuizResponse {
	return &StartQuizResponse{
		SessionID:       res.Session.PublicID,
		QuestionID:      res.Question.ID,
		QuestionOrder:   spatial.DirectionKeys(res.Order),
		QuestionImage:   res.ImageURL,
		Ticket:          res.Ticket,
		TicketExpiresAt: res.TicketExpiresAt,
		ObjectCoords:    NewObjectCoords(res.Question.Coords()),
	}
}

// DirectionQuestionResponse - данные одного направления
type DirectionQuestionResponse struct {
	SessionID     string                  `json:"session_id"`
	Direction     string                  `json:"direction"`
	Arrow         string                  `json:"arrow"`
	Position      int                     `json:"position"`
	Stage         int                     `json:"stage"`
	QuestionImage string                  `json:"question_image"`
	Options       []helper.QuestionOption `json:"options"`
	ObjectCoords
}

// NewDirectionQuestionResponse создает DTO направления
func NewDirectionQuestionResponse(p *service.DirectionPrompt) *DirectionQuestionResponse {
	return &DirectionQuestionResponse{
		SessionID:     p.SessionID,
		Direction:     p.Direction.String(),
		Arrow:         p.Direction.Arrow(),
		Position:      p.Position,
		Stage:         int(p.Stage),
		QuestionImage: p.ImageURL,
		Options:       helper.ConvertOptionsToObjects(p.Options),
		ObjectCoords:  NewObjectCoords(p.Coords),
	}
}

// SubmitAnswerRequest - ответ респондента на направление
type SubmitAnswerRequest struct {
	Direction string `json:"direction" binding:"required,direction"`
	Answer    string `json:"answer" binding:"required,answer_option"`
	TimeMs    *int64 `json:"time_ms" binding:"required,min=0"`
}

// SubmitAnswerResponse - результат проверки ответа
type SubmitAnswerResponse struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Position      int    `json:"position"`
	Remaining     int    `json:"remaining"`
	Completed     bool   `json:"completed"`
}

// NewSubmitAnswerResponse создает DTO результата ответа
func NewSubmitAnswerResponse(o *service.AnswerOutcome) *SubmitAnswerResponse {
	return &SubmitAnswerResponse{
		IsCorrect:     o.IsCorrect,
		CorrectAnswer: o.CorrectAnswer.String(),
		Position:      o.Position,
		Remaining:     o.Remaining,
		Completed:     o.Completed,
	}
}

// QuizResultResponse - итог сессии. Точность в процентах, время в секундах.
type QuizResultResponse struct {
	SessionID           string `json:"session_id"`
	Total               int    `json:"total"`
	CorrectCount        int    `json:"correct_count"`
	Accuracy            string `json:"accuracy"`
	AverageReactionTime string `json:"average_reaction_time"`
}

// NewQuizResultResponse создает DTO итога
func NewQuizResultResponse(sessionID string, r *entity.SessionResult) *QuizResultResponse {
	return &QuizResultResponse{
		SessionID:           sessionID,
		Total:               r.Total,
		CorrectCount:        r.CorrectCount,
		Accuracy:            r.AccuracyPercent(),
		AverageReactionTime: r.AverageReactionSeconds(),
	}
}
