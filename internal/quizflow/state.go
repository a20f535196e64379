// Package quizflow - состояние прохождения теста на стороне респондента.
// Машина не выполняет сетевых вызовов: каждый переход, которому нужны данные,
// возвращает Action, а ответ сервера передаётся обратно с ID запроса.
package quizflow

import (
	"errors"
	"fmt"
)

// State - состояние машины
type State int

const (
	AwaitingDemographics State = iota
	Loading
	StageTransition
	Prompting
	AwaitingFeedback
	Feedback
	Completed
	Failed
)

var stateNames = [...]string{
	AwaitingDemographics: "awaiting_demographics",
	Loading:              "loading",
	StageTransition:      "stage_transition",
	Prompting:            "prompting",
	AwaitingFeedback:     "awaiting_feedback",
	Feedback:             "feedback",
	Completed:            "completed",
	Failed:               "error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Ошибки переходов
var (
	// ErrInvalidTransition - событие недопустимо в текущем состоянии
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrAlreadyAnswered - на направление уже отправлен ответ
	ErrAlreadyAnswered = errors.New("direction already answered")
	// ErrNoImage - вопрос пришёл без изображения
	ErrNoImage = errors.New("question image is empty")
)

func invalid(op string, s State) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, op, s)
}
