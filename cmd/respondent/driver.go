package main

import (
	"context"
	"fmt"

	"github.com/yourusername/spatial-quiz-api/internal/apiclient"
	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	"github.com/yourusername/spatial-quiz-api/internal/quizflow"
)

var stageIntro = map[spatial.Stage]string{
	spatial.StagePrimary: "Этап 1. Вы смотрите на поле с одной из четырёх сторон. " +
		"Назовите объекты в том порядке, в котором видите их слева направо.",
	spatial.StageDiagonal: "Этап 2. Теперь вы смотрите на поле из угла. " +
		"Один объект может быть полностью закрыт другим, тогда выберите вариант из двух объектов.",
}

// driver выполняет действия машины через API и показывает состояния в терминале
type driver struct {
	m   *quizflow.Machine
	api *apiclient.Client
	ui  *terminal
	log *logger.Logger
}

// run проходит одну сессию до итога
func (d *driver) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch d.m.State() {
		case quizflow.AwaitingDemographics:
			demo, err := askDemographics(d.ui)
			if err != nil {
				return err
			}
			a, err := d.m.Start(demo)
			if err != nil {
				d.ui.printf("Анкета заполнена не полностью: %v\n", err)
				continue
			}
			d.execute(ctx, a)

		case quizflow.StageTransition:
			d.ui.printf("\n%s\n", stageIntro[d.m.Stage()])
			if err := d.ui.pause("Нажмите Enter, чтобы начать "); err != nil {
				return err
			}
			a, err := d.m.AcknowledgeStage()
			if err != nil {
				return err
			}
			d.execute(ctx, a)

		case quizflow.Prompting:
			if err := d.prompt(ctx); err != nil {
				return err
			}

		case quizflow.Feedback:
			if o, ok := d.m.LastOutcome(); ok {
				if o.IsCorrect {
					d.ui.printf("Верно!\n")
				} else {
					d.ui.printf("Неверно. Правильный ответ: %s\n", o.CorrectAnswer)
				}
			}
			if err := d.ui.pause("Enter - дальше "); err != nil {
				return err
			}
			a, issued, err := d.m.Next()
			if err != nil {
				return err
			}
			if issued {
				d.execute(ctx, a)
			}

		case quizflow.Completed:
			r := d.m.Result()
			d.ui.printf("\nТест завершён.\nТочность: %s\nСреднее время реакции: %s с\n", r.Accuracy, r.AverageReactionTime)
			d.crossCheck(*r)
			return nil

		case quizflow.Failed:
			d.ui.printf("Ошибка: %v\n", d.m.Err())
			retry, err := d.ui.confirm("Повторить запрос?")
			if err != nil {
				return err
			}
			if !retry {
				return d.m.Err()
			}
			a, err := d.m.Retry()
			if err != nil {
				return err
			}
			d.execute(ctx, a)

		default:
			return fmt.Errorf("unexpected state %s", d.m.State())
		}
	}
}

func (d *driver) prompt(ctx context.Context) error {
	p := d.m.Prompt()
	_, pos, _ := d.m.Current()
	d.ui.printf("\nВопрос %d из %d. Направление взгляда: %s\n", pos+1, spatial.QuestionCount, p.Direction.Arrow())
	d.ui.printf("%s", renderGrid(p.Coords, p.Direction))

	labels := make([]string, len(p.Options))
	for i, o := range p.Options {
		labels[i] = o.String()
	}
	i, err := d.ui.choose("Порядок объектов слева направо:", labels, false)
	if err != nil {
		return err
	}
	a, err := d.m.Submit(p.Options[i].String())
	if err != nil {
		d.ui.printf("%v\n", err)
		return nil
	}
	d.execute(ctx, a)
	return nil
}

// crossCheck сверяет итог сервера с подсчётом по полученным проверкам ответов
func (d *driver) crossCheck(server quizflow.Result) {
	local, err := d.m.LocalSummary()
	if err != nil {
		d.log.Warn("Local summary unavailable", "error", err)
		return
	}
	d.ui.printf("Верных ответов: %d из %d\n", local.CorrectCount, local.Total)
	if local.AccuracyPercent() != server.Accuracy {
		d.log.Warn("Server accuracy differs from local count",
			"server", server.Accuracy, "local", local.AccuracyPercent())
	}
}

// execute выполняет запрос и передаёт ответ машине
func (d *driver) execute(ctx context.Context, a quizflow.Action) {
	log := d.log.With("request", a.Request, "session", a.SessionID)
	var err error

	switch a.Kind {
	case quizflow.StartSession:
		res, callErr := d.api.Start(ctx, a.Demographics)
		if callErr != nil {
			err = callErr
			break
		}
		seed, convErr := seedFromStart(res)
		if convErr != nil {
			err = convErr
			break
		}
		_, err = d.m.OnSessionStarted(a.Request, seed)

	case quizflow.FetchPrompt:
		res, callErr := d.api.Question(ctx, a.SessionID, a.Ticket, a.Direction.String())
		if callErr != nil {
			err = callErr
			break
		}
		p, convErr := promptFromQuestion(res)
		if convErr != nil {
			err = convErr
			break
		}
		var image []byte
		if _, cached := d.m.Images().Get(p.ImageRef); !cached {
			if image, err = d.api.Image(ctx, p.ImageRef); err != nil {
				break
			}
		}
		_, err = d.m.OnPromptLoaded(a.Request, p, image)

	case quizflow.SubmitAnswer:
		res, callErr := d.api.Submit(ctx, a.SessionID, a.Ticket, a.Direction.String(), a.Answer.String(), a.ElapsedMs)
		if callErr != nil {
			err = callErr
			break
		}
		_, err = d.m.OnAnswerChecked(a.Request, res.IsCorrect, spatial.AnswerOption(res.CorrectAnswer))

	case quizflow.FetchResult:
		res, callErr := d.api.Result(ctx, a.SessionID, a.Ticket)
		if callErr != nil {
			err = callErr
			break
		}
		d.m.OnResult(a.Request, quizflow.Result{Accuracy: res.Accuracy, AverageReactionTime: res.AverageReactionTime})
	}

	if err == nil {
		return
	}
	log.Warn("Request failed", "kind", a.Kind.String(), "error", err)
	// если машина сама отклонила ответ, запрос уже закрыт и вызов ничего не меняет
	d.m.OnRequestFailed(a.Request, err)
}
