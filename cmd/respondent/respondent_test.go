package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/spatial-quiz-api/internal/apiclient"
	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	"github.com/yourusername/spatial-quiz-api/internal/handler/dto"
	"github.com/yourusername/spatial-quiz-api/internal/handler/helper"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	"github.com/yourusername/spatial-quiz-api/internal/quizflow"
)

func TestRenderGrid(t *testing.T) {
	// Arrange
	coords := map[spatial.ObjectKind]spatial.Coord{
		spatial.Square:   {X: 0, Y: 2},
		spatial.Triangle: {X: 2, Y: 0},
		spatial.Circle:   {X: 0, Y: 0},
	}

	// Act
	got := renderGrid(coords, spatial.Up)

	// Assert
	assert.Equal(t, " S · ·\n · ↑ ·\n C · T\n", got)
}

func TestSeedFromStart(t *testing.T) {
	// Arrange
	res := &dto.StartQuizResponse{
		SessionID:     "abc",
		Ticket:        "tkt",
		QuestionOrder: []string{"up", "left", "down", "right", "ne", "sw", "nw", "se"},
	}

	// Act
	seed, err := seedFromStart(res)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "abc", seed.SessionID)
	assert.Equal(t, spatial.Left, seed.Order[1])
	assert.Equal(t, spatial.SouthEast, seed.Order[7])

	res.QuestionOrder[0] = "north"
	_, err = seedFromStart(res)
	assert.ErrorIs(t, err, spatial.ErrUnknownDirection)
}

func TestPromptFromQuestion(t *testing.T) {
	// Arrange
	res := &dto.DirectionQuestionResponse{
		Direction:     "sw",
		QuestionImage: "/static/q.png",
		Options:       []helper.QuestionOption{{Value: "C,T"}, {Value: "S,T,C"}},
		ObjectCoords:  dto.ObjectCoords{SquareX: 2, SquareY: 1, TriangleX: 0, TriangleY: 2, CircleX: 1, CircleY: 0},
	}

	// Act
	p, err := promptFromQuestion(res)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, spatial.SouthWest, p.Direction)
	assert.Equal(t, []spatial.AnswerOption{"C,T", "S,T,C"}, p.Options)
	assert.Equal(t, spatial.Coord{X: 2, Y: 1}, p.Coords[spatial.Square])

	res.Options = append(res.Options, helper.QuestionOption{Value: "X,Y"})
	_, err = promptFromQuestion(res)
	assert.ErrorIs(t, err, spatial.ErrInvalidAnswer)
}

func TestTerminal_ChooseRepeatsUntilValid(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	term := newTerminal(strings.NewReader("abc\n7\n2\n"), &out)

	// Act
	i, err := term.choose("Пол", []string{"male", "female", "other"}, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, 2, strings.Count(out.String(), "Введите номер от 1 до 3"))
}

func TestTerminal_EOF(t *testing.T) {
	term := newTerminal(strings.NewReader(""), &bytes.Buffer{})
	_, err := term.ask("Имя")
	assert.Error(t, err)
}

// fakeQuizServer отвечает как /api/quiz и всегда считает ответ верным
func fakeQuizServer(t *testing.T, order []string, answers *[]dto.SubmitAnswerRequest) http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("/api/quiz/start", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, dto.StartQuizResponse{SessionID: "s1", Ticket: "tkt", QuestionOrder: order})
	})
	mux.HandleFunc("/api/quiz/s1/question/", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/api/quiz/s1/question/")
		d, err := spatial.ParseDirection(key)
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		options, _ := spatial.OptionsFor(d)
		writeJSON(w, http.StatusOK, dto.DirectionQuestionResponse{
			SessionID:     "s1",
			Direction:     key,
			QuestionImage: "/static/q.png",
			Options:       helper.ConvertOptionsToObjects(options),
			ObjectCoords:  dto.ObjectCoords{SquareX: 0, SquareY: 2, TriangleX: 2, TriangleY: 0, CircleX: 0, CircleY: 0},
		})
	})
	mux.HandleFunc("/api/quiz/s1/answer", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tkt", r.Header.Get("X-Session-Ticket"))
		var req dto.SubmitAnswerRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*answers = append(*answers, req)
		writeJSON(w, http.StatusOK, dto.SubmitAnswerResponse{IsCorrect: true, CorrectAnswer: req.Answer})
	})
	mux.HandleFunc("/api/quiz/s1/result", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.QuizResultResponse{SessionID: "s1", Total: 8, CorrectCount: 8, Accuracy: "100.00%", AverageReactionTime: "0.00"})
	})
	mux.HandleFunc("/static/q.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	return mux
}

func TestDriver_CompletesSession(t *testing.T) {
	// Arrange
	order := []string{"down", "up", "right", "left", "nw", "se", "ne", "sw"}
	var answers []dto.SubmitAnswerRequest
	srv := httptest.NewServer(fakeQuizServer(t, order, &answers))
	defer srv.Close()
	api, err := apiclient.New(srv.URL, srv.Client())
	require.NoError(t, err)

	// имя, 8 полей анкеты, возраст потери зрения
	script := []string{""}
	for range demographicFields {
		script = append(script, "1")
	}
	script = append(script, "")
	for stage := 0; stage < 2; stage++ {
		script = append(script, "") // инструкция этапа
		for q := 0; q < 4; q++ {
			script = append(script, "1", "") // выбор варианта и переход дальше
		}
	}
	var out bytes.Buffer
	d := &driver{
		m:   quizflow.New(nil),
		api: api,
		ui:  newTerminal(strings.NewReader(strings.Join(script, "\n")+"\n"), &out),
		log: logger.NewNop(),
	}

	// Act
	err = d.run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, quizflow.Completed, d.m.State())
	require.Len(t, answers, 8)
	for i, a := range answers {
		assert.Equal(t, order[i], a.Direction, "ответы отправляются в порядке сессии")
		require.NotNil(t, a.TimeMs)
	}
	assert.Equal(t, 1, strings.Count(out.String(), "Этап 1."))
	assert.Equal(t, 1, strings.Count(out.String(), "Этап 2."))
	assert.Contains(t, out.String(), "Точность: 100.00%")
	assert.Contains(t, out.String(), "Верных ответов: 8 из 8")
	assert.Equal(t, 0, d.m.Images().Len())
}

func TestDriver_RetriesLostAnswerReply(t *testing.T) {
	// Arrange: ответ на первую отправку записывается, но до клиента не доходит
	order := []string{"down", "up", "right", "left", "nw", "se", "ne", "sw"}
	var answers []dto.SubmitAnswerRequest
	inner := fakeQuizServer(t, order, &answers)
	dropped := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/quiz/s1/answer" && !dropped {
			dropped = true
			inner.ServeHTTP(httptest.NewRecorder(), r)
			http.Error(w, "upstream closed", http.StatusBadGateway)
			return
		}
		inner.ServeHTTP(w, r)
	}))
	defer srv.Close()
	api, err := apiclient.New(srv.URL, srv.Client())
	require.NoError(t, err)

	script := []string{""}
	for range demographicFields {
		script = append(script, "1")
	}
	script = append(script, "")
	for stage := 0; stage < 2; stage++ {
		script = append(script, "")
		for q := 0; q < 4; q++ {
			script = append(script, "1")
			if stage == 0 && q == 0 {
				script = append(script, "y") // повторить отправку
			}
			script = append(script, "")
		}
	}
	var out bytes.Buffer
	d := &driver{
		m:   quizflow.New(nil),
		api: api,
		ui:  newTerminal(strings.NewReader(strings.Join(script, "\n")+"\n"), &out),
		log: logger.NewNop(),
	}

	// Act
	err = d.run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, quizflow.Completed, d.m.State())
	require.Len(t, answers, 9, "первое направление отправлено дважды")
	assert.Equal(t, answers[0].Direction, answers[1].Direction)
	assert.Equal(t, answers[0].Answer, answers[1].Answer)
	assert.Equal(t, *answers[0].TimeMs, *answers[1].TimeMs, "повтор отправляет то же время")
	assert.Contains(t, out.String(), "Повторить запрос?")
	assert.Len(t, d.m.Outcomes(), spatial.QuestionCount)
}
