package quizflow

import (
	"fmt"
	"time"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// RequestID связывает ответ сервера с запросом, который его породил
type RequestID uint64

// ActionKind - что нужно запросить у сервера
type ActionKind int

const (
	StartSession ActionKind = iota + 1
	FetchPrompt
	SubmitAnswer
	FetchResult
)

func (k ActionKind) String() string {
	switch k {
	case StartSession:
		return "start_session"
	case FetchPrompt:
		return "fetch_prompt"
	case SubmitAnswer:
		return "submit_answer"
	case FetchResult:
		return "fetch_result"
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Action - запрос, который должен выполнить клиент
type Action struct {
	Kind    ActionKind
	Request RequestID

	Demographics entity.Demographics
	SessionID    string
	Ticket       string
	Direction    spatial.Direction
	Answer       spatial.AnswerOption
	ElapsedMs    int64
}

// Seed - созданная сервером сессия
type Seed struct {
	SessionID string
	Ticket    string
	Order     []spatial.Direction
}

// Prompt - данные направления для показа
type Prompt struct {
	Direction spatial.Direction
	ImageRef  string
	Coords    map[spatial.ObjectKind]spatial.Coord
	Options   []spatial.AnswerOption
}

// Outcome - проверенный ответ на направление
type Outcome struct {
	Direction     spatial.Direction
	Position      int
	Answer        spatial.AnswerOption
	IsCorrect     bool
	CorrectAnswer spatial.AnswerOption
	ElapsedMs     int64
}

// Result - итог, как его вернул сервер
type Result struct {
	Accuracy            string
	AverageReactionTime string
}

// Machine ведёт одну сессию респондента. Не потокобезопасна:
// все события должны приходить из одного цикла.
type Machine struct {
	state   State
	resume  State
	pending *Action
	lastErr error

	demographics entity.Demographics
	seed         *Seed
	index        int
	introduced   map[spatial.Stage]bool

	prompt   *Prompt
	shownAt  time.Time
	outcomes []Outcome
	answered map[spatial.Direction]bool
	result   *Result

	images *ImageCache

	nextRequest RequestID
	inflight    RequestID

	clock func() time.Time
}

// New создаёт машину в состоянии ожидания анкеты. clock == nil - time.Now.
func New(clock func() time.Time) *Machine {
	if clock == nil {
		clock = time.Now
	}
	m := &Machine{clock: clock}
	m.Reset()
	return m
}

// Reset возвращает машину к анкете и отбрасывает кеш изображений.
// Ответы на запросы, отправленные до Reset, будут проигнорированы.
func (m *Machine) Reset() {
	m.state = AwaitingDemographics
	m.resume = AwaitingDemographics
	m.pending = nil
	m.lastErr = nil
	m.demographics = entity.Demographics{}
	m.seed = nil
	m.index = 0
	m.introduced = make(map[spatial.Stage]bool, 2)
	m.prompt = nil
	m.outcomes = nil
	m.answered = make(map[spatial.Direction]bool, spatial.QuestionCount)
	m.result = nil
	m.images = NewImageCache()
	m.inflight = 0
}

func (m *Machine) State() State        { return m.state }
func (m *Machine) Err() error          { return m.lastErr }
func (m *Machine) Images() *ImageCache { return m.images }
func (m *Machine) Prompt() *Prompt     { return m.prompt }
func (m *Machine) Result() *Result     { return m.result }

// Outcomes возвращает копию уже проверенных ответов
func (m *Machine) Outcomes() []Outcome {
	return append([]Outcome(nil), m.outcomes...)
}

// LastOutcome - последний проверенный ответ
func (m *Machine) LastOutcome() (Outcome, bool) {
	if len(m.outcomes) == 0 {
		return Outcome{}, false
	}
	return m.outcomes[len(m.outcomes)-1], true
}

// Session возвращает ID сессии и тикет
func (m *Machine) Session() (string, string, bool) {
	if m.seed == nil {
		return "", "", false
	}
	return m.seed.SessionID, m.seed.Ticket, true
}

// Current возвращает текущее направление и его номер
func (m *Machine) Current() (spatial.Direction, int, bool) {
	if m.seed == nil || m.index >= len(m.seed.Order) {
		return 0, 0, false
	}
	return m.seed.Order[m.index], m.index, true
}

// Stage - этап текущего направления
func (m *Machine) Stage() spatial.Stage {
	d, _, ok := m.Current()
	if !ok {
		return 0
	}
	return d.Stage()
}

func (m *Machine) issue(a Action) Action {
	m.nextRequest++
	a.Request = m.nextRequest
	if m.seed != nil {
		a.SessionID = m.seed.SessionID
		a.Ticket = m.seed.Ticket
	}
	m.inflight = a.Request
	pending := a
	m.pending = &pending
	return a
}

// accept проверяет, что ответ относится к текущему запросу
func (m *Machine) accept(req RequestID) bool {
	if req == 0 || req != m.inflight {
		return false
	}
	m.inflight = 0
	return true
}

func (m *Machine) fail(err error) {
	m.resume = m.state
	m.state = Failed
	m.lastErr = err
}

// Start проверяет анкету и запрашивает создание сессии
func (m *Machine) Start(d entity.Demographics) (Action, error) {
	if m.state != AwaitingDemographics {
		return Action{}, invalid("start", m.state)
	}
	if missing := d.MissingFields(); len(missing) > 0 {
		var errs apperrors.FieldErrors
		for _, f := range missing {
			errs = append(errs, apperrors.FieldError{Field: f, Message: "is required", Rule: "required"})
		}
		return Action{}, errs
	}
	m.demographics = d
	m.state = Loading
	return m.issue(Action{Kind: StartSession, Demographics: d}), nil
}

// OnSessionStarted принимает созданную сессию. false - ответ устарел.
func (m *Machine) OnSessionStarted(req RequestID, seed Seed) (bool, error) {
	if !m.accept(req) {
		return false, nil
	}
	if err := spatial.ValidateQuestionOrder(seed.Order); err != nil {
		err = fmt.Errorf("%w: %v", apperrors.ErrInvariant, err)
		m.fail(err)
		return true, err
	}
	s := seed
	s.Order = append([]spatial.Direction(nil), seed.Order...)
	m.seed = &s
	m.index = 0
	m.pending = nil
	m.enterStage()
	return true, nil
}

// enterStage показывает инструкцию этапа, если она ещё не показывалась,
// иначе сразу запрашивает направление
func (m *Machine) enterStage() (Action, bool) {
	stage := m.Stage()
	if !m.introduced[stage] {
		m.introduced[stage] = true
		m.state = StageTransition
		return Action{}, false
	}
	return m.loadCurrent(), true
}

func (m *Machine) loadCurrent() Action {
	d, _, _ := m.Current()
	m.state = Loading
	m.prompt = nil
	return m.issue(Action{Kind: FetchPrompt, Direction: d})
}

// AcknowledgeStage закрывает инструкцию этапа и запрашивает первое направление этапа
func (m *Machine) AcknowledgeStage() (Action, error) {
	if m.state != StageTransition {
		return Action{}, invalid("acknowledge stage", m.state)
	}
	return m.loadCurrent(), nil
}

// OnPromptLoaded принимает данные направления и изображение.
// Если изображение уже есть в кеше, image может быть nil.
// Таймер направления запускается здесь.
func (m *Machine) OnPromptLoaded(req RequestID, p Prompt, image []byte) (bool, error) {
	if !m.accept(req) {
		return false, nil
	}
	d, _, _ := m.Current()
	if p.Direction != d {
		err := fmt.Errorf("%w: prompt for %s while expecting %s", apperrors.ErrInvariant, p.Direction, d)
		m.fail(err)
		return true, err
	}
	if _, cached := m.images.Get(p.ImageRef); !cached {
		if len(image) == 0 {
			m.fail(ErrNoImage)
			return true, ErrNoImage
		}
		m.images.Put(p.ImageRef, image)
	}
	prompt := p
	m.prompt = &prompt
	m.pending = nil
	m.shownAt = m.clock()
	m.state = Prompting
	return true, nil
}

// Submit фиксирует время и отправляет ответ на проверку.
// Неверный вариант - ошибка валидации, состояние не меняется.
func (m *Machine) Submit(raw string) (Action, error) {
	if m.state != Prompting {
		return Action{}, invalid("submit", m.state)
	}
	d, _, _ := m.Current()
	if m.answered[d] {
		return Action{}, fmt.Errorf("%w: %s", ErrAlreadyAnswered, d)
	}
	answer, err := spatial.ParseAnswerOption(raw)
	if err != nil {
		return Action{}, err
	}
	if !spatial.IsAllowed(d, answer) {
		return Action{}, fmt.Errorf("%w: %s for %s", spatial.ErrOptionNotAllowed, answer, d)
	}
	elapsed := m.clock().Sub(m.shownAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	m.state = AwaitingFeedback
	return m.issue(Action{Kind: SubmitAnswer, Direction: d, Answer: answer, ElapsedMs: elapsed}), nil
}

// OnAnswerChecked принимает результат проверки ответа
func (m *Machine) OnAnswerChecked(req RequestID, isCorrect bool, correct spatial.AnswerOption) (bool, error) {
	if !m.accept(req) {
		return false, nil
	}
	sub := m.pending
	d, pos, _ := m.Current()
	m.outcomes = append(m.outcomes, Outcome{
		Direction:     d,
		Position:      pos,
		Answer:        sub.Answer,
		IsCorrect:     isCorrect,
		CorrectAnswer: correct,
		ElapsedMs:     sub.ElapsedMs,
	})
	m.answered[d] = true
	m.pending = nil
	m.state = Feedback
	return true, nil
}

// Next закрывает обратную связь. Возвращает запрос следующего направления,
// запрос итога после последнего направления или ничего, если нужно показать
// инструкцию нового этапа.
func (m *Machine) Next() (Action, bool, error) {
	if m.state != Feedback {
		return Action{}, false, invalid("next", m.state)
	}
	m.index++
	m.prompt = nil
	if m.index >= len(m.seed.Order) {
		m.state = Loading
		return m.issue(Action{Kind: FetchResult}), true, nil
	}
	a, ok := m.enterStage()
	return a, ok, nil
}

// OnResult принимает итог сессии. Сессия завершается, кеш изображений отбрасывается.
func (m *Machine) OnResult(req RequestID, r Result) bool {
	if !m.accept(req) {
		return false
	}
	result := r
	m.result = &result
	m.pending = nil
	m.state = Completed
	m.images = NewImageCache()
	return true
}

// OnRequestFailed переводит машину в ошибку. Машина не продвигается,
// пока не будет вызван Retry.
func (m *Machine) OnRequestFailed(req RequestID, err error) bool {
	if !m.accept(req) {
		return false
	}
	m.fail(err)
	return true
}

// Retry повторяет запрос, на котором произошла ошибка.
// Для ответа повторяется та же отправка с тем же временем реакции.
func (m *Machine) Retry() (Action, error) {
	if m.state != Failed || m.pending == nil {
		return Action{}, invalid("retry", m.state)
	}
	m.state = m.resume
	m.lastErr = nil
	return m.issue(*m.pending), nil
}

// LocalSummary считает итог по полученным ответам
func (m *Machine) LocalSummary() (entity.SessionResult, error) {
	responses := make([]entity.Response, 0, len(m.outcomes))
	for _, o := range m.outcomes {
		responses = append(responses, entity.Response{
			Direction:      o.Direction.String(),
			Position:       o.Position,
			UserAnswer:     o.Answer.String(),
			CorrectAnswer:  o.CorrectAnswer.String(),
			IsCorrect:      o.IsCorrect,
			ReactionTimeMs: o.ElapsedMs,
		})
	}
	return entity.ComputeResult(responses)
}
