package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/yourusername/spatial-quiz-api/internal/config"
	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/domain/repository"
	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	"github.com/yourusername/spatial-quiz-api/internal/events"
	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
)

// TicketIssuer выдаёт тикет, привязанный к сессии
type TicketIssuer interface {
	Issue(sessionID string) (string, time.Time, error)
}

// ImageLocator переводит ключ хранилища в публичный путь
type ImageLocator interface {
	URL(key string) string
}

// StartResult - созданная сессия и всё, что нужно клиенту для первого вопроса
type StartResult struct {
	Session         *entity.TestSession
	Question        *entity.Question
	Order           []spatial.Direction
	ImageURL        string
	Ticket          string
	TicketExpiresAt time.Time
}

// DirectionPrompt - данные для показа одного направления
type DirectionPrompt struct {
	SessionID string
	Direction spatial.Direction
	Position  int
	Stage     spatial.Stage
	ImageURL  string
	Coords    map[spatial.ObjectKind]spatial.Coord
	Options   []spatial.AnswerOption
}

// SubmitInput - ответ респондента
type SubmitInput struct {
	Direction      string
	Answer         string
	ReactionTimeMs int64
}

// AnswerOutcome - результат проверки ответа
type AnswerOutcome struct {
	spatial.CheckResult
	Position  int
	Remaining int
	Completed bool
}

// QuizService ведёт сессию тестирования на стороне сервера
type QuizService struct {
	questionRepo repository.QuestionRepository
	sessionRepo  repository.SessionRepository
	cacheRepo    repository.CacheRepository
	images       ImageLocator
	tickets      TicketIssuer
	publisher    events.EventPublisher
	cfg          config.QuizConfig
	log          *logger.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

// NewQuizService создает новый сервис прохождения теста
func NewQuizService(
	questionRepo repository.QuestionRepository,
	sessionRepo repository.SessionRepository,
	cacheRepo repository.CacheRepository,
	images ImageLocator,
	tickets TicketIssuer,
	publisher events.EventPublisher,
	cfg config.QuizConfig,
	log *logger.Logger,
) *QuizService {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &QuizService{
		questionRepo: questionRepo,
		sessionRepo:  sessionRepo,
		cacheRepo:    cacheRepo,
		images:       images,
		tickets:      tickets,
		publisher:    publisher,
		cfg:          cfg,
		log:          log.Component("QuizService"),
		rng:          rand.New(rand.NewSource(seed)),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start проверяет анкету, выбирает активный вопрос и создаёт сессию
// с порядком: 4 основных направления, затем 4 диагональных
func (s *QuizService) Start(ctx context.Context, demographics entity.Demographics) (*StartResult, error) {
	if err := validateDemographics(demographics); err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetRandomActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrNoActiveQuestion
		}
		return nil, fmt.Errorf("failed to pick question: %w", err)
	}

	s.rngMu.Lock()
	order := spatial.NewQuestionOrder(s.rng)
	s.rngMu.Unlock()

	session := &entity.TestSession{
		PublicID:      uuid.NewString(),
		QuestionID:    question.ID,
		Demographics:  demographics,
		QuestionOrder: entity.StringArray(spatial.DirectionKeys(order)),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	ticket, expiresAt, err := s.tickets.Issue(session.PublicID)
	if err != nil {
		return nil, err
	}

	s.cacheQuestion(ctx, question)
	s.publish(ctx, events.NewSessionEvent(events.SessionStarted, session.PublicID, question.ID))
	s.count(ctx, "stats:sessions_started")
	s.log.Info("Сессия начата", "session_id", session.PublicID, "question_id", question.ID, "order", session.QuestionOrder)

	return &StartResult{
		Session:         session,
		Question:        question,
		Order:           order,
		ImageURL:        s.images.URL(question.ImagePath),
		Ticket:          ticket,
		TicketExpiresAt: expiresAt,
	}, nil
}

// validateDemographics проверяет обязательные поля анкеты и возраст травмы
func validateDemographics(d entity.Demographics) error {
	var errs apperrors.FieldErrors
	for _, f := range d.MissingFields() {
		errs = append(errs, apperrors.FieldError{Field: f, Message: "is required", Rule: "required"})
	}
	if d.InjuryAge != nil && (*d.InjuryAge < 0 || *d.InjuryAge > 120) {
		errs = append(errs, apperrors.FieldError{Field: "injury_age", Message: "must be between 0 and 120", Rule: "range", Value: *d.InjuryAge})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// sessionState - сессия, её порядок и уже полученные ответы
type sessionState struct {
	session   *entity.TestSession
	order     []spatial.Direction
	responses []entity.Response
}

func (st *sessionState) answered(d spatial.Direction) bool {
	_, ok := st.response(d)
	return ok
}

// response возвращает сохранённый ответ на направление
func (st *sessionState) response(d spatial.Direction) (entity.Response, bool) {
	for _, r := range st.responses {
		if r.Direction == d.String() {
			return r, true
		}
	}
	return entity.Response{}, false
}

// position проверяет, что d - следующее направление сессии, и возвращает его номер
func (st *sessionState) position(d spatial.Direction) (int, error) {
	idx := -1
	for i, od := range st.order {
		if od == d {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotInOrder, d)
	}
	if st.answered(d) {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyAnswered, d)
	}
	if idx != len(st.responses) {
		return 0, fmt.Errorf("%w: expected %s, got %s", ErrOutOfOrder, st.order[len(st.responses)], d)
	}
	return idx, nil
}

func (s *QuizService) loadState(ctx context.Context, publicID string) (*sessionState, error) {
	session, err := s.sessionRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	order, err := session.Order()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvariant, err)
	}
	responses, err := s.sessionRepo.ListResponses(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return &sessionState{session: session, order: order, responses: responses}, nil
}

// GetDirectionPrompt возвращает данные для следующего направления сессии.
// Варианты ответа перемешиваются детерминированно для пары (сессия, направление).
func (s *QuizService) GetDirectionPrompt(ctx context.Context, publicID, directionKey string) (*DirectionPrompt, error) {
	d, err := spatial.ParseDirection(directionKey)
	if err != nil {
		return nil, err
	}
	st, err := s.loadState(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if st.session.IsFinished() || len(st.responses) >= len(st.order) {
		return nil, ErrSessionFinished
	}
	pos, err := st.position(d)
	if err != nil {
		return nil, err
	}

	question, err := s.question(ctx, st.session.QuestionID)
	if err != nil {
		return nil, err
	}
	options, err := spatial.OptionsFor(d)
	if err != nil {
		return nil, err
	}

	return &DirectionPrompt{
		SessionID: publicID,
		Direction: d,
		Position:  pos,
		Stage:     d.Stage(),
		ImageURL:  s.images.URL(question.ImagePath),
		Coords:    question.Coords(),
		Options:   spatial.ShuffleOptions(options, s.optionRand(publicID, d)),
	}, nil
}

// optionRand - генератор, зависящий только от сессии, направления и seed
func (s *QuizService) optionRand(publicID string, d spatial.Direction) *rand.Rand {
	sum := blake2b.Sum256([]byte(publicID + ":" + d.String()))
	seed := int64(binary.BigEndian.Uint64(sum[:8])) ^ s.cfg.Seed
	return rand.New(rand.NewSource(seed))
}

// SubmitAnswer проверяет и сохраняет ответ на следующее направление.
// Ответ не по порядку и другой ответ на уже отвеченное направление отклоняются без изменений.
// Повтор того же ответа возвращает сохранённый результат проверки: так клиент может
// повторить отправку, ответ на которую потерялся.
func (s *QuizService) SubmitAnswer(ctx context.Context, publicID string, in SubmitInput) (*AnswerOutcome, error) {
	d, err := spatial.ParseDirection(in.Direction)
	if err != nil {
		return nil, err
	}
	if in.ReactionTimeMs < 0 {
		return nil, apperrors.NewFieldError("time_ms", "must not be negative")
	}
	submitted, err := spatial.ParseAnswerOption(in.Answer)
	if err != nil {
		return nil, err
	}
	if !spatial.IsAllowed(d, submitted) {
		return nil, fmt.Errorf("%w: %s for %s", spatial.ErrOptionNotAllowed, submitted, d)
	}

	st, err := s.loadState(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if prev, ok := st.response(d); ok {
		if prev.UserAnswer == submitted.String() {
			return s.replay(ctx, st, prev)
		}
		if st.session.IsFinished() {
			return nil, ErrSessionFinished
		}
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAnswered, d)
	}
	if st.session.IsFinished() {
		return nil, ErrSessionFinished
	}
	pos, err := st.position(d)
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("answer_lock:%s:%s", publicID, d)
	acquired, err := s.cacheRepo.SetNX(ctx, lockKey, 1, s.cfg.AnswerLockTTL)
	if err != nil {
		// уникальный индекс всё равно не даст записать второй ответ
		s.log.Warn("Не удалось взять блокировку ответа", "key", lockKey, "error", err)
	} else if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAnswered, d)
	}
	saved := false
	defer func() {
		// при ошибке до записи ответа блокировка снимается, чтобы можно было повторить
		if !saved && acquired {
			if err := s.cacheRepo.Delete(ctx, lockKey); err != nil {
				s.log.Warn("Не удалось снять блокировку ответа", "key", lockKey, "error", err)
			}
		}
	}()

	question, err := s.question(ctx, st.session.QuestionID)
	if err != nil {
		return nil, err
	}
	result, err := question.CheckAnswer(d, submitted.String())
	if err != nil {
		return nil, err
	}

	response := &entity.Response{
		SessionID:      st.session.ID,
		Direction:      d.String(),
		Position:       pos,
		UserAnswer:     submitted.String(),
		CorrectAnswer:  result.CorrectAnswer.String(),
		IsCorrect:      result.IsCorrect,
		ReactionTimeMs: in.ReactionTimeMs,
	}
	if err := s.sessionRepo.AddResponse(ctx, response); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyAnswered, d)
		}
		return nil, fmt.Errorf("failed to save response: %w", err)
	}
	saved = true
	st.responses = append(st.responses, *response)

	event := events.NewSessionEvent(events.AnswerRecorded, publicID, question.ID)
	event.Direction = d.String()
	event.Position = pos
	event.IsCorrect = &result.IsCorrect
	event.ReactionTimeMs = in.ReactionTimeMs
	s.publish(ctx, event)
	s.count(ctx, "stats:answers")

	outcome := &AnswerOutcome{
		CheckResult: result,
		Position:    pos,
		Remaining:   len(st.order) - len(st.responses),
	}
	if outcome.Remaining == 0 {
		if _, err := s.finish(ctx, st); err != nil {
			return nil, err
		}
		outcome.Completed = true
	}
	return outcome, nil
}

// replay отвечает на повторную отправку сохранённого ответа.
// Если это последний ответ, а итог не сохранился, сессия завершается сейчас.
func (s *QuizService) replay(ctx context.Context, st *sessionState, prev entity.Response) (*AnswerOutcome, error) {
	outcome := &AnswerOutcome{
		CheckResult: spatial.CheckResult{
			IsCorrect:     prev.IsCorrect,
			CorrectAnswer: spatial.AnswerOption(prev.CorrectAnswer),
		},
		Position:  prev.Position,
		Remaining: len(st.order) - len(st.responses),
	}
	if outcome.Remaining == 0 {
		if !st.session.IsFinished() {
			if _, err := s.finish(ctx, st); err != nil {
				return nil, err
			}
		}
		outcome.Completed = true
	}
	s.log.Info("Повторная отправка ответа", "session_id", st.session.PublicID, "direction", prev.Direction)
	return outcome, nil
}

// GetResult возвращает итог завершённой сессии. Итог рассчитывается и сохраняется один раз,
// повторные запросы читают сохранённые значения.
func (s *QuizService) GetResult(ctx context.Context, publicID string) (*entity.SessionResult, error) {
	st, err := s.loadState(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if stored, ok := st.session.StoredResult(); ok {
		return &stored, nil
	}
	if len(st.responses) < len(st.order) {
		return nil, fmt.Errorf("%w: %d of %d answered", ErrSessionIncomplete, len(st.responses), len(st.order))
	}
	return s.finish(ctx, st)
}

// finish рассчитывает итог и сохраняет его, если сессия ещё не завершена
func (s *QuizService) finish(ctx context.Context, st *sessionState) (*entity.SessionResult, error) {
	result, err := entity.ComputeResult(st.responses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvariant, err)
	}
	st.session.Finish(result, s.now())

	updated, err := s.sessionRepo.Finish(ctx, st.session)
	if err != nil {
		return nil, fmt.Errorf("failed to store session result: %w", err)
	}
	if !updated {
		// итог уже сохранён параллельным запросом
		fresh, err := s.sessionRepo.GetByPublicID(ctx, st.session.PublicID)
		if err != nil {
			return nil, err
		}
		if stored, ok := fresh.StoredResult(); ok {
			return &stored, nil
		}
		return nil, fmt.Errorf("%w: session %s finished without result", apperrors.ErrInvariant, st.session.PublicID)
	}

	event := events.NewSessionEvent(events.SessionFinished, st.session.PublicID, st.session.QuestionID)
	event.Accuracy = &result.Accuracy
	event.AverageReactionTimeMs = &result.AverageReactionTimeMs
	s.publish(ctx, event)
	s.count(ctx, "stats:sessions_finished")
	s.log.Info("Сессия завершена",
		"session_id", st.session.PublicID,
		"accuracy", result.AccuracyPercent(),
		"average_reaction_s", result.AverageReactionSeconds())
	return &result, nil
}

// question читает вопрос из кеша, при промахе - из БД
func (s *QuizService) question(ctx context.Context, id uint) (*entity.Question, error) {
	var cached entity.Question
	err := s.cacheRepo.GetJSON(ctx, questionCacheKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.log.Warn("Ошибка чтения кеша вопроса", "question_id", id, "error", err)
	}
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheQuestion(ctx, q)
	return q, nil
}

func (s *QuizService) cacheQuestion(ctx context.Context, q *entity.Question) {
	if err := s.cacheRepo.SetJSON(ctx, questionCacheKey(q.ID), q, s.cfg.QuestionCacheTTL); err != nil {
		s.log.Warn("Не удалось закешировать вопрос", "question_id", q.ID, "error", err)
	}
}

func (s *QuizService) publish(ctx context.Context, event *events.SessionEvent) {
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.log.Warn("Событие сессии не опубликовано", "event_type", event.Type, "session_id", event.SessionID, "error", err)
	}
}

func (s *QuizService) count(ctx context.Context, key string) {
	if _, err := s.cacheRepo.Increment(ctx, key); err != nil {
		s.log.Debug("Счётчик не обновлён", "key", key, "error", err)
	}
}
