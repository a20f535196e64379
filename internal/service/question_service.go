package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/domain/repository"
	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	"github.com/yourusername/spatial-quiz-api/internal/storage"
)

// QuestionInput - данные вопроса из админ-формы
type QuestionInput struct {
	Coords   map[spatial.ObjectKind]spatial.Coord
	Answers  map[spatial.Direction]string
	IsActive bool
}

// QuestionService управляет вопросами: расстановка, ответы, изображение
type QuestionService struct {
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
	blobs        storage.BlobStore
	images       *ImageProcessor
	log          *logger.Logger
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
	blobs storage.BlobStore,
	images *ImageProcessor,
	log *logger.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
		blobs:        blobs,
		images:       images,
		log:          log.Component("QuestionService"),
	}
}

func questionCacheKey(id uint) string {
	return fmt.Sprintf("question:%d", id)
}

// List возвращает все вопросы, новые первыми
func (s *QuestionService) List(ctx context.Context) ([]entity.Question, error) {
	return s.questionRepo.List(ctx)
}

// Get возвращает вопрос по ID
func (s *QuestionService) Get(ctx context.Context, id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// ImageURL возвращает публичный путь изображения вопроса
func (s *QuestionService) ImageURL(q *entity.Question) string {
	if q.ImagePath == "" {
		return ""
	}
	return s.blobs.URL(q.ImagePath)
}

// apply переносит данные формы в вопрос и проверяет его целиком
func apply(q *entity.Question, in QuestionInput) error {
	p, err := spatial.PlacementFromCoords(in.Coords)
	if err != nil {
		return err
	}
	if err := q.ApplyPlacement(p); err != nil {
		return err
	}
	for _, d := range spatial.AllDirections {
		raw := in.Answers[d]
		if raw == "" {
			if err := q.SetAnswer(d, ""); err != nil {
				return err
			}
			continue
		}
		a, err := spatial.ParseAnswerOption(raw)
		if err != nil {
			return fmt.Errorf("answer %s: %w", d, err)
		}
		if err := q.SetAnswer(d, a); err != nil {
			return err
		}
	}
	q.IsActive = in.IsActive
	return q.Validate()
}

// storeImage нормализует и сохраняет изображение, возвращает ключ
func (s *QuestionService) storeImage(image io.Reader) (string, error) {
	img, err := s.images.Normalize(image)
	if err != nil {
		return "", err
	}
	key, err := s.blobs.Put(img.Key, bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("store question image: %w", err)
	}
	return key, nil
}

func (s *QuestionService) removeImage(key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(key); err != nil {
		s.log.Warn("Не удалось удалить изображение", "key", key, "error", err)
	}
}

// Create создаёт вопрос. Изображение обязательно; при ошибке сохранения в БД оно удаляется.
func (s *QuestionService) Create(ctx context.Context, in QuestionInput, image io.Reader) (*entity.Question, error) {
	if image == nil {
		return nil, apperrors.NewFieldError("image", "is required")
	}
	q := &entity.Question{}
	if err := apply(q, in); err != nil {
		return nil, err
	}

	key, err := s.storeImage(image)
	if err != nil {
		return nil, err
	}
	q.ImagePath = key

	if err := s.questionRepo.Create(ctx, q); err != nil {
		s.removeImage(key)
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	s.log.Info("Вопрос создан", "question_id", q.ID, "image", key)
	return q, nil
}

// Update обновляет вопрос. Новое изображение необязательно, старое удаляется после сохранения.
func (s *QuestionService) Update(ctx context.Context, id uint, in QuestionInput, image io.Reader) (*entity.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(q, in); err != nil {
		return nil, err
	}

	oldKey := q.ImagePath
	newKey := ""
	if image != nil {
		if newKey, err = s.storeImage(image); err != nil {
			return nil, err
		}
		q.ImagePath = newKey
	}

	if err := s.questionRepo.Update(ctx, q); err != nil {
		// тот же ключ означает то же содержимое, файл остаётся нужен
		if newKey != "" && newKey != oldKey {
			s.removeImage(newKey)
		}
		return nil, fmt.Errorf("failed to update question #%d: %w", id, err)
	}
	if newKey != "" && newKey != oldKey {
		s.removeImage(oldKey)
	}
	s.invalidate(ctx, id)
	return q, nil
}

// Delete удаляет вопрос с его сессиями, ответами и изображением
func (s *QuestionService) Delete(ctx context.Context, id uint) error {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(q.ImagePath)
	s.invalidate(ctx, id)
	s.log.Info("Вопрос удалён", "question_id", id)
	return nil
}

// Toggle инвертирует активность вопроса
func (s *QuestionService) Toggle(ctx context.Context, id uint) (bool, error) {
	active, err := s.questionRepo.Toggle(ctx, id)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, id)
	return active, nil
}

// SetActiveBatch устанавливает активность для набора вопросов
func (s *QuestionService) SetActiveBatch(ctx context.Context, ids []uint, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.NewFieldError("question_ids", "must not be empty")
	}
	n, err := s.questionRepo.SetActiveBatch(ctx, ids, active)
	if err != nil {
		return 0, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = questionCacheKey(id)
	}
	if err := s.cacheRepo.Delete(ctx, keys...); err != nil {
		s.log.Warn("Не удалось очистить кеш вопросов", "error", err)
	}
	return n, nil
}

// GenerateAnswers рассчитывает ответы для вверх/вниз/влево/вправо по расстановке
func (s *QuestionService) GenerateAnswers(coords map[spatial.ObjectKind]spatial.Coord) (spatial.BasicAnswers, error) {
	p, err := spatial.PlacementFromCoords(coords)
	if err != nil {
		return spatial.BasicAnswers{}, err
	}
	answers, err := spatial.GenerateBasicAnswers(p)
	if spatial.IsInvariantViolation(err) {
		s.log.Error("Нарушен инвариант расстановки", "coords", p.Coords(), "error", err)
	}
	return answers, err
}

// Preview рисует расстановку. Координаты могут быть неполными, но каждая должна быть допустимой.
func (s *QuestionService) Preview(coords map[spatial.ObjectKind]spatial.Coord, size int) ([]byte, error) {
	b := spatial.NewBoard()
	for _, kind := range spatial.Objects {
		c, ok := coords[kind]
		if !ok {
			continue
		}
		if !c.Valid() {
			return nil, fmt.Errorf("%s %s: %w", kind, c, spatial.ErrCoordOutOfRange)
		}
		cell := c.Cell()
		if err := b.Drop(kind, &cell); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
	}
	return RenderPlacementPreview(b.Placement(), size)
}

func (s *QuestionService) invalidate(ctx context.Context, id uint) {
	if err := s.cacheRepo.Delete(ctx, questionCacheKey(id)); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.log.Warn("Не удалось очистить кеш вопроса", "question_id", id, "error", err)
	}
}
