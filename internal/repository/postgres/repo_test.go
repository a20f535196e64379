package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// newTestDB открывает SQLite в памяти с той же схемой, что и миграции
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Одно соединение: каждая новая in-memory база была бы пустой
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.Question{}, &entity.TestSession{}, &entity.Response{}))
	return db
}

func sampleQuestion(active bool) *entity.Question {
	return &entity.Question{
		ImagePath:   "uploads/sample.png",
		SquareX:     0,
		SquareY:     2,
		TriangleX:   2,
		TriangleY:   1,
		CircleX:     1,
		CircleY:     0,
		AnswerDown:  "S,C,T",
		AnswerUp:    "T,C,S",
		AnswerRight: "C,T,S",
		AnswerLeft:  "S,T,C",
		AnswerNE:    "C,T",
		AnswerNW:    "S,C,T",
		AnswerSE:    "T,S",
		AnswerSW:    "C,S",
		IsActive:    active,
	}
}

func sampleSession(questionID uint) *entity.TestSession {
	return &entity.TestSession{
		PublicID:   uuid.NewString(),
		QuestionID: questionID,
		Demographics: entity.Demographics{
			AgeGroup:         "30-39",
			Gender:           "male",
			Education:        "college",
			VisionStatus:     "low_vision",
			BrailleAbility:   "basic",
			MobilityAbility:  "cane",
			DrawingFrequency: "never",
			MuseumExperience: "once",
		},
		QuestionOrder: entity.StringArray{"up", "down", "left", "right", "ne", "nw", "se", "sw"},
	}
}

func TestQuestionRepo_CRUD(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := NewQuestionRepo(newTestDB(t))
	q := sampleQuestion(false)

	// Act
	require.NoError(t, repo.Create(ctx, q))
	loaded, err := repo.GetByID(ctx, q.ID)

	// Assert
	require.NoError(t, err)
	assert.False(t, loaded.IsActive, "false должен сохраниться как есть")
	assert.Equal(t, "C,S", loaded.AnswerSW)

	loaded.AnswerSW = "S,C"
	loaded.IsActive = true
	require.NoError(t, repo.Update(ctx, loaded))
	updated, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "S,C", updated.AnswerSW)
	assert.True(t, updated.IsActive)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQuestionRepo_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestionRepo(newTestDB(t))
	first, second := sampleQuestion(true), sampleQuestion(true)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.List(ctx)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestQuestionRepo_ToggleAndBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestionRepo(newTestDB(t))
	a, b := sampleQuestion(true), sampleQuestion(true)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	active, err := repo.Toggle(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = repo.Toggle(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	n, err := repo.SetActiveBatch(ctx, []uint{a.ID, b.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.GetRandomActive(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "нет активных вопросов")

	_, err = repo.SetActiveBatch(ctx, []uint{b.ID}, true)
	require.NoError(t, err)
	picked, err := repo.GetRandomActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, picked.ID)
}

func TestQuestionRepo_DeleteCascades(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newTestDB(t)
	questions := NewQuestionRepo(db)
	sessions := NewSessionRepo(db)
	q := sampleQuestion(true)
	require.NoError(t, questions.Create(ctx, q))
	s := sampleSession(q.ID)
	require.NoError(t, sessions.Create(ctx, s))
	require.NoError(t, sessions.AddResponse(ctx, &entity.Response{SessionID: s.ID, Direction: "up", UserAnswer: "T,C,S", CorrectAnswer: "T,C,S", IsCorrect: true, ReactionTimeMs: 900}))

	// Act
	require.NoError(t, questions.Delete(ctx, q.ID))

	// Assert
	_, err := sessions.GetByPublicID(ctx, s.PublicID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	var count int64
	db.Model(&entity.Response{}).Count(&count)
	assert.Zero(t, count)

	assert.ErrorIs(t, questions.Delete(ctx, q.ID), apperrors.ErrNotFound)
}

func TestSessionRepo_DuplicateResponseIsConflict(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newTestDB(t)
	q := sampleQuestion(true)
	require.NoError(t, NewQuestionRepo(db).Create(ctx, q))
	repo := NewSessionRepo(db)
	s := sampleSession(q.ID)
	require.NoError(t, repo.Create(ctx, s))

	// Act
	first := repo.AddResponse(ctx, &entity.Response{SessionID: s.ID, Direction: "left", Position: 0, UserAnswer: "S,T,C"})
	second := repo.AddResponse(ctx, &entity.Response{SessionID: s.ID, Direction: "left", Position: 0, UserAnswer: "C,T,S"})

	// Assert
	require.NoError(t, first)
	assert.ErrorIs(t, second, apperrors.ErrConflict)
	responses, err := repo.ListResponses(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1, "дубликат не должен записаться")
	assert.Equal(t, "S,T,C", responses[0].UserAnswer)
}

func TestSessionRepo_FinishOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newTestDB(t)
	q := sampleQuestion(true)
	require.NoError(t, NewQuestionRepo(db).Create(ctx, q))
	repo := NewSessionRepo(db)
	s := sampleSession(q.ID)
	require.NoError(t, repo.Create(ctx, s))
	s.Finish(entity.SessionResult{Total: 8, CorrectCount: 5, Accuracy: 0.625, AverageReactionTimeMs: 1200}, time.Now().UTC())

	// Act
	first, err := repo.Finish(ctx, s)
	require.NoError(t, err)
	second, err := repo.Finish(ctx, s)
	require.NoError(t, err)

	// Assert
	assert.True(t, first)
	assert.False(t, second, "итог сохраняется один раз")
	stored, err := repo.GetByPublicID(ctx, s.PublicID)
	require.NoError(t, err)
	require.NotNil(t, stored.OverallAccuracy)
	assert.InDelta(t, 0.625, *stored.OverallAccuracy, 1e-9)
	assert.Equal(t, 5, *stored.CorrectCount)
}

func TestSessionRepo_ListAndDelete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newTestDB(t)
	q := sampleQuestion(true)
	require.NoError(t, NewQuestionRepo(db).Create(ctx, q))
	repo := NewSessionRepo(db)
	var ids []uint
	for i := 0; i < 3; i++ {
		s := sampleSession(q.ID)
		require.NoError(t, repo.Create(ctx, s))
		require.NoError(t, repo.AddResponse(ctx, &entity.Response{SessionID: s.ID, Direction: "down", Position: 0}))
		ids = append(ids, s.ID)
	}

	// Act
	page, total, err := repo.List(ctx, repository.SessionFilter{Page: 1, PageSize: 2})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID, "новые сессии первыми")
	assert.Len(t, page[0].Responses, 1)

	finished := true
	_, total, err = repo.List(ctx, repository.SessionFilter{Finished: &finished})
	require.NoError(t, err)
	assert.Zero(t, total)

	loaded, err := repo.GetByIDs(ctx, ids[:2])
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	deleted, err := repo.DeleteByIDs(ctx, ids[:2])
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	_, total, err = repo.List(ctx, repository.SessionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
