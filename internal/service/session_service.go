package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/domain/repository"
	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
)

// SessionService - админские операции над сессиями тестирования
type SessionService struct {
	sessionRepo repository.SessionRepository
	log         *logger.Logger
}

// NewSessionService создает новый сервис сессий
func NewSessionService(sessionRepo repository.SessionRepository, log *logger.Logger) *SessionService {
	return &SessionService{sessionRepo: sessionRepo, log: log.Component("SessionService")}
}

// List возвращает страницу сессий с ответами
func (s *SessionService) List(ctx context.Context, filter repository.SessionFilter) ([]entity.TestSession, int64, error) {
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return s.sessionRepo.List(ctx, filter)
}

// BatchDelete удаляет сессии вместе с ответами
func (s *SessionService) BatchDelete(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.NewFieldError("session_ids", "must not be empty")
	}
	n, err := s.sessionRepo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log.Info("Сессии удалены", "requested", len(ids), "deleted", n)
	return n, nil
}

var exportHeaders = []interface{}{
	"ID", "Сессия", "Вопрос", "Создана", "Завершена",
	"Имя", "Возраст", "Пол", "Образование", "Зрение", "Возраст травмы",
	"Брайль", "Мобильность", "Рисование", "Музеи",
	"Порядок", "Верных", "Точность", "Среднее время, с",
}

// Export пишет XLSX с выбранными сессиями: одна строка на сессию,
// для каждого направления - ответ, правильность и время
func (s *SessionService) Export(ctx context.Context, ids []uint, w io.Writer) error {
	if len(ids) == 0 {
		return apperrors.NewFieldError("session_ids", "must not be empty")
	}
	sessions, err := s.sessionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	headers := append([]interface{}{}, exportHeaders...)
	for _, d := range spatial.AllDirections {
		headers = append(headers, d.String()+" ответ", d.String()+" верно", d.String()+" мс")
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	for i, session := range sessions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, exportRow(&session)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush stream writer: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	s.log.Info("Экспорт сессий", "count", len(sessions))
	return nil
}

func exportRow(ts *entity.TestSession) []interface{} {
	d := ts.Demographics
	name := ""
	if d.Name != nil {
		name = *d.Name
	}
	injury := ""
	if d.InjuryAge != nil {
		injury = fmt.Sprint(*d.InjuryAge)
	}
	finished := ""
	if ts.FinishedAt != nil {
		finished = ts.FinishedAt.Format("2006-01-02 15:04:05")
	}
	correct, accuracy, avg := "", "", ""
	if r, ok := ts.StoredResult(); ok {
		correct = fmt.Sprint(r.CorrectCount)
		accuracy = r.AccuracyPercent()
		avg = r.AverageReactionSeconds()
	}

	row := []interface{}{
		ts.ID, ts.PublicID, ts.QuestionID,
		ts.CreatedAt.Format("2006-01-02 15:04:05"), finished,
		sanitizeForExcel(name), sanitizeForExcel(d.AgeGroup), sanitizeForExcel(d.Gender),
		sanitizeForExcel(d.Education), sanitizeForExcel(d.VisionStatus), injury,
		sanitizeForExcel(d.BrailleAbility), sanitizeForExcel(d.MobilityAbility),
		sanitizeForExcel(d.DrawingFrequency), sanitizeForExcel(d.MuseumExperience),
		strings.Join(ts.QuestionOrder, ","), correct, accuracy, avg,
	}

	byDirection := make(map[string]entity.Response, len(ts.Responses))
	for _, r := range ts.Responses {
		byDirection[r.Direction] = r
	}
	for _, dir := range spatial.AllDirections {
		r, ok := byDirection[dir.String()]
		if !ok {
			row = append(row, "", "", "")
			continue
		}
		verdict := "Нет"
		if r.IsCorrect {
			verdict = "Да"
		}
		row = append(row, sanitizeForExcel(r.UserAnswer), verdict, r.ReactionTimeMs)
	}
	return row
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
