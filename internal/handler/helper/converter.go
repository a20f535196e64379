package helper

import (
	"strings"

	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
)

// QuestionOption представляет вариант ответа для клиента
type QuestionOption struct {
	ID    int    `json:"id"`
	Value string `json:"value"` // отправляется обратно как answer
	Label string `json:"label"`
}

// ConvertOptionsToObjects преобразует варианты ответа в объекты с id, value и label.
// ID - позиция в уже перемешанном списке.
func ConvertOptionsToObjects(options []spatial.AnswerOption) []QuestionOption {
	converted := make([]QuestionOption, len(options))
	for i, opt := range options {
		converted[i] = QuestionOption{ID: i, Value: opt.String(), Label: OptionLabel(opt)}
	}
	return converted
}

// OptionLabel возвращает вариант словами: "circle → triangle → square"
func OptionLabel(opt spatial.AnswerOption) string {
	kinds := opt.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " → ")
}
