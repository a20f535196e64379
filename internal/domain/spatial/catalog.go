package spatial

import (
	"fmt"
	"math/rand"
	"strings"
)

// AnswerSeparator разделяет коды объектов в варианте ответа
const AnswerSeparator = ","

// AnswerOption - упорядоченная последовательность кодов объектов через запятую,
// например "S,T,C" или "C,T" (частично закрытый вид)
type AnswerOption string

// NewAnswerOption собирает вариант ответа из объектов
func NewAnswerOption(kinds ...ObjectKind) AnswerOption {
	codes := make([]string, len(kinds))
	for i, k := range kinds {
		codes[i] = k.Code()
	}
	return AnswerOption(strings.Join(codes, AnswerSeparator))
}

// ParseAnswerOption проверяет формат: 2 или 3 различных кода из {S,T,C},
// разделённых запятой, без пробелов
func ParseAnswerOption(s string) (AnswerOption, error) {
	parts := strings.Split(s, AnswerSeparator)
	if len(parts) < 2 || len(parts) > len(Objects) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
	}
	seen := make(map[ObjectKind]bool, len(parts))
	for _, p := range parts {
		if len(p) != 1 {
			return "", fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
		}
		kind, ok := objectByCode(p[0])
		if !ok || seen[kind] {
			return "", fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
		}
		seen[kind] = true
	}
	return AnswerOption(s), nil
}

// Kinds возвращает объекты варианта по порядку
func (a AnswerOption) Kinds() []ObjectKind {
	if a == "" {
		return nil
	}
	parts := strings.Split(string(a), AnswerSeparator)
	kinds := make([]ObjectKind, 0, len(parts))
	for _, p := range parts {
		if len(p) != 1 {
			continue
		}
		if k, ok := objectByCode(p[0]); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// IsSet - ответ выбран
func (a AnswerOption) IsSet() bool {
	return a != ""
}

func (a AnswerOption) String() string {
	return string(a)
}

// Полные перестановки в порядке отображения
var fullOrderings = []AnswerOption{
	"C,T,S", "C,S,T",
	"T,C,S", "T,S,C",
	"S,C,T", "S,T,C",
}

// Упорядоченные пары для диагоналей: один объект полностью закрыт.
// Шесть различных пар, по две на каждую неупорядоченную пару объектов.
var occludedPairs = []AnswerOption{
	"C,T", "T,C",
	"C,S", "S,C",
	"T,S", "S,T",
}

// OptionsFor возвращает допустимые варианты ответа для направления.
// Основные направления - 6 перестановок, диагональные - те же 6 и 6 пар.
func OptionsFor(d Direction) ([]AnswerOption, error) {
	switch {
	case d.IsPrimary():
		return append([]AnswerOption(nil), fullOrderings...), nil
	case d.IsDiagonal():
		out := make([]AnswerOption, 0, len(fullOrderings)+len(occludedPairs))
		out = append(out, fullOrderings...)
		return append(out, occludedPairs...), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDirection, d)
}

// IsAllowed проверяет, что вариант входит в каталог направления
func IsAllowed(d Direction, a AnswerOption) bool {
	options, err := OptionsFor(d)
	if err != nil {
		return false
	}
	for _, o := range options {
		if o == a {
			return true
		}
	}
	return false
}

// CheckResult - результат проверки ответа
type CheckResult struct {
	IsCorrect     bool         `json:"is_correct"`
	CorrectAnswer AnswerOption `json:"correct_answer"`
}

// CheckAnswer сравнивает ответ побайтово. Без нормализации регистра,
// пробелов и порядка. Если эталон не задан, ответ всегда неверный.
func CheckAnswer(stored AnswerOption, submitted string) CheckResult {
	return CheckResult{
		IsCorrect:     stored.IsSet() && string(stored) == submitted,
		CorrectAnswer: stored,
	}
}

// ShuffleOptions возвращает перемешанную копию вариантов.
// Источник случайности передаётся явно, чтобы порядок можно было воспроизвести.
func ShuffleOptions(options []AnswerOption, rng *rand.Rand) []AnswerOption {
	out := append([]AnswerOption(nil), options...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
