package spatial

import "fmt"

// Board - состояние редактора вопроса: расстановка и ответы по восьми направлениям.
// Принадлежит одному сеансу редактирования; сбрасывается явным вызовом Reset.
type Board struct {
	placement Placement
	answers   map[Direction]AnswerOption
}

// NewBoard создаёт пустой редактор
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset очищает расстановку и все ответы
func (b *Board) Reset() {
	b.placement = NewPlacement()
	b.answers = make(map[Direction]AnswerOption, len(AllDirections))
}

// Load заполняет редактор сохранёнными данными вопроса
func (b *Board) Load(p Placement, answers map[Direction]AnswerOption) {
	b.Reset()
	b.placement = p
	for d, a := range answers {
		if d.Valid() && a.IsSet() {
			b.answers[d] = a
		}
	}
}

// Placement возвращает текущую расстановку
func (b *Board) Placement() Placement {
	return b.placement
}

// Drop перемещает объект в клетку (nil - обратно в зону ожидания)
func (b *Board) Drop(kind ObjectKind, target *Cell) error {
	next, err := b.placement.TryPlace(kind, target)
	if err != nil {
		return err
	}
	b.placement = next
	return nil
}

// GenerateBasicAnswers заполняет ответы для основных направлений.
// При ошибке ранее выбранные ответы не меняются.
func (b *Board) GenerateBasicAnswers() (BasicAnswers, error) {
	basic, err := GenerateBasicAnswers(b.placement)
	if err != nil {
		return BasicAnswers{}, err
	}
	for _, d := range PrimaryDirections {
		a, _ := basic.For(d)
		b.answers[d] = a
	}
	return basic, nil
}

// SetAnswer выбирает ответ для направления; пустая строка снимает выбор
func (b *Board) SetAnswer(d Direction, a AnswerOption) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownDirection, uint8(d))
	}
	if !a.IsSet() {
		delete(b.answers, d)
		return nil
	}
	if !IsAllowed(d, a) {
		return fmt.Errorf("%w: %q for %s", ErrOptionNotAllowed, a, d)
	}
	b.answers[d] = a
	return nil
}

// Answer возвращает выбранный ответ направления
func (b *Board) Answer(d Direction) AnswerOption {
	return b.answers[d]
}

// Answers возвращает копию всех выбранных ответов
func (b *Board) Answers() map[Direction]AnswerOption {
	out := make(map[Direction]AnswerOption, len(b.answers))
	for d, a := range b.answers {
		out[d] = a
	}
	return out
}

// MissingAnswers возвращает направления без выбранного ответа
func (b *Board) MissingAnswers() []Direction {
	var missing []Direction
	for _, d := range AllDirections {
		if !b.answers[d].IsSet() {
			missing = append(missing, d)
		}
	}
	return missing
}

// Ready проверяет, что вопрос можно сохранить: все объекты размещены
// по правилам и выбраны ответы для всех восьми направлений
func (b *Board) Ready() error {
	if err := b.placement.Validate(); err != nil {
		return err
	}
	if missing := b.MissingAnswers(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrAnswerUnset, DirectionKeys(missing))
	}
	return nil
}
