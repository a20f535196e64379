package spatial

import "fmt"

// ObjectKind - один из трёх объектов на поле
type ObjectKind int

const (
	Square ObjectKind = iota
	Triangle
	Circle
)

// Objects - все объекты в каноническом порядке
var Objects = [...]ObjectKind{Square, Triangle, Circle}

var objectNames = [...]string{
	Square:   "square",
	Triangle: "triangle",
	Circle:   "circle",
}

var objectCodes = [...]byte{
	Square:   'S',
	Triangle: 'T',
	Circle:   'C',
}

// Valid проверяет, что значение - один из трёх объектов
func (k ObjectKind) Valid() bool {
	return k >= Square && k <= Circle
}

func (k ObjectKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("object(%d)", int(k))
	}
	return objectNames[k]
}

// Code возвращает однобуквенный код объекта (S, T, C)
func (k ObjectKind) Code() string {
	if !k.Valid() {
		return "?"
	}
	return string(objectCodes[k])
}

// ParseObjectKind разбирает имя объекта ("square") или его код ("S")
func ParseObjectKind(s string) (ObjectKind, error) {
	for _, k := range Objects {
		if s == objectNames[k] || s == string(objectCodes[k]) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownObject, s)
}

// objectByCode возвращает объект по однобуквенному коду
func objectByCode(c byte) (ObjectKind, bool) {
	for _, k := range Objects {
		if objectCodes[k] == c {
			return k, true
		}
	}
	return 0, false
}
