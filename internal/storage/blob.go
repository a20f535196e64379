package storage

import (
	"errors"
	"io"
)

// ErrInvalidKey - пустой ключ или ключ, выходящий за пределы хранилища
var ErrInvalidKey = errors.New("invalid blob key")

// BlobStore хранит изображения вопросов
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // возвращает канонический ключ
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
	URL(key string) string // публичный путь для клиента
}
