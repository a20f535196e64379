package quizflow

// ImageCache - изображения вопросов одной сессии по ссылке.
// Только дополняется; повторный Put той же ссылки ничего не меняет.
type ImageCache struct {
	images map[string][]byte
}

// NewImageCache создаёт пустой кеш
func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[string][]byte)}
}

// Get возвращает изображение по ссылке
func (c *ImageCache) Get(ref string) ([]byte, bool) {
	data, ok := c.images[ref]
	return data, ok
}

// Put сохраняет изображение, если его ещё нет
func (c *ImageCache) Put(ref string, data []byte) {
	if _, ok := c.images[ref]; ok {
		return
	}
	c.images[ref] = data
}

// Len - количество изображений
func (c *ImageCache) Len() int {
	return len(c.images)
}
