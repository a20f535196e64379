package service

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"io"

	// Форматы загружаемых изображений
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/image/draw"

	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// NormalizedImage - изображение вопроса, приведённое к PNG
type NormalizedImage struct {
	Data   []byte
	Key    string // ключ в хранилище, зависит только от содержимого
	Width  int
	Height int
}

// ImageProcessor декодирует загруженные изображения (png, jpeg, webp),
// уменьшает их до maxSide и кодирует в PNG
type ImageProcessor struct {
	maxSide  int
	maxBytes int64
}

// NewImageProcessor создаёт обработчик изображений
func NewImageProcessor(maxSide int, maxUploadMB int) *ImageProcessor {
	return &ImageProcessor{maxSide: maxSide, maxBytes: int64(maxUploadMB) << 20}
}

// Normalize читает изображение и возвращает его PNG-версию с ключом по blake2b
func (p *ImageProcessor) Normalize(r io.Reader) (*NormalizedImage, error) {
	limited := io.LimitReader(r, p.maxBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(raw)) > p.maxBytes {
		return nil, apperrors.NewFieldError("image", fmt.Sprintf("must be at most %d bytes", p.maxBytes))
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, apperrors.NewFieldError("image", "must be a png, jpeg or webp image")
	}

	dst := p.fit(src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode %s image as png: %w", format, err)
	}

	sum := blake2b.Sum256(buf.Bytes())
	bounds := dst.Bounds()
	return &NormalizedImage{
		Data:   buf.Bytes(),
		Key:    "questions/" + hex.EncodeToString(sum[:16]) + ".png",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// fit уменьшает изображение, если большая сторона превышает maxSide
func (p *ImageProcessor) fit(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if p.maxSide <= 0 || longest <= p.maxSide {
		return src
	}
	nw := w * p.maxSide / longest
	nh := h * p.maxSide / longest
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
