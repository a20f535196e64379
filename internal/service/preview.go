package service

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
)

var (
	previewBackground = color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	previewCenter     = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	previewLine       = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	previewShapes     = map[spatial.ObjectKind]color.RGBA{
		spatial.Square:   {R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		spatial.Triangle: {R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		spatial.Circle:   {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	}
)

// RenderPlacementPreview рисует поле 3x3 с размещёнными объектами и возвращает PNG.
// Строка y=2 сверху, центральная клетка закрашена. Неразмещённые объекты не рисуются.
func RenderPlacementPreview(p spatial.Placement, size int) ([]byte, error) {
	if size < 3*16 {
		return nil, fmt.Errorf("preview size %d is too small", size)
	}
	cell := float64(size) / spatial.GridSize

	dc := gg.NewContext(size, size)
	dc.SetColor(previewBackground)
	dc.Clear()

	// центр всегда пустой
	cx, cy := cellOrigin(spatial.CenterCoord, cell)
	dc.SetColor(previewCenter)
	dc.DrawRectangle(cx, cy, cell, cell)
	dc.Fill()

	dc.SetColor(previewLine)
	dc.SetLineWidth(2)
	for i := 0; i <= spatial.GridSize; i++ {
		v := float64(i) * cell
		dc.DrawLine(v, 0, v, float64(size))
		dc.DrawLine(0, v, float64(size), v)
	}
	dc.Stroke()

	for _, kind := range spatial.Objects {
		coord, ok := p.Coord(kind)
		if !ok {
			continue
		}
		x, y := cellOrigin(coord, cell)
		drawShape(dc, kind, x+cell/2, y+cell/2, cell*0.3)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// cellOrigin возвращает левый верхний угол клетки на изображении
func cellOrigin(c spatial.Coord, cell float64) (float64, float64) {
	row := spatial.GridSize - 1 - c.Y
	return float64(c.X) * cell, float64(row) * cell
}

func drawShape(dc *gg.Context, kind spatial.ObjectKind, cx, cy, r float64) {
	dc.SetColor(previewShapes[kind])
	switch kind {
	case spatial.Square:
		dc.DrawRectangle(cx-r, cy-r, 2*r, 2*r)
	case spatial.Triangle:
		dc.MoveTo(cx, cy-r)
		dc.LineTo(cx+r*math.Sin(math.Pi/3), cy+r/2)
		dc.LineTo(cx-r*math.Sin(math.Pi/3), cy+r/2)
		dc.ClosePath()
	case spatial.Circle:
		dc.DrawCircle(cx, cy, r)
	}
	dc.Fill()
}
