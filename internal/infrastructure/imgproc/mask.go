package imgproc

import (
	"image"

	"golang.org/x/image/vector"
)

// polygonMask растеризует многоугольник в маску размера bounds. Вершины задают центры
// пикселей, поэтому пиксели, через которые проходит граница, тоже попадают в маску.
func polygonMask(bounds image.Rectangle, polygon []image.Point) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if len(polygon) < 3 || bounds.Empty() {
		return mask
	}

	r := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	for i, pt := range polygon {
		x := float32(pt.X-bounds.Min.X) + 0.5
		y := float32(pt.Y-bounds.Min.Y) + 0.5
		if i == 0 {
			r.MoveTo(x, y)
			continue
		}
		r.LineTo(x, y)
	}
	r.ClosePath()
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}
