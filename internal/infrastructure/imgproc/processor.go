// Package imgproc реализует обработку кадра глаза на чистом Go: билатеральный фильтр,
// эрозию, бинаризацию, поиск контуров и моментов. Используется, когда сборка идёт без тега gocv.
package imgproc

import (
	"image"
	"sort"

	"gaze-tracker/internal/domain/port"
)

type Processor struct {
	Diameter        int     // диаметр окрестности билатерального фильтра
	SigmaColor      float64 // сигма по яркости
	SigmaSpace      float64 // сигма по расстоянию
	ErodeIterations int     // число проходов эрозии ядром 3x3
}

// New создаёт обработчик с параметрами, подобранными для кадров глаза с веб-камеры.
func New() *Processor {
	return &Processor{
		Diameter:        10,
		SigmaColor:      15,
		SigmaSpace:      15,
		ErodeIterations: 3,
	}
}

// Isolate оставляет только пиксели внутри многоугольника, остальные закрашивает белым.
func (p *Processor) Isolate(frame *image.Gray, polygon []image.Point) *image.Gray {
	src := normalize(frame)
	mask := polygonMask(src.Rect, polygon)

	dst := image.NewGray(src.Rect)
	for i, v := range src.Pix {
		if mask.Pix[i] == 0 {
			dst.Pix[i] = 255
			continue
		}
		dst.Pix[i] = v
	}
	return dst
}

// Binarize выделяет радужку: сглаживание с сохранением границ, эрозия, порог.
func (p *Processor) Binarize(eye *image.Gray, threshold int) *image.Gray {
	src := normalize(eye)
	smooth := bilateral(src, p.Diameter, p.SigmaColor, p.SigmaSpace)
	eroded := erode(smooth, p.ErodeIterations)
	return binarize(eroded, threshold)
}

// Centroid берёт второй по площади контур (самый большой обычно повторяет границу вырезки)
// и возвращает центр масс ограниченной им области.
func (p *Processor) Centroid(binary *image.Gray) (image.Point, bool) {
	regions := findRegions(normalize(binary))
	if len(regions) < 2 {
		return image.Point{}, false
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].area < regions[j].area
	})

	r := regions[len(regions)-2]
	if r.m00 == 0 {
		return image.Point{}, false
	}
	return image.Pt(int(r.m10/r.m00), int(r.m01/r.m00)), true
}

// normalize приводит кадр к началу координат (0,0) и плотной упаковке строк.
func normalize(src *image.Gray) *image.Gray {
	b := src.Bounds()
	if b.Min == (image.Point{}) && src.Stride == b.Dx() {
		return src
	}

	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], row[:b.Dx()])
	}
	return dst
}

// Проверка реализации интерфейса
var _ port.IrisProcessor = (*Processor)(nil)
