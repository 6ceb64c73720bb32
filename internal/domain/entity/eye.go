package entity

import "image"

// Side определяет глаз по положению на изображении.
type Side int

const (
	SideLeft  Side = 0 // левый глаз на кадре (точки 36–41)
	SideRight Side = 1 // правый глаз на кадре (точки 42–47)
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Ratio — необязательное вещественное значение: Valid=false означает, что значение не определено.
type Ratio struct {
	Value float64
	Valid bool
}

// SomeRatio возвращает определённое значение.
func SomeRatio(v float64) Ratio {
	return Ratio{Value: v, Valid: true}
}

// Get возвращает значение и признак его наличия.
func (r Ratio) Get() (float64, bool) {
	return r.Value, r.Valid
}

// Pupil — результат поиска зрачка на одном кадре глаза.
type Pupil struct {
	IrisFrame *image.Gray // бинаризованный кадр с выделенной радужкой
	Threshold int         // порог бинаризации
	Centroid  image.Point // центр зрачка в координатах кадра глаза
	Located   bool        // Centroid определён
}

// Position возвращает центр зрачка, если он найден.
func (p Pupil) Position() (image.Point, bool) {
	return p.Centroid, p.Located
}

// Eye — изолированная область одного глаза на кадре. Создаётся заново для каждого кадра.
type Eye struct {
	Side    Side
	Frame   *image.Gray   // вырезанный кадр глаза
	Origin  image.Point   // левый верхний угол вырезки в координатах исходного кадра
	CenterX float64       // половина ширины вырезки
	CenterY float64       // половина высоты вырезки
	Contour []image.Point // 6 точек контура глаза в координатах исходного кадра
	Blink   Ratio         // отношение ширины глаза к высоте
	Pupil   Pupil
}

// PupilCoords возвращает положение зрачка в координатах исходного кадра.
func (e Eye) PupilCoords() (image.Point, bool) {
	c, ok := e.Pupil.Position()
	if !ok {
		return image.Point{}, false
	}
	return e.Origin.Add(c), true
}

// horizontal и vertical нормируют положение зрачка на размер вырезки за вычетом полей.
func (e Eye) horizontal() (float64, bool) {
	return pupilRatio(e.Pupil.Centroid.X, e.CenterX, e.Pupil.Located)
}

func (e Eye) vertical() (float64, bool) {
	return pupilRatio(e.Pupil.Centroid.Y, e.CenterY, e.Pupil.Located)
}

func pupilRatio(pos int, center float64, located bool) (float64, bool) {
	if !located {
		return 0, false
	}
	denom := center*2 - 10
	if denom == 0 {
		return 0, false
	}
	return float64(pos) / denom, true
}
