package entity

import "image"

// LandmarkCount — число точек в разметке лица.
const LandmarkCount = 68

// Индексы точек контура глаз в 68-точечной разметке.
var (
	LeftEyePoints  = [6]int{36, 37, 38, 39, 40, 41}
	RightEyePoints = [6]int{42, 43, 44, 45, 46, 47}
)

// Landmarks — упорядоченный набор точек лица, полученный от внешнего предиктора.
type Landmarks []image.Point

// EyeContour возвращает 6 точек контура глаза: внешний угол, две точки верхнего века,
// внутренний угол, две точки нижнего века.
func (l Landmarks) EyeContour(side Side) ([]image.Point, bool) {
	var idx [6]int
	switch side {
	case SideLeft:
		idx = LeftEyePoints
	case SideRight:
		idx = RightEyePoints
	default:
		return nil, false
	}
	if len(l) <= idx[5] {
		return nil, false
	}

	points := make([]image.Point, 0, len(idx))
	for _, i := range idx {
		points = append(points, l[i])
	}
	return points, true
}
