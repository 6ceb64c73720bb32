package app

import (
	"math"

	"gaze-tracker/internal/domain/entity"
)

// moments хранит число значений, среднее и сумму квадратов отклонений (метод Уэлфорда).
type moments struct {
	n    int
	mean float64
	m2   float64
}

func (m *moments) add(x float64) {
	m.n++
	delta := x - m.mean
	m.mean += delta / float64(m.n)
	m.m2 += delta * (x - m.mean)
}

// meanStdDev возвращает нули без значений и нулевое отклонение для одного значения.
// Отклонение выборочное, с делителем n-1.
func (m moments) meanStdDev() (float64, float64) {
	switch m.n {
	case 0:
		return 0, 0
	case 1:
		return m.mean, 0
	}
	return m.mean, math.Sqrt(m.m2 / float64(m.n-1))
}

// ratioStats накапливает отношения взгляда по кадрам с найденными зрачками.
// Память не растёт с длиной сессии.
type ratioStats struct {
	horizontal moments
	vertical   moments
}

func (s *ratioStats) add(gaze entity.Gaze) {
	if h, ok := gaze.HorizontalRatio(); ok {
		s.horizontal.add(h)
	}
	if v, ok := gaze.VerticalRatio(); ok {
		s.vertical.add(v)
	}
}

// apply записывает среднее и стандартное отклонение в сессию.
func (s *ratioStats) apply(session *entity.Session) {
	session.HorizontalMean, session.HorizontalStdDev = s.horizontal.meanStdDev()
	session.VerticalMean, session.VerticalStdDev = s.vertical.meanStdDev()
}
