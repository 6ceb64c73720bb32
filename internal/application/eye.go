package app

import (
	"image"
	"math"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

// eyeMargin — поле вокруг контура глаза при вырезке.
const eyeMargin = 5

// EyeAnalyzer вырезает глаз по разметке лица, считает отношение для моргания
// и ищет зрачок с порогом из калибратора.
type EyeAnalyzer struct {
	proc       port.IrisProcessor
	calibrator *Calibrator
	locator    *PupilLocator
}

// NewEyeAnalyzer создаёт анализатор глаза. Калибратор общий для обоих глаз.
func NewEyeAnalyzer(proc port.IrisProcessor, calibrator *Calibrator) *EyeAnalyzer {
	return &EyeAnalyzer{
		proc:       proc,
		calibrator: calibrator,
		locator:    NewPupilLocator(proc),
	}
}

// Analyze строит область глаза side. ok=false, если в разметке нет точек глаза
// или вырезка оказалась вне кадра.
func (a *EyeAnalyzer) Analyze(frame *image.Gray, landmarks entity.Landmarks, side entity.Side) (entity.Eye, bool) {
	contour, ok := landmarks.EyeContour(side)
	if !ok {
		return entity.Eye{}, false
	}

	eyeFrame, origin, ok := a.isolate(frame, contour)
	if !ok {
		return entity.Eye{}, false
	}

	eye := entity.Eye{
		Side:    side,
		Frame:   eyeFrame,
		Origin:  origin,
		CenterX: float64(eyeFrame.Rect.Dx()) / 2,
		CenterY: float64(eyeFrame.Rect.Dy()) / 2,
		Contour: contour,
		Blink:   BlinkRatio(contour),
	}

	if !a.calibrator.IsComplete() {
		a.calibrator.Evaluate(eyeFrame, side)
	}

	threshold, ok := a.calibrator.Threshold(side)
	if !ok {
		return eye, true
	}
	eye.Pupil = a.locator.Locate(eyeFrame, threshold)
	return eye, true
}

// isolate вырезает прямоугольник вокруг контура с полем eyeMargin и закрашивает
// белым всё за пределами контура. Возвращает кадр глаза и его левый верхний угол.
func (a *EyeAnalyzer) isolate(frame *image.Gray, contour []image.Point) (*image.Gray, image.Point, bool) {
	box := boundingBox(contour).Inset(-eyeMargin).Intersect(frame.Bounds())
	if box.Empty() {
		return nil, image.Point{}, false
	}

	local := make([]image.Point, len(contour))
	for i, p := range contour {
		local[i] = p.Sub(box.Min)
	}

	crop := frame.SubImage(box).(*image.Gray)
	return a.proc.Isolate(crop, local), box.Min, true
}

func boundingBox(points []image.Point) image.Rectangle {
	r := image.Rectangle{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// BlinkRatio делит ширину глаза (между углами) на высоту (между серединами век).
// При нулевой высоте отношение не определено.
func BlinkRatio(contour []image.Point) entity.Ratio {
	if len(contour) < 6 {
		return entity.Ratio{}
	}

	left, right := contour[0], contour[3]
	top := midpoint(contour[1], contour[2])
	bottom := midpoint(contour[5], contour[4])

	width := distance(left, right)
	height := distance(top, bottom)
	if height == 0 {
		return entity.Ratio{}
	}
	return entity.SomeRatio(width / height)
}

func midpoint(p1, p2 image.Point) image.Point {
	return image.Pt((p1.X+p2.X)/2, (p1.Y+p2.Y)/2)
}

func distance(p1, p2 image.Point) float64 {
	return math.Hypot(float64(p1.X-p2.X), float64(p1.Y-p2.Y))
}
