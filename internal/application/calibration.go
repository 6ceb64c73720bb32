package app

import (
	"image"
	"math"
	"sync"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

const (
	// DefaultCalibrationFrames — число кадров на каждый глаз, по которым подбирается порог.
	DefaultCalibrationFrames = 20

	averageIrisSize = 0.48 // ожидаемая доля радужки в кадре глаза
	irisSizeBorder  = 5    // поле, отрезаемое со всех сторон при подсчёте доли радужки

	minThreshold  = 5
	maxThreshold  = 95
	thresholdStep = 5
)

// Calibrator подбирает порог бинаризации для каждого глаза по первым кадрам сессии.
// Живёт столько же, сколько GazeEstimator.
type Calibrator struct {
	proc   port.IrisProcessor
	frames int

	mu         sync.Mutex
	thresholds [2][]int
}

// NewCalibrator создаёт калибратор. frames <= 0 означает DefaultCalibrationFrames.
func NewCalibrator(proc port.IrisProcessor, frames int) *Calibrator {
	if frames <= 0 {
		frames = DefaultCalibrationFrames
	}
	return &Calibrator{proc: proc, frames: frames}
}

// IsComplete сообщает, набрано ли нужное число порогов для обоих глаз.
func (c *Calibrator) IsComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.thresholds[entity.SideLeft]) >= c.frames &&
		len(c.thresholds[entity.SideRight]) >= c.frames
}

// Threshold возвращает средний порог для глаза side с отбрасыванием дробной части.
// ok=false, если для этого глаза ещё нет ни одного замера.
func (c *Calibrator) Threshold(side entity.Side) (int, bool) {
	if !validSide(side) {
		return 0, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	samples := c.thresholds[side]
	if len(samples) == 0 {
		return 0, false
	}
	sum := 0
	for _, t := range samples {
		sum += t
	}
	return sum / len(samples), true
}

// Samples возвращает копию накопленных порогов глаза side.
func (c *Calibrator) Samples(side entity.Side) []int {
	if !validSide(side) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.thresholds[side]...)
}

// Evaluate подбирает порог по кадру глаза и добавляет его к замерам глаза side.
// Кадр, слишком маленький для оценки, пропускается.
func (c *Calibrator) Evaluate(eye *image.Gray, side entity.Side) {
	if !validSide(side) {
		return
	}
	threshold, ok := c.FindBestThreshold(eye)
	if !ok {
		return
	}

	c.mu.Lock()
	c.thresholds[side] = append(c.thresholds[side], threshold)
	c.mu.Unlock()
}

// FindBestThreshold перебирает пороги 5, 10, ..., 95 и выбирает тот, при котором доля
// радужки ближе всего к averageIrisSize. При равенстве побеждает меньший порог.
func (c *Calibrator) FindBestThreshold(eye *image.Gray) (int, bool) {
	if trimmed(eye.Bounds()).Empty() {
		return 0, false
	}

	best, bestDiff := 0, math.Inf(1)
	for threshold := minThreshold; threshold <= maxThreshold; threshold += thresholdStep {
		size, ok := IrisSize(c.proc.Binarize(eye, threshold))
		if !ok {
			continue
		}
		if diff := math.Abs(size - averageIrisSize); diff < bestDiff {
			best, bestDiff = threshold, diff
		}
	}
	return best, !math.IsInf(bestDiff, 1)
}

// IrisSize возвращает долю чёрных пикселей бинарного кадра без полей по 5 пикселей.
// ok=false, если после обрезки полей кадр пуст.
func IrisSize(binary *image.Gray) (float64, bool) {
	inner := trimmed(binary.Bounds())
	if inner.Empty() {
		return 0, false
	}

	blacks := 0
	for y := inner.Min.Y; y < inner.Max.Y; y++ {
		row := binary.Pix[binary.PixOffset(inner.Min.X, y):]
		for _, v := range row[:inner.Dx()] {
			if v == 0 {
				blacks++
			}
		}
	}
	return float64(blacks) / float64(inner.Dx()*inner.Dy()), true
}

// trimmed не использует image.Rect: он переставляет углы, и пустая область стала бы непустой.
func trimmed(b image.Rectangle) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(b.Min.X+irisSizeBorder, b.Min.Y+irisSizeBorder),
		Max: image.Pt(b.Max.X-irisSizeBorder, b.Max.Y-irisSizeBorder),
	}
}

func validSide(side entity.Side) bool {
	return side == entity.SideLeft || side == entity.SideRight
}
