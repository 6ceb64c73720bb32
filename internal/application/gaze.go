package app

import (
	"context"
	"errors"
	"image"
	"image/draw"

	pigo "github.com/esimov/pigo/core"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
	"gaze-tracker/internal/log"
)

// GazeEstimator определяет направление взгляда по кадру. Калибратор принадлежит
// оценщику: сбросить калибровку можно только создав новый оценщик.
type GazeEstimator struct {
	detector   port.FaceDetector
	predictor  port.LandmarkPredictor
	calibrator *Calibrator
	eyes       *EyeAnalyzer
}

// NewGazeEstimator создаёт оценщик взгляда.
func NewGazeEstimator(detector port.FaceDetector, predictor port.LandmarkPredictor, proc port.IrisProcessor, calibrator *Calibrator) *GazeEstimator {
	return &GazeEstimator{
		detector:   detector,
		predictor:  predictor,
		calibrator: calibrator,
		eyes:       NewEyeAnalyzer(proc, calibrator),
	}
}

// Calibration возвращает калибратор оценщика.
func (e *GazeEstimator) Calibration() *Calibrator {
	return e.calibrator
}

// Refresh анализирует новый кадр. Ошибки детекторов не прерывают работу:
// кадр просто получает состояние GazeUnknown.
func (e *GazeEstimator) Refresh(ctx context.Context, frame image.Image) entity.Gaze {
	return e.Analyze(ctx, Grayscale(frame))
}

// Analyze анализирует кадр в оттенках серого.
func (e *GazeEstimator) Analyze(ctx context.Context, gray *image.Gray) entity.Gaze {
	faces, err := e.detector.DetectFaces(ctx, gray)
	if err != nil {
		log.Warn("face detection failed", "error", err)
		return entity.Gaze{}
	}
	if len(faces) == 0 {
		log.Debug("no face on frame")
		return entity.Gaze{}
	}

	landmarks, err := e.predictor.Predict(ctx, gray, faces[0])
	if err != nil {
		if errors.Is(err, port.ErrNoLandmarks) {
			log.Debug("no landmarks for face", "face", faces[0])
		} else {
			log.Warn("landmark prediction failed", "error", err)
		}
		return entity.Gaze{}
	}

	left, ok := e.eyes.Analyze(gray, landmarks, entity.SideLeft)
	if !ok {
		return entity.Gaze{}
	}
	right, ok := e.eyes.Analyze(gray, landmarks, entity.SideRight)
	if !ok {
		return entity.Gaze{}
	}
	return entity.Gaze{Left: left, Right: right, EyesFound: true}
}

// Grayscale переводит кадр в оттенки серого. Результат всегда начинается в (0,0),
// поэтому координаты лица, глаз и зрачков отсчитываются от левого верхнего угла кадра.
func Grayscale(frame image.Image) *image.Gray {
	b := frame.Bounds()
	if g, ok := frame.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}

	if b.Min != (image.Point{}) {
		gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(gray, gray.Rect, frame, b.Min, draw.Src)
		return gray
	}

	return &image.Gray{
		Pix:    pigo.RgbToGrayscale(frame),
		Stride: b.Dx(),
		Rect:   b,
	}
}
