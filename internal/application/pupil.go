package app

import (
	"image"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

// PupilLocator находит зрачок на кадре глаза при заданном пороге.
type PupilLocator struct {
	proc port.IrisProcessor
}

func NewPupilLocator(proc port.IrisProcessor) *PupilLocator {
	return &PupilLocator{proc: proc}
}

// Locate выделяет радужку и считает её центр. Если контур радужки не найден,
// возвращается зрачок с Located=false.
func (l *PupilLocator) Locate(eye *image.Gray, threshold int) entity.Pupil {
	iris := l.proc.Binarize(eye, threshold)
	centroid, ok := l.proc.Centroid(iris)
	return entity.Pupil{
		IrisFrame: iris,
		Threshold: threshold,
		Centroid:  centroid,
		Located:   ok,
	}
}
