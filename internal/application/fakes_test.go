package app

import (
	"context"
	"image"
	"image/color"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

type fakeDetector struct {
	faces []image.Rectangle
	err   error
	calls int
}

func (d *fakeDetector) DetectFaces(ctx context.Context, frame *image.Gray) ([]image.Rectangle, error) {
	d.calls++
	return d.faces, d.err
}

type fakePredictor struct {
	landmarks entity.Landmarks
	err       error
}

func (p *fakePredictor) Predict(ctx context.Context, frame *image.Gray, face image.Rectangle) (entity.Landmarks, error) {
	return p.landmarks, p.err
}

type readResult struct {
	frame image.Image
	err   error
}

// fakeSource отдаёт заранее заданные кадры и ошибки, затем ErrEndOfStream.
type fakeSource struct {
	results []readResult
	closed  bool
}

func (s *fakeSource) Read(ctx context.Context) (image.Image, error) {
	if len(s.results) == 0 {
		return nil, port.ErrEndOfStream
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.frame, r.err
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func fillDisk(img *image.Gray, cx, cy, r int, v uint8) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
				img.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
}

// leftEye — шестиугольник глаза шириной 40 и высотой 16.
var leftEye = []image.Point{{40, 60}, {53, 52}, {67, 52}, {80, 60}, {67, 68}, {53, 68}}

func shifted(points []image.Point, dx int) []image.Point {
	out := make([]image.Point, len(points))
	for i, p := range points {
		out[i] = p.Add(image.Pt(dx, 0))
	}
	return out
}

// faceLandmarks строит разметку, в которой заполнены только точки глаз.
func faceLandmarks() entity.Landmarks {
	l := make(entity.Landmarks, entity.LandmarkCount)
	right := shifted(leftEye, 100)
	for i, idx := range entity.LeftEyePoints {
		l[idx] = leftEye[i]
	}
	for i, idx := range entity.RightEyePoints {
		l[idx] = right[i]
	}
	return l
}

// faceFrame — светлый кадр 200x120 с тёмными зрачками в (55,60) и (155,60).
func faceFrame() *image.Gray {
	frame := uniformGray(200, 120, 200)
	fillDisk(frame, 55, 60, 6, 30)
	fillDisk(frame, 155, 60, 6, 30)
	return frame
}
