//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"gaze-tracker/internal/domain/port"
)

// Webcam читает кадры с веб-камеры через OpenCV.
type Webcam struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// OpenWebcam открывает камеру с номером deviceID.
func OpenWebcam(deviceID int) (port.FrameSource, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open webcam %d: %w", deviceID, err)
	}
	return &Webcam{capture: capture, mat: gocv.NewMat()}, nil
}

// Read возвращает очередной кадр. Неудачный захват и пустой кадр считаются пропуском,
// конец потока камера не сообщает.
func (w *Webcam) Read(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grabbed := w.capture.Read(&w.mat)
	if err := grabError(grabbed, w.mat.Empty()); err != nil {
		return nil, err
	}
	return w.mat.ToImage()
}

// Close освобождает камеру.
func (w *Webcam) Close() error {
	w.mat.Close()
	return w.capture.Close()
}

// Проверка реализации интерфейса
var _ port.FrameSource = (*Webcam)(nil)
