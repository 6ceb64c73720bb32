//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"gaze-tracker/internal/domain/port"
)

// ErrDisabled возвращается конструкторами, если сборка без тега gocv.
var ErrDisabled = errors.New("gocv build tag is not enabled")

// NewIrisProcessor возвращает ошибку, если сборка без тега gocv.
func NewIrisProcessor() (port.IrisProcessor, error) {
	return nil, ErrDisabled
}

// OpenWebcam возвращает ошибку, если сборка без тега gocv.
func OpenWebcam(deviceID int) (port.FrameSource, error) {
	_ = deviceID
	return nil, ErrDisabled
}
