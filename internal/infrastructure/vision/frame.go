package vision

import "errors"

// Ошибки чтения кадра с камеры. Обе означают пропуск кадра: у камеры нет конца потока,
// и решение о прерывании сессии принимает вызывающий по числу пропусков подряд.
var (
	ErrGrabFailed = errors.New("webcam grab failed")
	ErrEmptyFrame = errors.New("empty frame")
)

// grabError переводит результат захвата кадра в ошибку.
func grabError(grabbed, empty bool) error {
	switch {
	case !grabbed:
		return ErrGrabFailed
	case empty:
		return ErrEmptyFrame
	}
	return nil
}
