package port

import (
	"context"
	"errors"
	"image"
)

// ErrEndOfStream сообщает, что источник кадров исчерпан.
var ErrEndOfStream = errors.New("end of frame stream")

// FrameSource интерфейс источника кадров (веб-камера, каталог с изображениями)
type FrameSource interface {
	// Read возвращает следующий кадр. ErrEndOfStream завершает сессию,
	// любая другая ошибка означает, что кадр пропущен.
	Read(ctx context.Context) (image.Image, error)

	// Close освобождает ресурсы источника
	Close() error
}
