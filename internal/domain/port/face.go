package port

import (
	"context"
	"errors"
	"image"

	"gaze-tracker/internal/domain/entity"
)

// ErrNoLandmarks сообщает, что разметку лица получить не удалось.
var ErrNoLandmarks = errors.New("no facial landmarks")

// FaceDetector интерфейс детектора лиц
type FaceDetector interface {
	// DetectFaces возвращает найденные лица, лучшее первым. Пустой результат не является ошибкой.
	DetectFaces(ctx context.Context, frame *image.Gray) ([]image.Rectangle, error)
}

// LandmarkPredictor интерфейс предиктора 68-точечной разметки лица
type LandmarkPredictor interface {
	// Predict возвращает разметку лица face на кадре frame
	Predict(ctx context.Context, frame *image.Gray, face image.Rectangle) (entity.Landmarks, error)
}
