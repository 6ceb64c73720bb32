package port

import "image"

// IrisProcessor интерфейс обработки изображения глаза
type IrisProcessor interface {
	// Isolate закрашивает белым всё, что лежит вне многоугольника polygon
	Isolate(frame *image.Gray, polygon []image.Point) *image.Gray

	// Binarize сглаживает кадр глаза, применяет эрозию и бинаризует по порогу threshold
	Binarize(eye *image.Gray, threshold int) *image.Gray

	// Centroid находит центр радужки на бинарном кадре
	Centroid(binary *image.Gray) (image.Point, bool)
}
