package app

import (
	"image"
	"image/color"
	"image/draw"

	"gaze-tracker/internal/domain/entity"
)

const crossSize = 5

var pupilColor = color.RGBA{G: 255, A: 255}

// Annotate возвращает копию кадра с зелёными крестиками на найденных зрачках.
// Координаты зрачков отсчитываются от левого верхнего угла кадра, как после Grayscale.
func Annotate(frame image.Image, gaze entity.Gaze) *image.RGBA {
	b := frame.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, frame, b.Min, draw.Src)

	if !gaze.PupilsLocated() {
		return out
	}
	if p, ok := gaze.PupilLeftCoords(); ok {
		drawCross(out, p.Add(b.Min))
	}
	if p, ok := gaze.PupilRightCoords(); ok {
		drawCross(out, p.Add(b.Min))
	}
	return out
}

// drawCross рисует крестик; точки за пределами кадра пропускаются.
func drawCross(img *image.RGBA, c image.Point) {
	for d := -crossSize; d <= crossSize; d++ {
		img.SetRGBA(c.X+d, c.Y, pupilColor)
		img.SetRGBA(c.X, c.Y+d, pupilColor)
	}
}
