//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"
	"sort"

	"gocv.io/x/gocv"

	"gaze-tracker/internal/domain/port"
)

// IrisProcessor обрабатывает кадр глаза средствами OpenCV.
type IrisProcessor struct {
	Diameter        int
	SigmaColor      float64
	SigmaSpace      float64
	ErodeIterations int
}

// NewIrisProcessor создаёт обработчик с параметрами, подобранными для кадров глаза с веб-камеры.
func NewIrisProcessor() (port.IrisProcessor, error) {
	return &IrisProcessor{
		Diameter:        10,
		SigmaColor:      15,
		SigmaSpace:      15,
		ErodeIterations: 3,
	}, nil
}

// Isolate закрашивает белым всё за пределами многоугольника.
func (p *IrisProcessor) Isolate(frame *image.Gray, polygon []image.Point) *image.Gray {
	src, err := toMat(frame)
	if err != nil {
		return whiteLike(frame)
	}
	defer src.Close()

	dst := src.Clone()
	defer dst.Close()

	black := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), src.Rows(), src.Cols(), gocv.MatTypeCV8U)
	defer black.Close()

	// Маска белая снаружи многоугольника и чёрная внутри.
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), src.Rows(), src.Cols(), gocv.MatTypeCV8U)
	defer mask.Close()
	if len(polygon) >= 3 {
		pts := gocv.NewPointsVectorFromPoints([][]image.Point{polygon})
		defer pts.Close()
		gocv.FillPoly(&mask, pts, color.RGBA{})
	}

	gocv.BitwiseNotWithMask(black, &dst, mask)
	return fromMat(dst)
}

// Binarize сглаживает кадр с сохранением границ, применяет эрозию и порог.
func (p *IrisProcessor) Binarize(eye *image.Gray, threshold int) *image.Gray {
	src, err := toMat(eye)
	if err != nil {
		return whiteLike(eye)
	}
	defer src.Close()

	smooth := gocv.NewMat()
	defer smooth.Close()
	gocv.BilateralFilter(src, &smooth, p.Diameter, p.SigmaColor, p.SigmaSpace)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	eroded := smooth.Clone()
	defer eroded.Close()
	for i := 0; i < p.ErodeIterations; i++ {
		gocv.Erode(eroded, &eroded, kernel)
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(eroded, &binary, float32(threshold), 255, gocv.ThresholdBinary)
	return fromMat(binary)
}

// Centroid берёт второй по площади контур и возвращает его центр масс.
func (p *IrisProcessor) Centroid(binary *image.Gray) (image.Point, bool) {
	src, err := toMat(binary)
	if err != nil {
		return image.Point{}, false
	}
	defer src.Close()

	contours := gocv.FindContours(src, gocv.RetrievalTree, gocv.ChainApproxNone)
	defer contours.Close()
	if contours.Size() < 2 {
		return image.Point{}, false
	}

	type contour struct {
		area   float64
		points []image.Point
	}
	list := make([]contour, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		list = append(list, contour{area: gocv.ContourArea(c), points: c.ToPoints()})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].area < list[j].area
	})

	return polygonCentroid(list[len(list)-2].points)
}

func toMat(img *image.Gray) (gocv.Mat, error) {
	dense := denseGray(img)
	return gocv.NewMatFromBytes(dense.Rect.Dy(), dense.Rect.Dx(), gocv.MatTypeCV8UC1, dense.Pix)
}

func fromMat(m gocv.Mat) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Cols(), m.Rows()))
	copy(out.Pix, m.ToBytes())
	return out
}

func whiteLike(img *image.Gray) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	for i := range out.Pix {
		out.Pix[i] = 255
	}
	return out
}

// Проверка реализации интерфейса
var _ port.IrisProcessor = (*IrisProcessor)(nil)
