// Package face находит лицо на кадре и размечает контуры глаз.
package face

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	pigo "github.com/esimov/pigo/core"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

// Имена файлов каскадов в каталоге cascadeDir.
const (
	FaceCascadeFile   = "facefinder"
	PuplocCascadeFile = "puploc"
)

// Положение глаз относительно центра лица в долях размера лица.
const (
	eyeRowOffset = 0.085
	eyeColOffset = 0.185
	eyeWidth     = 0.2
	puplocScale  = 0.4
	puplocTries  = 63
)

// PigoDetector ищет лица каскадом pigo и строит контуры глаз вокруг найденных зрачков.
// Реализует и FaceDetector, и LandmarkPredictor.
type PigoDetector struct {
	MinSize      int     // минимальный размер лица в пикселях
	MaxSize      int     // максимальный размер лица в пикселях
	ShiftFactor  float64 // шаг окна поиска
	ScaleFactor  float64 // шаг масштаба окна
	IoUThreshold float64 // порог объединения пересекающихся детекций
	MinQuality   float32 // минимальная оценка детекции

	faces  *pigo.Pigo
	puploc *pigo.PuplocCascade
}

// NewPigoDetector загружает каскады facefinder и puploc из каталога cascadeDir.
func NewPigoDetector(cascadeDir string) (*PigoDetector, error) {
	faceData, err := os.ReadFile(filepath.Join(cascadeDir, FaceCascadeFile))
	if err != nil {
		return nil, fmt.Errorf("read face cascade: %w", err)
	}
	faces, err := pigo.NewPigo().Unpack(faceData)
	if err != nil {
		return nil, fmt.Errorf("unpack face cascade: %w", err)
	}

	puplocData, err := os.ReadFile(filepath.Join(cascadeDir, PuplocCascadeFile))
	if err != nil {
		return nil, fmt.Errorf("read puploc cascade: %w", err)
	}
	puploc, err := pigo.NewPuplocCascade().UnpackCascade(puplocData)
	if err != nil {
		return nil, fmt.Errorf("unpack puploc cascade: %w", err)
	}

	return &PigoDetector{
		MinSize:      80,
		MaxSize:      1000,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.2,
		MinQuality:   5,
		faces:        faces,
		puploc:       puploc,
	}, nil
}

// DetectFaces возвращает найденные лица, лучшее первым.
func (d *PigoDetector) DetectFaces(ctx context.Context, frame *image.Gray) ([]image.Rectangle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := pigo.CascadeParams{
		MinSize:     d.MinSize,
		MaxSize:     d.MaxSize,
		ShiftFactor: d.ShiftFactor,
		ScaleFactor: d.ScaleFactor,
		ImageParams: imageParams(frame),
	}
	dets := d.faces.RunCascade(params, 0.0)
	dets = d.faces.ClusterDetections(dets, d.IoUThreshold)

	rects := faceRects(dets, d.MinQuality)
	for i := range rects {
		rects[i] = rects[i].Add(frame.Bounds().Min)
	}
	return rects, nil
}

// Predict строит разметку, в которой заполнены только точки контуров глаз (36–47).
// Контуры стоят на фиксированных местах относительно лица, а puploc лишь подтверждает,
// что в обеих областях есть глаз. Остальные точки нулевые.
func (d *PigoDetector) Predict(ctx context.Context, frame *image.Gray, face image.Rectangle) (entity.Landmarks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	left, right, scale := eyeSeeds(face)
	params := imageParams(frame)
	origin := frame.Bounds().Min
	if !d.hasPupil(params, left.Sub(origin), scale) || !d.hasPupil(params, right.Sub(origin), scale) {
		return nil, port.ErrNoLandmarks
	}

	return eyeLandmarks(left, right, eyeWidth*float64(scale)), nil
}

// eyeSeeds возвращает ожидаемые центры левого и правого глаза для лица face.
func eyeSeeds(face image.Rectangle) (left, right image.Point, scale int) {
	scale = face.Dx()
	row := (face.Min.Y+face.Max.Y)/2 - int(eyeRowOffset*float64(scale))
	col := (face.Min.X + face.Max.X) / 2
	dx := int(eyeColOffset * float64(scale))
	return image.Pt(col-dx, row), image.Pt(col+dx, row), scale
}

// hasPupil запускает puploc из точки seed в координатах массива пикселей.
func (d *PigoDetector) hasPupil(params pigo.ImageParams, seed image.Point, scale int) bool {
	pl := pigo.Puploc{
		Row:      seed.Y,
		Col:      seed.X,
		Scale:    float32(scale) * puplocScale,
		Perturbs: puplocTries,
	}
	found := d.puploc.RunDetector(pl, params, 0.0, false)
	return found != nil && found.Row > 0 && found.Col > 0
}

func imageParams(frame *image.Gray) pigo.ImageParams {
	b := frame.Bounds()
	pixels := frame.Pix
	if b.Min != (image.Point{}) || frame.Stride != b.Dx() {
		pixels = make([]uint8, 0, b.Dx()*b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := frame.PixOffset(b.Min.X, y)
			pixels = append(pixels, frame.Pix[i:i+b.Dx()]...)
		}
	}
	return pigo.ImageParams{
		Pixels: pixels,
		Rows:   b.Dy(),
		Cols:   b.Dx(),
		Dim:    b.Dx(),
	}
}

// faceRects отбрасывает слабые детекции и сортирует остальные по убыванию оценки.
func faceRects(dets []pigo.Detection, minQuality float32) []image.Rectangle {
	kept := make([]pigo.Detection, 0, len(dets))
	for _, det := range dets {
		if det.Q >= minQuality {
			kept = append(kept, det)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Q > kept[j].Q
	})

	rects := make([]image.Rectangle, len(kept))
	for i, det := range kept {
		half := det.Scale / 2
		rects[i] = image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half)
	}
	return rects
}

// eyeLandmarks строит разметку с шестиугольными контурами глаз шириной width вокруг центров left и right.
func eyeLandmarks(left, right image.Point, width float64) entity.Landmarks {
	landmarks := make(entity.Landmarks, entity.LandmarkCount)
	for i, p := range eyeContour(left, width) {
		landmarks[entity.LeftEyePoints[i]] = p
	}
	for i, p := range eyeContour(right, width) {
		landmarks[entity.RightEyePoints[i]] = p
	}
	return landmarks
}

// eyeContour повторяет порядок точек 68-точечной разметки: левый угол, верхнее веко
// слева направо, правый угол, нижнее веко справа налево.
func eyeContour(center image.Point, width float64) []image.Point {
	half := int(width / 2)
	inner := int(width / 6)
	lid := int(width / 6)
	return []image.Point{
		{center.X - half, center.Y},
		{center.X - inner, center.Y - lid},
		{center.X + inner, center.Y - lid},
		{center.X + half, center.Y},
		{center.X + inner, center.Y + lid},
		{center.X - inner, center.Y + lid},
	}
}

// Проверка реализации интерфейсов
var (
	_ port.FaceDetector      = (*PigoDetector)(nil)
	_ port.LandmarkPredictor = (*PigoDetector)(nil)
)
