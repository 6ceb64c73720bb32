package face

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

// DlibLandmarker получает 68-точечную разметку лица от внешней программы на dlib.
//
// Программа вызывается как
//
//	<Command> <image.png> <ModelPath> <x0> <y0> <x1> <y1>
//
// и печатает JSON вида {"landmarks": [[x, y], ...], "error": ""}.
type DlibLandmarker struct {
	Command   string
	ModelPath string
}

func NewDlibLandmarker(command, modelPath string) *DlibLandmarker {
	return &DlibLandmarker{Command: command, ModelPath: modelPath}
}

// Predict передаёт кадр программе через временный PNG-файл.
func (l *DlibLandmarker) Predict(ctx context.Context, frame *image.Gray, face image.Rectangle) (entity.Landmarks, error) {
	dir, err := os.MkdirTemp("", "gaze-landmarks-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "frame.png")
	if err := imaging.Save(frame, path); err != nil {
		return nil, fmt.Errorf("save frame: %w", err)
	}

	origin := frame.Bounds().Min
	face = face.Sub(origin)
	cmd := exec.CommandContext(ctx, l.Command, path, l.ModelPath,
		strconv.Itoa(face.Min.X), strconv.Itoa(face.Min.Y),
		strconv.Itoa(face.Max.X), strconv.Itoa(face.Max.Y))
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("run landmark helper: %w", err)
	}

	// Кадр сохраняется от (0,0), поэтому точки сдвигаются обратно.
	landmarks, err := parseLandmarks(output)
	if err != nil {
		return nil, err
	}
	for i := range landmarks {
		landmarks[i] = landmarks[i].Add(origin)
	}
	return landmarks, nil
}

func parseLandmarks(output []byte) (entity.Landmarks, error) {
	var result struct {
		Error     string   `json:"error"`
		Landmarks [][2]int `json:"landmarks"`
	}
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("parse landmark output: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", port.ErrNoLandmarks, result.Error)
	}
	if len(result.Landmarks) < entity.LandmarkCount {
		return nil, fmt.Errorf("%w: got %d points", port.ErrNoLandmarks, len(result.Landmarks))
	}

	landmarks := make(entity.Landmarks, len(result.Landmarks))
	for i, p := range result.Landmarks {
		landmarks[i] = image.Pt(p[0], p[1])
	}
	return landmarks, nil
}

// Проверка реализации интерфейса
var _ port.LandmarkPredictor = (*DlibLandmarker)(nil)
