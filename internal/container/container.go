package container

import (
	"errors"
	"fmt"
	"io"

	"gaze-tracker/config"
	app "gaze-tracker/internal/application"
	"gaze-tracker/internal/domain/port"
	"gaze-tracker/internal/infrastructure/capture"
	"gaze-tracker/internal/infrastructure/face"
	"gaze-tracker/internal/infrastructure/imgproc"
	"gaze-tracker/internal/infrastructure/report"
	"gaze-tracker/internal/infrastructure/storage"
	"gaze-tracker/internal/infrastructure/vision"
	"gaze-tracker/internal/log"
)

// Deps — внешние зависимости трекера, которые собирает New.
type Deps struct {
	Source    port.FrameSource
	Detector  port.FaceDetector
	Predictor port.LandmarkPredictor
	Processor port.IrisProcessor
	Sessions  port.SessionRepository
	Snapshots port.SnapshotStore
	Renderer  port.ReportRenderer
}

type Container struct {
	Calibrator      *app.Calibrator
	Estimator       *app.GazeEstimator
	TrackingService *app.TrackingService
	SessionService  *app.SessionService

	closers []io.Closer
}

// New собирает трекер по конфигурации.
func New(cfg *config.Config) (*Container, error) {
	var closers []io.Closer
	fail := func(err error) (*Container, error) {
		closeAll(closers)
		return nil, err
	}

	source, err := newSource(cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, source)

	detector, err := face.NewPigoDetector(cfg.CascadeDir)
	if err != nil {
		return fail(fmt.Errorf("face detector: %w", err))
	}

	var predictor port.LandmarkPredictor = detector
	if cfg.LandmarkCmd != "" {
		predictor = face.NewDlibLandmarker(cfg.LandmarkCmd, cfg.LandmarkModel)
	}

	proc, err := vision.NewIrisProcessor()
	if err != nil {
		log.Debug("using pure Go iris processor", "reason", err)
		proc = imgproc.New()
	}

	memory := storage.NewMemorySessionRepository()
	var sessions port.SessionRepository = memory
	if cfg.DBPath != "" {
		db, err := storage.NewSQLiteSessionRepository(cfg.DBPath)
		if err != nil {
			return fail(fmt.Errorf("session storage: %w", err))
		}
		closers = append(closers, db)
		sessions = db
	}

	c := Assemble(cfg, Deps{
		Source:    source,
		Detector:  detector,
		Predictor: predictor,
		Processor: proc,
		Sessions:  sessions,
		Snapshots: memory,
		Renderer:  report.NewEChartsRenderer(),
	})
	c.closers = closers
	return c, nil
}

// Assemble связывает сервисы приложения с готовыми зависимостями.
func Assemble(cfg *config.Config, deps Deps) *Container {
	calibrator := app.NewCalibrator(deps.Processor, cfg.CalibrationFrames)
	estimator := app.NewGazeEstimator(deps.Detector, deps.Predictor, deps.Processor, calibrator)

	tracking := app.NewTrackingService(deps.Source, estimator, deps.Sessions, deps.Snapshots)
	if cfg.MaxReadFailures > 0 {
		tracking.MaxReadFailures = cfg.MaxReadFailures
	}

	return &Container{
		Calibrator:      calibrator,
		Estimator:       estimator,
		TrackingService: tracking,
		SessionService:  app.NewSessionService(deps.Sessions, deps.Snapshots, deps.Renderer),
	}
}

// Close освобождает источник кадров и базу.
func (c *Container) Close() error {
	return closeAll(c.closers)
}

func newSource(cfg *config.Config) (port.FrameSource, error) {
	if cfg.FramesDir != "" {
		src, err := capture.NewDirectorySource(cfg.FramesDir)
		if err != nil {
			return nil, fmt.Errorf("frame source: %w", err)
		}
		return src, nil
	}

	src, err := vision.OpenWebcam(cfg.CameraID)
	if err != nil {
		return nil, fmt.Errorf("frame source: %w", err)
	}
	return src, nil
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
