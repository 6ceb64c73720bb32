package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
	"gaze-tracker/internal/log"
)

// DefaultMaxReadFailures — число подряд неудачных чтений кадра, после которого сессия прерывается.
const DefaultMaxReadFailures = 30

// ErrTooManyReadFailures возвращается, когда источник кадров слишком долго не отдаёт кадры.
var ErrTooManyReadFailures = errors.New("too many consecutive frame read failures")

// TrackingService читает кадры из источника, оценивает взгляд и ведёт статистику сессии.
type TrackingService struct {
	source    port.FrameSource
	estimator *GazeEstimator
	sessions  port.SessionRepository
	snapshots port.SnapshotStore

	MaxReadFailures int
	now             func() time.Time
}

// NewTrackingService создаёт сервис отслеживания. snapshots может быть nil.
func NewTrackingService(source port.FrameSource, estimator *GazeEstimator, sessions port.SessionRepository, snapshots port.SnapshotStore) *TrackingService {
	return &TrackingService{
		source:          source,
		estimator:       estimator,
		sessions:        sessions,
		snapshots:       snapshots,
		MaxReadFailures: DefaultMaxReadFailures,
		now:             time.Now,
	}
}

// Run обрабатывает кадры до конца потока, отмены контекста или серии ошибок чтения.
// Итоги сессии сохраняются в любом из этих случаев.
func (s *TrackingService) Run(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(s.now())
	logger := log.With("session", session.ID)
	logger.Info("tracking session started")

	var (
		stats    ratioStats
		failures int
		runErr   error
	)

loop:
	for {
		if ctx.Err() != nil {
			break
		}

		frame, err := s.source.Read(ctx)
		switch {
		case err == nil:
		case errors.Is(err, port.ErrEndOfStream):
			break loop
		case ctx.Err() != nil:
			break loop
		default:
			session.Skipped++
			failures++
			logger.Warn("frame read failed", "error", err, "failures", failures)
			if failures >= s.MaxReadFailures {
				runErr = fmt.Errorf("%w: %v", ErrTooManyReadFailures, err)
				break loop
			}
			continue
		}
		failures = 0

		gaze := s.estimator.Refresh(ctx, frame)
		state := gaze.State()
		session.Record(state)
		stats.add(gaze)
		logger.Debug("frame processed", "frame", session.Frames, "state", state)

		if s.snapshots != nil {
			stats.apply(session)
			s.snapshots.PutSnapshot(entity.Snapshot{
				Gaze:       gaze,
				Annotated:  Annotate(frame, gaze),
				Session:    session.Clone(),
				CapturedAt: s.now(),
			})
		}
	}

	session.EndedAt = s.now()
	stats.apply(session)

	if err := s.sessions.Save(context.WithoutCancel(ctx), session); err != nil {
		return session, errors.Join(runErr, fmt.Errorf("save session: %w", err))
	}

	logger.Info("tracking session finished",
		"frames", session.Frames,
		"skipped", session.Skipped,
		"attention", session.Attention(),
		"distraction", session.Distraction(),
	)
	return session, runErr
}
