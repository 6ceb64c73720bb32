package app

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/infrastructure/storage"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

// tickingClock сдвигается на секунду при каждом вызове.
func tickingClock() func() time.Time {
	t := fixedNow()
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTracking(source *fakeSource, detector *fakeDetector) (*TrackingService, *storage.MemorySessionRepository) {
	repo := storage.NewMemorySessionRepository()
	estimator := newEstimator(detector, &fakePredictor{landmarks: faceLandmarks()}, 1)
	svc := NewTrackingService(source, estimator, repo, repo)
	svc.now = tickingClock()
	return svc, repo
}

func frames(n int, frame image.Image) []readResult {
	out := make([]readResult, n)
	for i := range out {
		out[i] = readResult{frame: frame}
	}
	return out
}

func TestTrackingService_RunUntilEndOfStream(t *testing.T) {
	results := frames(3, faceFrame())
	results = append(results, readResult{err: errors.New("usb hiccup")})
	results = append(results, frames(1, faceFrame())...)
	source := &fakeSource{results: results}

	svc, repo := newTracking(source, faceDetector())
	ctx := context.Background()

	session, err := svc.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, session.Frames)
	require.Equal(t, 1, session.Skipped)
	require.Equal(t, 4, session.Counts[entity.GazeCenter])
	require.Equal(t, 1.0, session.Attention())
	require.Equal(t, entity.DistractionLow, session.Distraction())
	require.InDelta(t, 0.5, session.HorizontalMean, 1e-9)
	require.Zero(t, session.HorizontalStdDev)
	require.Equal(t, fixedNow().Add(time.Second), session.StartedAt)
	require.True(t, session.EndedAt.After(session.StartedAt))

	saved, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, 4, saved.Frames)

	snap, ok := repo.LatestSnapshot()
	require.True(t, ok)
	require.Equal(t, entity.GazeCenter, snap.Gaze.State())
	require.Equal(t, 4, snap.Session.Frames)
	require.Equal(t, image.Rect(0, 0, 200, 120), snap.Annotated.Bounds())
}

func TestTrackingService_UnknownFramesCounted(t *testing.T) {
	source := &fakeSource{results: frames(2, faceFrame())}
	svc, _ := newTracking(source, &fakeDetector{})

	session, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, session.Counts[entity.GazeUnknown])
	require.Zero(t, session.Located())
	require.Zero(t, session.Attention())
	require.Equal(t, entity.DistractionHigh, session.Distraction())
}

func TestTrackingService_TooManyReadFailures(t *testing.T) {
	var results []readResult
	for i := 0; i < 5; i++ {
		results = append(results, readResult{err: errors.New("no signal")})
	}
	source := &fakeSource{results: results}
	svc, repo := newTracking(source, faceDetector())
	svc.MaxReadFailures = 3

	session, err := svc.Run(context.Background())
	require.ErrorIs(t, err, ErrTooManyReadFailures)
	require.Equal(t, 3, session.Skipped)
	require.Len(t, source.results, 2)

	_, err = repo.Get(context.Background(), session.ID)
	require.NoError(t, err)
}

func TestTrackingService_StopsOnCancel(t *testing.T) {
	source := &fakeSource{results: frames(5, faceFrame())}
	detector := faceDetector()
	svc, repo := newTracking(source, detector)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session, err := svc.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, session.Frames)
	require.Zero(t, detector.calls)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
}
