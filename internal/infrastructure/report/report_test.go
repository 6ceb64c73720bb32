package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gaze-tracker/internal/domain/entity"
)

func session(start time.Time, center, left, unknown int) *entity.Session {
	s := entity.NewSession(start)
	for i := 0; i < center; i++ {
		s.Record(entity.GazeCenter)
	}
	for i := 0; i < left; i++ {
		s.Record(entity.GazeLeft)
	}
	for i := 0; i < unknown; i++ {
		s.Record(entity.GazeUnknown)
	}
	return s
}

func TestEChartsRenderer_Render(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	sessions := []*entity.Session{
		session(start, 2, 2, 0),
		session(start.Add(time.Hour), 3, 1, 2),
	}

	var buf bytes.Buffer
	require.NoError(t, NewEChartsRenderer().Render(&buf, sessions))

	html := buf.String()
	require.Contains(t, html, "Gaze tracking report")
	require.Contains(t, html, "Gaze states")
	require.Contains(t, html, "attention=75% distraction=low frames=6")
	require.Contains(t, html, "Attention per session")
	require.Contains(t, html, "sessions=2 mean=62.5% std=17.7%")
	require.Contains(t, html, "01.03 10:30")
}

func TestEChartsRenderer_NoSessions(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, NewEChartsRenderer().Render(&buf, nil), ErrNoSessions)
	require.Zero(t, buf.Len())
}

func TestAttentionPercent(t *testing.T) {
	require.Equal(t, 66.7, attentionPercent(session(time.Now(), 2, 1, 5)))
	require.Equal(t, 0.0, attentionPercent(session(time.Now(), 0, 0, 3)))
}

func TestAttentionSummary(t *testing.T) {
	mean, std := attentionSummary(nil)
	require.Zero(t, mean)
	require.Zero(t, std)

	mean, std = attentionSummary([]float64{40})
	require.Equal(t, 40.0, mean)
	require.Zero(t, std)

	mean, std = attentionSummary([]float64{50, 75})
	require.InDelta(t, 62.5, mean, 1e-9)
	require.InDelta(t, 17.678, std, 1e-3)
}
