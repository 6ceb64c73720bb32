package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewSession(started)

	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	require.Equal(t, started, s.StartedAt)
	require.Zero(t, s.Frames)
	require.Equal(t, DistractionHigh, s.Distraction())
}

func TestSession_AttentionAndDistraction(t *testing.T) {
	s := NewSession(time.Now())
	for i := 0; i < 7; i++ {
		s.Record(GazeCenter)
	}
	s.Record(GazeLeft)
	s.Record(GazeRight)
	s.Record(GazeBlinking)
	s.Record(GazeUnknown)
	s.Record(GazeUnknown)

	require.Equal(t, 12, s.Frames)
	require.Equal(t, 10, s.Located())
	require.InDelta(t, 0.7, s.Attention(), 1e-12)
	require.Equal(t, DistractionLow, s.Distraction())

	s.Record(GazeLeft)
	require.Equal(t, DistractionMedium, s.Distraction())
}

func TestSession_Clone(t *testing.T) {
	s := NewSession(time.Now())
	s.Record(GazeCenter)

	c := s.Clone()
	c.Record(GazeLeft)

	require.Equal(t, 1, s.Frames)
	require.Zero(t, s.Counts[GazeLeft])
	require.Equal(t, 1, c.Counts[GazeLeft])
}

func TestSession_Duration(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewSession(start)
	require.Zero(t, s.Duration())

	s.EndedAt = start.Add(90 * time.Second)
	require.Equal(t, 90*time.Second, s.Duration())
}
