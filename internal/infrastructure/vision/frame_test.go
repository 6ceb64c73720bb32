package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gaze-tracker/internal/domain/port"
)

func TestGrabError(t *testing.T) {
	require.NoError(t, grabError(true, false))

	err := grabError(false, true)
	require.ErrorIs(t, err, ErrGrabFailed)
	require.NotErrorIs(t, err, port.ErrEndOfStream)

	err = grabError(true, true)
	require.ErrorIs(t, err, ErrEmptyFrame)
	require.NotErrorIs(t, err, port.ErrEndOfStream)
}
