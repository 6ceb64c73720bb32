package telegram

import (
	"context"
	"errors"
	"image"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	app "gaze-tracker/internal/application"
	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/infrastructure/storage"
)

type calibrated bool

func (c calibrated) IsComplete() bool { return bool(c) }

type stubRenderer struct{}

func (stubRenderer) Render(w io.Writer, sessions []*entity.Session) error {
	if len(sessions) == 0 {
		return errors.New("no sessions")
	}
	_, err := io.WriteString(w, "<html></html>")
	return err
}

func centerGaze() entity.Gaze {
	eye := func(origin image.Point) entity.Eye {
		return entity.Eye{
			Origin:  origin,
			CenterX: 25,
			CenterY: 13,
			Blink:   entity.SomeRatio(2.5),
			Pupil:   entity.Pupil{Centroid: image.Pt(20, 13), Located: true},
		}
	}
	return entity.Gaze{Left: eye(image.Pt(35, 47)), Right: eye(image.Pt(135, 47)), EyesFound: true}
}

func testSession() *entity.Session {
	s := entity.NewSession(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	s.ID = "0123456789abcdef"
	s.EndedAt = s.StartedAt.Add(95 * time.Second)
	s.Record(entity.GazeCenter)
	s.Record(entity.GazeCenter)
	s.Record(entity.GazeCenter)
	s.Record(entity.GazeLeft)
	s.Record(entity.GazeUnknown)
	s.Skipped = 1
	s.HorizontalMean = 0.5
	return s
}

func newTestBot(t *testing.T, withSnapshot bool) (*Bot, *storage.MemorySessionRepository) {
	repo := storage.NewMemorySessionRepository()
	if withSnapshot {
		repo.PutSnapshot(entity.Snapshot{
			Gaze:      centerGaze(),
			Annotated: image.NewRGBA(image.Rect(0, 0, 20, 10)),
			Session:   testSession(),
		})
	}
	svc := app.NewSessionService(repo, repo, stubRenderer{})
	return &Bot{sessions: svc, calib: calibrated(true)}, repo
}

func TestFormatStatus(t *testing.T) {
	text := formatStatus(entity.Snapshot{Gaze: centerGaze()}, true)
	require.Equal(t, "👁 Looking center\nLeft pupil:  (55, 60)\nRight pupil: (155, 60)\nКалибровка: завершена", text)

	text = formatStatus(entity.Snapshot{}, false)
	require.Contains(t, text, "Зрачки не найдены")
	require.Contains(t, text, "Left pupil:  -")
	require.Contains(t, text, "Калибровка: идёт")
}

func TestFormatStats(t *testing.T) {
	text := formatStats(testSession())
	require.Contains(t, text, "Сессия 01234567")
	require.Contains(t, text, "Кадров: 5 (пропущено 1, зрачки найдены на 4)")
	require.Contains(t, text, "• center: 3")
	require.Contains(t, text, "• left: 1")
	require.NotContains(t, text, "blinking")
	require.Contains(t, text, "Внимание: 75%, рассеянность: low")
}

func TestFormatHistory(t *testing.T) {
	text := formatHistory([]*entity.Session{testSession()})
	require.Equal(t, "🗂 Последние сессии:\n01.03 09:30 01234567 — 1m35s, внимание 75%", text)
}

func TestHandleCommand_NoFrames(t *testing.T) {
	b, _ := newTestBot(t, false)
	ctx := context.Background()

	for _, cmd := range []string{"status", "snapshot", "stats"} {
		require.Equal(t, msgNoFrames, b.handleCommand(ctx, cmd).text, cmd)
	}
	require.Equal(t, msgNoSessions, b.handleCommand(ctx, "history").text)
	require.Equal(t, msgReportError, b.handleCommand(ctx, "report").text)
	require.Equal(t, msgUnknownCommand, b.handleCommand(ctx, "check").text)
	require.Equal(t, msgStart, b.handleCommand(ctx, "start").text)
}

func TestHandleCommand_WithSession(t *testing.T) {
	b, repo := newTestBot(t, true)
	ctx := context.Background()

	status := b.handleCommand(ctx, "status")
	require.True(t, strings.HasPrefix(status.text, "👁 Looking center"))

	snap := b.handleCommand(ctx, "snapshot")
	require.NotEmpty(t, snap.photo)
	require.Equal(t, []byte{0xFF, 0xD8}, snap.photo[:2])

	require.Contains(t, b.handleCommand(ctx, "stats").text, "Кадров: 5")

	require.NoError(t, repo.Save(ctx, testSession()))
	require.Contains(t, b.handleCommand(ctx, "history").text, "01234567")

	report := b.handleCommand(ctx, "report")
	require.Equal(t, "gaze-report.html", report.fileName)
	require.Equal(t, "<html></html>", string(report.document))
}

func TestShortID(t *testing.T) {
	require.Equal(t, "abc", shortID("abc"))
	require.Equal(t, "01234567", shortID("0123456789"))
}
