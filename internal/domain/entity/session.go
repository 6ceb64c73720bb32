package entity

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// DistractionLevel уровень рассеянности за сессию
type DistractionLevel string

const (
	DistractionLow    DistractionLevel = "low"
	DistractionMedium DistractionLevel = "medium"
	DistractionHigh   DistractionLevel = "high"
)

// Границы доли кадров со взглядом в центр.
const (
	lowDistractionAttention    = 0.7
	mediumDistractionAttention = 0.4
)

// Session хранит итоги одной сессии отслеживания взгляда.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Frames    int               // обработанные кадры
	Skipped   int               // кадры, которые не удалось прочитать
	Counts    map[GazeState]int // число кадров по состояниям

	HorizontalMean   float64
	HorizontalStdDev float64
	VerticalMean     float64
	VerticalStdDev   float64
}

// NewSession создаёт сессию с новым идентификатором.
func NewSession(startedAt time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		Counts:    make(map[GazeState]int),
	}
}

// Record учитывает очередной кадр.
func (s *Session) Record(state GazeState) {
	if s.Counts == nil {
		s.Counts = make(map[GazeState]int)
	}
	s.Frames++
	s.Counts[state]++
}

// Located возвращает число кадров, на которых найдены оба зрачка.
func (s *Session) Located() int {
	return s.Frames - s.Counts[GazeUnknown]
}

// Attention возвращает долю кадров со взглядом в центр среди кадров с найденными зрачками.
func (s *Session) Attention() float64 {
	located := s.Located()
	if located == 0 {
		return 0
	}
	return float64(s.Counts[GazeCenter]) / float64(located)
}

// Distraction оценивает уровень рассеянности по доле внимания.
func (s *Session) Distraction() DistractionLevel {
	switch a := s.Attention(); {
	case a >= lowDistractionAttention:
		return DistractionLow
	case a >= mediumDistractionAttention:
		return DistractionMedium
	default:
		return DistractionHigh
	}
}

// Duration возвращает длительность сессии.
func (s *Session) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Clone возвращает независимую копию сессии.
func (s *Session) Clone() *Session {
	c := *s
	c.Counts = make(map[GazeState]int, len(s.Counts))
	for k, v := range s.Counts {
		c.Counts[k] = v
	}
	return &c
}

// Snapshot — последний обработанный кадр текущей сессии.
type Snapshot struct {
	Gaze       Gaze
	Annotated  image.Image // кадр с отмеченными зрачками
	Session    *Session    // копия статистики на момент кадра
	CapturedAt time.Time
}
