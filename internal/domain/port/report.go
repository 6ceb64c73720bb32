package port

import (
	"io"

	"gaze-tracker/internal/domain/entity"
)

// ReportRenderer интерфейс построителя отчёта по сессиям
type ReportRenderer interface {
	// Render записывает отчёт; последняя сессия в списке считается текущей
	Render(w io.Writer, sessions []*entity.Session) error
}
