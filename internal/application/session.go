package app

import (
	"context"
	"fmt"
	"io"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

// SessionService отдаёт итоги сессий и последний кадр внешним клиентам (бот, отчёт).
type SessionService struct {
	sessions  port.SessionRepository
	snapshots port.SnapshotStore
	report    port.ReportRenderer
}

func NewSessionService(sessions port.SessionRepository, snapshots port.SnapshotStore, report port.ReportRenderer) *SessionService {
	return &SessionService{sessions: sessions, snapshots: snapshots, report: report}
}

// Latest возвращает последний обработанный кадр текущей сессии.
func (s *SessionService) Latest() (entity.Snapshot, bool) {
	if s.snapshots == nil {
		return entity.Snapshot{}, false
	}
	return s.snapshots.LatestSnapshot()
}

func (s *SessionService) Get(ctx context.Context, id string) (*entity.Session, error) {
	return s.sessions.Get(ctx, id)
}

// History возвращает не больше limit последних сессий, самую свежую последней.
func (s *SessionService) History(ctx context.Context, limit int) ([]*entity.Session, error) {
	list, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list, nil
}

// WriteReport строит отчёт по всем сохранённым сессиям. current, если ещё не сохранена,
// добавляется в конец и считается текущей.
func (s *SessionService) WriteReport(ctx context.Context, w io.Writer, current *entity.Session) error {
	list, err := s.History(ctx, 0)
	if err != nil {
		return err
	}

	if current != nil {
		found := false
		for i, session := range list {
			if session.ID == current.ID {
				list = append(append(list[:i:i], list[i+1:]...), session)
				found = true
				break
			}
		}
		if !found {
			list = append(list, current)
		}
	}

	if err := s.report.Render(w, list); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
