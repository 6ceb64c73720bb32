package port

import (
	"context"

	"gaze-tracker/internal/domain/entity"
)

// SessionRepository интерфейс хранилища итогов сессий
type SessionRepository interface {
	// Save сохраняет итоги сессии
	Save(ctx context.Context, session *entity.Session) error

	// Get возвращает сессию по ID
	Get(ctx context.Context, id string) (*entity.Session, error)

	// List возвращает все сессии в порядке начала
	List(ctx context.Context) ([]*entity.Session, error)
}

// SnapshotStore хранит последний обработанный кадр
type SnapshotStore interface {
	PutSnapshot(snapshot entity.Snapshot)
	LatestSnapshot() (entity.Snapshot, bool)
}
