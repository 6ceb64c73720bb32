package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

// ErrSessionNotFound — сессии с таким ID нет в хранилище.
var ErrSessionNotFound = errors.New("session not found")

// MemorySessionRepository in-memory хранилище итогов сессий и последнего кадра
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	snapshot *entity.Snapshot
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

// Save сохраняет копию итогов сессии
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.ID] = session.Clone()
	r.mu.Unlock()

	return nil
}

// Get возвращает копию сессии по ID
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session.Clone(), nil
}

// List возвращает все сессии в порядке начала
func (r *MemorySessionRepository) List(ctx context.Context) ([]*entity.Session, error) {
	r.mu.RLock()
	list := make([]*entity.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].StartedAt.Equal(list[j].StartedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].StartedAt.Before(list[j].StartedAt)
	})
	return list, nil
}

// PutSnapshot заменяет последний кадр
func (r *MemorySessionRepository) PutSnapshot(snapshot entity.Snapshot) {
	r.mu.Lock()
	r.snapshot = &snapshot
	r.mu.Unlock()
}

// LatestSnapshot возвращает последний кадр, если он уже есть
func (r *MemorySessionRepository) LatestSnapshot() (entity.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return entity.Snapshot{}, false
	}
	return *r.snapshot, true
}

// Проверка реализации интерфейсов
var (
	_ port.SessionRepository = (*MemorySessionRepository)(nil)
	_ port.SnapshotStore     = (*MemorySessionRepository)(nil)
)
