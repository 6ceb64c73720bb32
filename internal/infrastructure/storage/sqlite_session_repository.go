package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		frames INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		horizontal_mean REAL NOT NULL,
		horizontal_stddev REAL NOT NULL,
		vertical_mean REAL NOT NULL,
		vertical_stddev REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_counts (
		session_id TEXT NOT NULL,
		state TEXT NOT NULL,
		frames INTEGER NOT NULL,
		PRIMARY KEY (session_id, state),
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
`

// SQLiteSessionRepository хранит итоги сессий в файле SQLite
type SQLiteSessionRepository struct {
	db *sql.DB
}

// NewSQLiteSessionRepository открывает базу по пути path и создаёт таблицы
func NewSQLiteSessionRepository(path string) (*SQLiteSessionRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Одно соединение: у :memory: каждое соединение получает свою базу.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sessionSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteSessionRepository{db: db}, nil
}

// Close закрывает базу
func (r *SQLiteSessionRepository) Close() error {
	return r.db.Close()
}

// Save сохраняет итоги сессии, перезаписывая прежние
func (r *SQLiteSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (id, started_at, ended_at, frames, skipped,
			horizontal_mean, horizontal_stddev, vertical_mean, vertical_stddev)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		unixNano(session.StartedAt),
		unixNano(session.EndedAt),
		session.Frames,
		session.Skipped,
		session.HorizontalMean,
		session.HorizontalStdDev,
		session.VerticalMean,
		session.VerticalStdDev,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_counts WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("clear counts: %w", err)
	}
	for state, frames := range session.Counts {
		if frames == 0 {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_counts (session_id, state, frames) VALUES (?, ?, ?)`,
			session.ID, string(state), frames)
		if err != nil {
			return fmt.Errorf("insert count %s: %w", state, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Get возвращает сессию по ID
func (r *SQLiteSessionRepository) Get(ctx context.Context, id string) (*entity.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, started_at, ended_at, frames, skipped,
			horizontal_mean, horizontal_stddev, vertical_mean, vertical_stddev
		FROM sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	if err := r.loadCounts(ctx, map[string]*entity.Session{session.ID: session}); err != nil {
		return nil, err
	}
	return session, nil
}

// List возвращает все сессии в порядке начала
func (r *SQLiteSessionRepository) List(ctx context.Context) ([]*entity.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, frames, skipped,
			horizontal_mean, horizontal_stddev, vertical_mean, vertical_stddev
		FROM sessions ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*entity.Session
	byID := make(map[string]*entity.Session)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
		byID[session.ID] = session
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	rows.Close()

	if err := r.loadCounts(ctx, byID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SQLiteSessionRepository) loadCounts(ctx context.Context, sessions map[string]*entity.Session) error {
	rows, err := r.db.QueryContext(ctx, `SELECT session_id, state, frames FROM session_counts`)
	if err != nil {
		return fmt.Errorf("load counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, state string
			frames    int
		)
		if err := rows.Scan(&id, &state, &frames); err != nil {
			return fmt.Errorf("scan count: %w", err)
		}
		if s, ok := sessions[id]; ok {
			s.Counts[entity.GazeState(state)] = frames
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*entity.Session, error) {
	var (
		s                  entity.Session
		startedAt, endedAt int64
	)
	err := row.Scan(&s.ID, &startedAt, &endedAt, &s.Frames, &s.Skipped,
		&s.HorizontalMean, &s.HorizontalStdDev, &s.VerticalMean, &s.VerticalStdDev)
	if err != nil {
		return nil, err
	}
	s.StartedAt = fromUnixNano(startedAt)
	s.EndedAt = fromUnixNano(endedAt)
	s.Counts = make(map[entity.GazeState]int)
	return &s, nil
}

// Нулевое время хранится как 0: UnixNano для него не определён.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*SQLiteSessionRepository)(nil)
