package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gfit/internal/domain/steps"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func newSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS member_days (
			member_id INTEGER NOT NULL,
			day TEXT NOT NULL,
			steps INTEGER NOT NULL CHECK (steps >= 0),
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (member_id, day)
		);

		CREATE TABLE IF NOT EXISTS sensor_ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			member_id INTEGER NOT NULL,
			device TEXT NOT NULL,
			delta INTEGER NOT NULL CHECK (delta > 0),
			recorded_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sensor_ledger_member_recorded ON sensor_ledger(member_id, recorded_at);

		CREATE TABLE IF NOT EXISTS sync_state (
			member_id INTEGER NOT NULL,
			day TEXT NOT NULL,
			current_count INTEGER NOT NULL CHECK (current_count >= 0),
			last_synced_count INTEGER NOT NULL CHECK (last_synced_count >= 0),
			last_sync_time DATETIME,
			PRIMARY KEY (member_id, day)
		);
	`)

	return err
}

// SaveWeek перезаписывает дни окна. Дни вне окна не трогаются
func (s *SQLiteStorage) SaveWeek(ctx context.Context, memberID int, w steps.WeeklyWindow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, r := range w {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO member_days (member_id, day, steps, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(member_id, day) DO UPDATE SET steps = excluded.steps, updated_at = excluded.updated_at
		`, memberID, r.Day(), r.Steps, now); err != nil {
			return fmt.Errorf("ошибка сохранения дня %s: %w", r.Day(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) LoadWeek(ctx context.Context, memberID int, today time.Time) (steps.WeeklyWindow, error) {
	from, to := steps.WindowRange(today)

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, steps
		FROM member_days
		WHERE member_id = ? AND day BETWEEN ? AND ?
		ORDER BY day
	`, memberID, from.Format(steps.DateLayout), to.Format(steps.DateLayout))
	if err != nil {
		return steps.WeeklyWindow{}, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	var records []steps.StepRecord
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return steps.WeeklyWindow{}, fmt.Errorf("ошибка сканирования дня: %w", err)
		}
		d, err := steps.ParseDay(day, today.Location())
		if err != nil {
			continue
		}
		records = append(records, steps.StepRecord{Date: d, Steps: n})
	}
	if err := rows.Err(); err != nil {
		return steps.WeeklyWindow{}, fmt.Errorf("ошибка чтения дней: %w", err)
	}

	if len(records) == 0 {
		return steps.WeeklyWindow{}, steps.ErrNoData
	}
	return steps.BuildWindow(today, records), nil
}

func (s *SQLiteStorage) AppendSteps(ctx context.Context, memberID int, device string, delta int, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sensor_ledger (member_id, device, delta, recorded_at) VALUES (?, ?, ?, ?)",
		memberID, device, delta, at.UTC())
	if err != nil {
		return fmt.Errorf("ошибка записи в журнал: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) SumSteps(ctx context.Context, memberID int, start, end time.Time) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(delta), 0) FROM sensor_ledger WHERE member_id = ? AND recorded_at >= ? AND recorded_at < ?",
		memberID, start.UTC(), end.UTC()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета шагов: %w", err)
	}
	return total, nil
}

func (s *SQLiteStorage) SaveSyncState(ctx context.Context, memberID int, day time.Time, st steps.SyncState) error {
	var lastSync sql.NullTime
	if st.LastSyncTime != nil {
		lastSync = sql.NullTime{Time: st.LastSyncTime.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (member_id, day, current_count, last_synced_count, last_sync_time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(member_id, day) DO UPDATE SET
			current_count = excluded.current_count,
			last_synced_count = excluded.last_synced_count,
			last_sync_time = excluded.last_sync_time
	`, memberID, day.Format(steps.DateLayout), st.CurrentCount, st.LastSyncedCount, lastSync)
	if err != nil {
		return fmt.Errorf("ошибка сохранения состояния синхронизации: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) LoadSyncState(ctx context.Context, memberID int, day time.Time) (steps.SyncState, error) {
	var (
		st       steps.SyncState
		lastSync sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT current_count, last_synced_count, last_sync_time
		FROM sync_state
		WHERE member_id = ? AND day = ?
	`, memberID, day.Format(steps.DateLayout)).Scan(&st.CurrentCount, &st.LastSyncedCount, &lastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return steps.SyncState{}, steps.ErrNoData
	}
	if err != nil {
		return steps.SyncState{}, fmt.Errorf("ошибка чтения состояния синхронизации: %w", err)
	}
	if lastSync.Valid {
		t := lastSync.Time
		st.LastSyncTime = &t
	}
	return st, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
