package steps

import "time"

const (
	// DateLayout формат календарного дня в API
	DateLayout = "2006-01-02"
	// WindowDays размер недельного окна
	WindowDays = 7
	// DefaultDailyGoal цель по шагам, если у участника она не задана
	DefaultDailyGoal = 10000
)

// StepRecord шаги участника за календарный день
type StepRecord struct {
	Date  time.Time `json:"date"`
	Steps int       `json:"steps"`
}

// Day возвращает день записи в формате API
func (r StepRecord) Day() string {
	return r.Date.Format(DateLayout)
}

// SyncState состояние синхронизации шагов за сегодня
type SyncState struct {
	CurrentCount    int        `json:"current_count"`
	LastSyncedCount int        `json:"last_synced_count"`
	LastSyncTime    *time.Time `json:"last_sync_time,omitempty"`
}

// Pending есть ли шаги, не отправленные на сервер
func (s SyncState) Pending() bool {
	return s.CurrentCount != s.LastSyncedCount
}

// WeeklyWindow семь дней подряд, от старого к новому, последний день - сегодня
type WeeklyWindow [WindowDays]StepRecord

// Total сумма шагов за окно
func (w WeeklyWindow) Total() int {
	total := 0
	for _, r := range w {
		total += r.Steps
	}
	return total
}

// Today последний день окна
func (w WeeklyWindow) Today() StepRecord {
	return w[WindowDays-1]
}

// Source откуда получено недельное окно
type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
	SourceDemo   Source = "demo"
)
