package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"gfit/internal/domain/steps"
)

// Storage локальный кэш клиента: последние недели участников, журнал датчика
// и неотправленное состояние синхронизации
type Storage interface {
	SaveWeek(ctx context.Context, memberID int, w steps.WeeklyWindow) error
	// LoadWeek окно, заканчивающееся today, из кэша. steps.ErrNoData, если дней нет
	LoadWeek(ctx context.Context, memberID int, today time.Time) (steps.WeeklyWindow, error)
	AppendSteps(ctx context.Context, memberID int, device string, delta int, at time.Time) error
	SumSteps(ctx context.Context, memberID int, start, end time.Time) (int, error)
	SaveSyncState(ctx context.Context, memberID int, day time.Time, st steps.SyncState) error
	// LoadSyncState steps.ErrNoData, если за день ничего не сохранено
	LoadSyncState(ctx context.Context, memberID int, day time.Time) (steps.SyncState, error)
	Close() error
}

type ledgerEntry struct {
	memberID int
	device   string
	delta    int
	at       time.Time
}

type syncKey struct {
	memberID int
	day      string
}

// MemoryStorage - временное in-memory хранилище
type MemoryStorage struct {
	mu     sync.RWMutex
	days   map[int]map[string]int
	ledger []ledgerEntry
	states map[syncKey]steps.SyncState
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		days:   make(map[int]map[string]int),
		states: make(map[syncKey]steps.SyncState),
	}
}

func (m *MemoryStorage) SaveWeek(_ context.Context, memberID int, w steps.WeeklyWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byDay, ok := m.days[memberID]
	if !ok {
		byDay = make(map[string]int)
		m.days[memberID] = byDay
	}
	for _, r := range w {
		byDay[r.Day()] = r.Steps
	}
	return nil
}

func (m *MemoryStorage) LoadWeek(_ context.Context, memberID int, today time.Time) (steps.WeeklyWindow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	from, to := steps.WindowRange(today)
	var records []steps.StepRecord
	for day, n := range m.days[memberID] {
		d, err := steps.ParseDay(day, today.Location())
		if err != nil || d.Before(from) || d.After(to) {
			continue
		}
		records = append(records, steps.StepRecord{Date: d, Steps: n})
	}
	if len(records) == 0 {
		return steps.WeeklyWindow{}, steps.ErrNoData
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return steps.BuildWindow(today, records), nil
}

func (m *MemoryStorage) AppendSteps(_ context.Context, memberID int, device string, delta int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger = append(m.ledger, ledgerEntry{memberID: memberID, device: device, delta: delta, at: at})
	return nil
}

func (m *MemoryStorage) SumSteps(_ context.Context, memberID int, start, end time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, e := range m.ledger {
		if e.memberID == memberID && !e.at.Before(start) && e.at.Before(end) {
			total += e.delta
		}
	}
	return total, nil
}

func (m *MemoryStorage) SaveSyncState(_ context.Context, memberID int, day time.Time, st steps.SyncState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st.LastSyncTime != nil {
		t := *st.LastSyncTime
		st.LastSyncTime = &t
	}
	m.states[syncKey{memberID: memberID, day: day.Format(steps.DateLayout)}] = st
	return nil
}

func (m *MemoryStorage) LoadSyncState(_ context.Context, memberID int, day time.Time) (steps.SyncState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.states[syncKey{memberID: memberID, day: day.Format(steps.DateLayout)}]
	if !ok {
		return steps.SyncState{}, steps.ErrNoData
	}
	return st, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
