package steps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildWindow(t *testing.T) {
	today := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []StepRecord
		want    [WindowDays]int
	}{
		{
			name: "full week in order",
			records: []StepRecord{
				{Date: day("2025-03-04"), Steps: 1},
				{Date: day("2025-03-05"), Steps: 2},
				{Date: day("2025-03-06"), Steps: 3},
				{Date: day("2025-03-07"), Steps: 4},
				{Date: day("2025-03-08"), Steps: 5},
				{Date: day("2025-03-09"), Steps: 6},
				{Date: day("2025-03-10"), Steps: 7},
			},
			want: [WindowDays]int{1, 2, 3, 4, 5, 6, 7},
		},
		{
			name: "missing days are zero, order from server ignored",
			records: []StepRecord{
				{Date: day("2025-03-10"), Steps: 900},
				{Date: day("2025-03-06"), Steps: 300},
			},
			want: [WindowDays]int{0, 0, 300, 0, 0, 0, 900},
		},
		{
			name: "records outside the window and negatives are dropped",
			records: []StepRecord{
				{Date: day("2025-03-01"), Steps: 100},
				{Date: day("2025-03-11"), Steps: 100},
				{Date: day("2025-03-09"), Steps: -5},
			},
			want: [WindowDays]int{},
		},
		{
			name: "empty input",
			want: [WindowDays]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := BuildWindow(today, tt.records)

			var got [WindowDays]int
			for i, r := range w {
				got[i] = r.Steps
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "2025-03-04", w[0].Day())
			assert.Equal(t, "2025-03-10", w.Today().Day())
		})
	}
}

func TestDemoWindow(t *testing.T) {
	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	w := DemoWindow(today)

	assert.Equal(t, 7542, w.Today().Steps)
	assert.Equal(t, 8500, w[0].Steps)
	assert.Equal(t, 55542, w.Total())
	for i := 1; i < WindowDays; i++ {
		assert.True(t, w[i].Date.After(w[i-1].Date))
	}
}

func TestWindowRange(t *testing.T) {
	from, to := WindowRange(time.Date(2025, 1, 3, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2024-12-28", from.Format(DateLayout))
	assert.Equal(t, "2025-01-03", to.Format(DateLayout))
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name  string
		steps int
		goal  int
		want  int
	}{
		{"zero steps", 0, 10000, 0},
		{"half", 5000, 10000, 50},
		{"rounding", 7542, 10000, 75},
		{"rounding up", 7550, 10000, 76},
		{"exceeded is clamped", 25000, 10000, 100},
		{"non-positive goal uses default", 5000, 0, 50},
		{"negative steps", -10, 10000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GoalProgress(tt.steps, tt.goal))
		})
	}
}

func TestSyncState_Pending(t *testing.T) {
	assert.False(t, SyncState{}.Pending())
	assert.True(t, SyncState{CurrentCount: 10}.Pending())
	assert.False(t, SyncState{CurrentCount: 10, LastSyncedCount: 10}.Pending())
}

func TestRecordsFromDTO(t *testing.T) {
	n := 4200
	records := RecordsFromDTO([]StepDTO{
		{Date: "2025-03-09", Steps: &n},
		{Date: "bad-date", Steps: &n},
		{Date: "2025-03-10"},
	}, time.UTC)

	require.Len(t, records, 2)
	assert.Equal(t, 4200, records[0].Steps)
	assert.Equal(t, "2025-03-10", records[1].Day())
	assert.Equal(t, 0, records[1].Steps)

	back := RecordsToDTO(records)
	require.Len(t, back, 2)
	assert.Equal(t, "2025-03-09", back[0].Date)
	assert.Equal(t, 4200, *back[0].Steps)
}
