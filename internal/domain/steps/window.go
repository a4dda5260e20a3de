package steps

import (
	"math"
	"time"
)

var demoWeek = [WindowDays]int{8500, 6200, 9100, 7500, 8900, 7800, 7542}

// StartOfDay полночь дня t в его часовом поясе
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WindowRange первый и последний день окна, заканчивающегося today
func WindowRange(today time.Time) (time.Time, time.Time) {
	end := StartOfDay(today)
	return end.AddDate(0, 0, -(WindowDays - 1)), end
}

// BuildWindow собирает окно из записей сервера. Дни без записей получают 0
func BuildWindow(today time.Time, records []StepRecord) WeeklyWindow {
	byDay := make(map[string]int, len(records))
	for _, r := range records {
		if r.Steps < 0 {
			continue
		}
		byDay[r.Day()] = r.Steps
	}

	from, _ := WindowRange(today)

	var w WeeklyWindow
	for i := range w {
		day := from.AddDate(0, 0, i)
		w[i] = StepRecord{Date: day, Steps: byDay[day.Format(DateLayout)]}
	}
	return w
}

// DemoWindow демонстрационная неделя для случаев, когда данных нет
func DemoWindow(today time.Time) WeeklyWindow {
	from, _ := WindowRange(today)

	var w WeeklyWindow
	for i := range w {
		w[i] = StepRecord{Date: from.AddDate(0, 0, i), Steps: demoWeek[i]}
	}
	return w
}

// GoalProgress процент выполнения дневной цели, от 0 до 100
func GoalProgress(steps, goal int) int {
	if goal <= 0 {
		goal = DefaultDailyGoal
	}
	if steps <= 0 {
		return 0
	}

	pct := int(math.Round(float64(steps) / float64(goal) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// ParseDay разбирает день в формате API в часовом поясе loc
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
