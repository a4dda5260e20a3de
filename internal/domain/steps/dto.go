package steps

import "time"

// SubmitRequest запись шагов участника за день (перезаписывает значение дня)
type SubmitRequest struct {
	MemberTokenKey string `json:"member_token_key" doc:"Токен участника семьи"`
	Date           string `json:"date" example:"2025-01-31" doc:"День в формате YYYY-MM-DD"`
	StepsCount     int    `json:"steps_count" doc:"Шаги за день"`
}

// MemberStepsRequest запрос истории шагов участника
type MemberStepsRequest struct {
	MemberTokenKey string `json:"member_token_key"`
	FromDate       string `json:"from_date" example:"2025-01-25"`
	ToDate         string `json:"to_date" example:"2025-01-31"`
}

type StepDTO struct {
	Date  string `json:"date"`
	Steps *int   `json:"steps,omitempty"`
}

type MemberStepsResponse struct {
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
	Steps  []StepDTO `json:"steps"`
}

// UpdateGoalRequest изменение дневной цели участника
type UpdateGoalRequest struct {
	MemberID  int `json:"member_id"`
	DailyGoal int `json:"daily_goal"`
}

type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RecordsFromDTO переводит ответ сервера в записи. Элементы с неразборчивой датой пропускаются,
// отсутствующее значение шагов считается нулем
func RecordsFromDTO(items []StepDTO, loc *time.Location) []StepRecord {
	records := make([]StepRecord, 0, len(items))
	for _, item := range items {
		day, err := ParseDay(item.Date, loc)
		if err != nil {
			continue
		}
		n := 0
		if item.Steps != nil {
			n = *item.Steps
		}
		records = append(records, StepRecord{Date: day, Steps: n})
	}
	return records
}

func RecordsToDTO(records []StepRecord) []StepDTO {
	items := make([]StepDTO, 0, len(records))
	for _, r := range records {
		n := r.Steps
		items = append(items, StepDTO{Date: r.Day(), Steps: &n})
	}
	return items
}
