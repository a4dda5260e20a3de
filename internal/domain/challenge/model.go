package challenge

import "time"

// Challenge снимок челленджа, принадлежащего серверу
type Challenge struct {
	ID                   int       `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	DurationDays         int       `json:"duration_days"`
	StepsRequired        int       `json:"steps_required"`
	JoinedAt             time.Time `json:"joined_at,omitempty"`
	Deadline             time.Time `json:"deadline,omitempty"`
	CurrentlyInChallenge bool      `json:"currently_in_challenge"`
	ActiveFamilies       int       `json:"active_families"`
	ImageURL             string    `json:"image,omitempty"`
}

// IsExpired дедлайн прошел. Челлендж без дедлайна не истекает
func (c Challenge) IsExpired(now time.Time) bool {
	return !c.Deadline.IsZero() && now.After(c.Deadline)
}

// DaysRemaining сколько целых дней осталось до дедлайна
func (c Challenge) DaysRemaining(now time.Time) int {
	if c.Deadline.IsZero() {
		return 0
	}
	return ComputeDaysRemaining(c.Deadline, now)
}

// DeadlineFor дедлайн участия, начатого в joinedAt
func DeadlineFor(joinedAt time.Time, durationDays int) time.Time {
	return joinedAt.AddDate(0, 0, durationDays)
}

// Progress прогресс семьи в активном челлендже
type Progress struct {
	Challenge           Challenge          `json:"challenge"`
	FamilyTotalSteps    int                `json:"family_total_steps"`
	MyContributionSteps int                `json:"my_contribution_steps"`
	DaysRemaining       int                `json:"days_remaining"`
	Expired             bool               `json:"is_expired"`
	Members             []LeaderboardEntry `json:"members"`
}

// PercentComplete процент выполнения челленджа семьей
func (p Progress) PercentComplete() int {
	return ComputeProgress(p.Challenge, p.FamilyTotalSteps)
}

// LeaderboardEntry строка рейтинга: семья или участник
type LeaderboardEntry struct {
	SubjectID   int       `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	TotalSteps  int       `json:"total_steps"`
	Rank        int       `json:"rank"`
	JoinedAt    time.Time `json:"joined_at,omitempty"`
}

// FamilyTotal сумма шагов семьи в челлендже
type FamilyTotal struct {
	FamilyID   int
	FamilyName string
	TotalSteps int
	JoinedAt   time.Time
}

// Participant участник для карточки активного челленджа
type Participant struct {
	LeaderboardEntry
	Color string `json:"color"`
}

// Tab вкладка списка челленджей
type Tab string

const (
	TabAvailable Tab = "available"
	TabActive    Tab = "active"
	TabCompleted Tab = "completed"
)

// ParseTab разбирает имя вкладки
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabAvailable, TabActive, TabCompleted:
		return Tab(s), nil
	default:
		return "", ErrUnknownTab
	}
}
