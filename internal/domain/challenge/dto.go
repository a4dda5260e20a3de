package challenge

import "time"

// ChallengeDTO челлендж в формате API. Все поля кроме id необязательны,
// значения по умолчанию задает ToDomain
type ChallengeDTO struct {
	ID                   int        `json:"id"`
	TitleEn              *string    `json:"title_en,omitempty"`
	Title                *string    `json:"title,omitempty"`
	ContentEn            *string    `json:"content_en,omitempty"`
	Description          *string    `json:"description,omitempty"`
	StepsRequired        *int       `json:"steps_required,omitempty"`
	DurationDays         *int       `json:"duration_days,omitempty"`
	CurrentlyInChallenge *bool      `json:"currently_in_challenge,omitempty"`
	ActiveFamiliesCount  *int       `json:"active_families_count,omitempty"`
	JoinedFamiliesCount  *int       `json:"joined_families_count,omitempty"`
	Image                *string    `json:"image,omitempty"`
	JoinedAt             *time.Time `json:"joined_at,omitempty"`
	Deadline             *time.Time `json:"deadline,omitempty"`
}

// ToDomain применяет значения по умолчанию:
// title_en, затем title; content_en, затем description;
// active_families_count, затем joined_families_count; числа 0, флаги false.
// Если дедлайн не пришел, он вычисляется из joined_at и duration_days
func (d ChallengeDTO) ToDomain() Challenge {
	c := Challenge{
		ID:                   d.ID,
		Title:                firstString(d.TitleEn, d.Title),
		Description:          firstString(d.ContentEn, d.Description),
		StepsRequired:        intOr(d.StepsRequired),
		DurationDays:         intOr(d.DurationDays),
		CurrentlyInChallenge: d.CurrentlyInChallenge != nil && *d.CurrentlyInChallenge,
		ImageURL:             firstString(d.Image),
	}

	if d.ActiveFamiliesCount != nil {
		c.ActiveFamilies = *d.ActiveFamiliesCount
	} else {
		c.ActiveFamilies = intOr(d.JoinedFamiliesCount)
	}

	if d.JoinedAt != nil {
		c.JoinedAt = *d.JoinedAt
	}
	switch {
	case d.Deadline != nil:
		c.Deadline = *d.Deadline
	case d.JoinedAt != nil && c.DurationDays > 0:
		c.Deadline = DeadlineFor(*d.JoinedAt, c.DurationDays)
	}

	return c
}

// FromDomain челлендж для ответа сервера
func FromDomain(c Challenge) ChallengeDTO {
	d := ChallengeDTO{
		ID:                   c.ID,
		TitleEn:              ptr(c.Title),
		ContentEn:            ptr(c.Description),
		StepsRequired:        ptr(c.StepsRequired),
		DurationDays:         ptr(c.DurationDays),
		CurrentlyInChallenge: ptr(c.CurrentlyInChallenge),
		ActiveFamiliesCount:  ptr(c.ActiveFamilies),
	}
	if c.ImageURL != "" {
		d.Image = ptr(c.ImageURL)
	}
	if !c.JoinedAt.IsZero() {
		d.JoinedAt = ptr(c.JoinedAt)
	}
	if !c.Deadline.IsZero() {
		d.Deadline = ptr(c.Deadline)
	}
	return d
}

func ListToDomain(items []ChallengeDTO) []Challenge {
	out := make([]Challenge, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToDomain())
	}
	return out
}

func ListFromDomain(items []Challenge) []ChallengeDTO {
	out := make([]ChallengeDTO, 0, len(items))
	for _, item := range items {
		out = append(out, FromDomain(item))
	}
	return out
}

type MemberTotalDTO struct {
	MemberID   int     `json:"member_id"`
	Username   *string `json:"username,omitempty"`
	TotalSteps *int    `json:"total_steps,omitempty"`
}

// ActiveChallengeDTO ответ на запрос активного челленджа семьи
type ActiveChallengeDTO struct {
	Challenge                *ChallengeDTO    `json:"challenge,omitempty"`
	TotalSteps               *int             `json:"total_steps,omitempty"`
	DaysRemaining            *int             `json:"days_remaining,omitempty"`
	IsExpired                *bool            `json:"is_expired,omitempty"`
	FamilyMembersLeaderboard []MemberTotalDTO `json:"family_members_leaderboard,omitempty"`
}

// ToProgress прогресс семьи для участника memberID.
// Если известен дедлайн, оставшиеся дни и просрочка считаются локально, иначе берутся с сервера
func (d ActiveChallengeDTO) ToProgress(memberID int, now time.Time) (Progress, error) {
	if d.Challenge == nil {
		return Progress{}, ErrNoActiveChallenge
	}

	c := d.Challenge.ToDomain()
	c.CurrentlyInChallenge = true

	members := make([]LeaderboardEntry, 0, len(d.FamilyMembersLeaderboard))
	sum := 0
	for _, m := range d.FamilyMembersLeaderboard {
		e := LeaderboardEntry{
			SubjectID:   m.MemberID,
			SubjectName: firstString(m.Username),
			TotalSteps:  intOr(m.TotalSteps),
		}
		sum += e.TotalSteps
		members = append(members, e)
	}
	members = Rank(members)

	p := Progress{
		Challenge:        c,
		FamilyTotalSteps: sum,
		Members:          members,
	}
	if d.TotalSteps != nil {
		p.FamilyTotalSteps = *d.TotalSteps
	}
	p.MyContributionSteps = Contribution(members, memberID)

	if !c.Deadline.IsZero() {
		p.DaysRemaining = c.DaysRemaining(now)
		p.Expired = c.IsExpired(now)
	} else {
		if n := intOr(d.DaysRemaining); n > 0 {
			p.DaysRemaining = n
		}
		p.Expired = d.IsExpired != nil && *d.IsExpired
	}

	return p, nil
}

// FamilyEntryDTO строка рейтинга семей
type FamilyEntryDTO struct {
	FamilyID   int        `json:"family_id"`
	FamilyName *string    `json:"family_name,omitempty"`
	TotalSteps *int       `json:"total_steps,omitempty"`
	Rank       *int       `json:"rank,omitempty"`
	JoinedAt   *time.Time `json:"joined_at,omitempty"`
}

// FamiliesToDomain ранжирует рейтинг заново: место сервера не используется
func FamiliesToDomain(items []FamilyEntryDTO) []LeaderboardEntry {
	totals := make([]FamilyTotal, 0, len(items))
	for _, item := range items {
		t := FamilyTotal{
			FamilyID:   item.FamilyID,
			FamilyName: firstString(item.FamilyName),
			TotalSteps: intOr(item.TotalSteps),
		}
		if item.JoinedAt != nil {
			t.JoinedAt = *item.JoinedAt
		}
		totals = append(totals, t)
	}
	return RankFamilies(totals)
}

func FamiliesFromDomain(entries []LeaderboardEntry) []FamilyEntryDTO {
	out := make([]FamilyEntryDTO, 0, len(entries))
	for _, e := range entries {
		item := FamilyEntryDTO{
			FamilyID:   e.SubjectID,
			FamilyName: ptr(e.SubjectName),
			TotalSteps: ptr(e.TotalSteps),
			Rank:       ptr(e.Rank),
		}
		if !e.JoinedAt.IsZero() {
			item.JoinedAt = ptr(e.JoinedAt)
		}
		out = append(out, item)
	}
	return out
}

type HistoryRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size,omitempty"`
}

type ChallengeIDRequest struct {
	ChallengeID int `json:"challenge_id"`
}

type ListResponse struct {
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Data   []ChallengeDTO `json:"data"`
}

type ActiveResponse struct {
	Status string              `json:"status"`
	Error  string              `json:"error,omitempty"`
	Data   *ActiveChallengeDTO `json:"data,omitempty"`
}

type FamiliesResponse struct {
	Status string           `json:"status"`
	Error  string           `json:"error,omitempty"`
	Data   []FamilyEntryDTO `json:"data"`
}

type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func intOr(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func ptr[T any](v T) *T {
	return &v
}
