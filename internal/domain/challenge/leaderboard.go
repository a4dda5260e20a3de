package challenge

import "sort"

// ParticipantColors цвета участников на карточке активного челленджа
var ParticipantColors = []string{"#10B981", "#3B82F6", "#F97316", "#8B5CF6"}

// Rank сортирует строки по убыванию шагов и проставляет места с 1.
// При равенстве сохраняется исходный порядок. Входной срез не меняется
func Rank(entries []LeaderboardEntry) []LeaderboardEntry {
	ranked := make([]LeaderboardEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSteps > ranked[j].TotalSteps
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// RankFamilies рейтинг семей в челлендже
func RankFamilies(totals []FamilyTotal) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(totals))
	for _, t := range totals {
		entries = append(entries, LeaderboardEntry{
			SubjectID:   t.FamilyID,
			SubjectName: t.FamilyName,
			TotalSteps:  t.TotalSteps,
			JoinedAt:    t.JoinedAt,
		})
	}
	return Rank(entries)
}

// Participants первые limit участников рейтинга с цветами карточки
func Participants(ranked []LeaderboardEntry, limit int) []Participant {
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}

	out := make([]Participant, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, Participant{
			LeaderboardEntry: ranked[i],
			Color:            ParticipantColors[i%len(ParticipantColors)],
		})
	}
	return out
}

// Contribution шаги участника memberID в рейтинге участников
func Contribution(members []LeaderboardEntry, memberID int) int {
	for _, m := range members {
		if m.SubjectID == memberID {
			return m.TotalSteps
		}
	}
	return 0
}
