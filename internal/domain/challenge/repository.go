package challenge

import (
	"context"
	"time"
)

// Participation участие семьи в челлендже. Challenge содержит JoinedAt и Deadline
type Participation struct {
	ID        int
	FamilyID  int
	Challenge Challenge
}

// Repository хранилище челленджей на сервере
type Repository interface {
	Available(ctx context.Context, familyID int) ([]Challenge, error)
	Get(ctx context.Context, challengeID int) (Challenge, error)
	ActiveParticipation(ctx context.Context, familyID int) (Participation, error)
	MemberTotals(ctx context.Context, familyID int, from, to time.Time) ([]LeaderboardEntry, error)
	Join(ctx context.Context, familyID, challengeID int, joinedAt, deadline time.Time) error
	Leave(ctx context.Context, familyID, challengeID int, at time.Time) error
	Finish(ctx context.Context, participationID int, status Status, at time.Time) error
	History(ctx context.Context, familyID, limit, offset int) ([]Challenge, error)
	FamilyTotals(ctx context.Context, challengeID int) ([]FamilyTotal, error)
}

// Cache кэш рейтинга семей
type Cache interface {
	Get(ctx context.Context, challengeID int) ([]LeaderboardEntry, bool, error)
	Set(ctx context.Context, challengeID int, entries []LeaderboardEntry) error
	Invalidate(ctx context.Context, challengeID int) error
}
