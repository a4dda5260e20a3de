package steps

import (
	"context"
	"time"
)

// Repository хранилище шагов на сервере
type Repository interface {
	// Upsert перезаписывает шаги участника за день
	Upsert(ctx context.Context, memberID int, day time.Time, steps int) error
	// Range возвращает записи за дни [from, to]
	Range(ctx context.Context, memberID int, from, to time.Time) ([]StepRecord, error)
	// UpdateGoal меняет дневную цель участника семьи
	UpdateGoal(ctx context.Context, familyID, memberID, goal int) error
}

// MemberResolver определяет участника по его токену
type MemberResolver interface {
	ResolveMember(ctx context.Context, token string) (memberID, familyID int, err error)
}
