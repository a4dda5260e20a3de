package postgres

import (
	"context"
	"fmt"
	"time"

	"gfit/internal/domain/steps"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

type StepsRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewStepsRepository(pool *pgxpool.Pool, log *slog.Logger) *StepsRepository {
	return &StepsRepository{
		pool: pool,
		log:  log.With("component", "steps_repository"),
	}
}

// Upsert последнее значение за день побеждает
func (r *StepsRepository) Upsert(ctx context.Context, memberID int, day time.Time, count int) error {
	const query = `
		INSERT INTO member_steps (member_id, day, steps)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (member_id, day)
		DO UPDATE SET steps = EXCLUDED.steps, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, memberID, day, count); err != nil {
		if isForeignKeyViolation(err) {
			return steps.ErrMemberNotFound
		}
		return fmt.Errorf("upsert steps: %w", err)
	}
	return nil
}

func (r *StepsRepository) Range(ctx context.Context, memberID int, from, to time.Time) ([]steps.StepRecord, error) {
	const query = `
		SELECT day, steps
		FROM member_steps
		WHERE member_id = $1 AND day BETWEEN $2::date AND $3::date
		ORDER BY day`

	rows, err := r.pool.Query(ctx, query, memberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (steps.StepRecord, error) {
		var rec steps.StepRecord
		err := row.Scan(&rec.Date, &rec.Steps)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan steps: %w", err)
	}
	return records, nil
}

func (r *StepsRepository) UpdateGoal(ctx context.Context, familyID, memberID, goal int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE members SET daily_goal = $1 WHERE id = $2 AND family_id = $3`,
		goal, memberID, familyID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return steps.ErrMemberNotFound
	}
	return nil
}
