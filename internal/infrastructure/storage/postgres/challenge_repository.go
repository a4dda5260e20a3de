package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gfit/internal/domain/challenge"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

const (
	statusActive = "active"
	statusLeft   = "left"
)

// activeFamilies число семей, проходящих челлендж c прямо сейчас
const activeFamilies = `
	(SELECT COUNT(*) FROM family_challenges a WHERE a.challenge_id = c.id AND a.status = 'active')`

type ChallengeRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewChallengeRepository(pool *pgxpool.Pool, log *slog.Logger) *ChallengeRepository {
	return &ChallengeRepository{
		pool: pool,
		log:  log.With("component", "challenge_repository"),
	}
}

func (r *ChallengeRepository) Available(ctx context.Context, familyID int) ([]challenge.Challenge, error) {
	query := `
		SELECT c.id, c.title, c.description, c.duration_days, c.steps_required, c.image,
		       ` + activeFamilies + `,
		       fc.joined_at, fc.deadline
		FROM challenges c
		LEFT JOIN family_challenges fc
		       ON fc.challenge_id = c.id AND fc.family_id = $1 AND fc.status = 'active'
		WHERE c.published
		ORDER BY c.id`

	rows, err := r.pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("query available: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (challenge.Challenge, error) {
		var (
			c                  challenge.Challenge
			joinedAt, deadline *time.Time
		)
		err := row.Scan(&c.ID, &c.Title, &c.Description, &c.DurationDays, &c.StepsRequired, &c.ImageURL,
			&c.ActiveFamilies, &joinedAt, &deadline)
		if joinedAt != nil && deadline != nil {
			c.CurrentlyInChallenge = true
			c.JoinedAt, c.Deadline = *joinedAt, *deadline
		}
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan available: %w", err)
	}
	return list, nil
}

func (r *ChallengeRepository) Get(ctx context.Context, challengeID int) (challenge.Challenge, error) {
	query := `
		SELECT c.id, c.title, c.description, c.duration_days, c.steps_required, c.image,
		       ` + activeFamilies + `
		FROM challenges c
		WHERE c.id = $1 AND c.published`

	var c challenge.Challenge
	err := r.pool.QueryRow(ctx, query, challengeID).
		Scan(&c.ID, &c.Title, &c.Description, &c.DurationDays, &c.StepsRequired, &c.ImageURL, &c.ActiveFamilies)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return challenge.Challenge{}, challenge.ErrNotFound
		}
		return challenge.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	return c, nil
}

func (r *ChallengeRepository) ActiveParticipation(ctx context.Context, familyID int) (challenge.Participation, error) {
	query := `
		SELECT fc.id, fc.family_id,
		       c.id, c.title, c.description, c.duration_days, c.steps_required, c.image,
		       ` + activeFamilies + `,
		       fc.joined_at, fc.deadline
		FROM family_challenges fc
		JOIN challenges c ON c.id = fc.challenge_id
		WHERE fc.family_id = $1 AND fc.status = 'active'`

	var (
		p challenge.Participation
		c = &p.Challenge
	)
	err := r.pool.QueryRow(ctx, query, familyID).Scan(&p.ID, &p.FamilyID,
		&c.ID, &c.Title, &c.Description, &c.DurationDays, &c.StepsRequired, &c.ImageURL,
		&c.ActiveFamilies, &c.JoinedAt, &c.Deadline)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return challenge.Participation{}, challenge.ErrNoActiveChallenge
		}
		return challenge.Participation{}, fmt.Errorf("get active participation: %w", err)
	}
	c.CurrentlyInChallenge = true
	return p, nil
}

// MemberTotals шаги каждого участника семьи за дни [from, to]. Участники без шагов получают 0
func (r *ChallengeRepository) MemberTotals(ctx context.Context, familyID int, from, to time.Time) ([]challenge.LeaderboardEntry, error) {
	const query = `
		SELECT m.id, m.first_name, COALESCE(SUM(s.steps), 0)
		FROM members m
		LEFT JOIN member_steps s
		       ON s.member_id = m.id AND s.day BETWEEN $2::date AND $3::date
		WHERE m.family_id = $1
		GROUP BY m.id, m.first_name
		ORDER BY m.id`

	rows, err := r.pool.Query(ctx, query, familyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query member totals: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (challenge.LeaderboardEntry, error) {
		var e challenge.LeaderboardEntry
		err := row.Scan(&e.SubjectID, &e.SubjectName, &e.TotalSteps)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan member totals: %w", err)
	}
	return entries, nil
}

func (r *ChallengeRepository) Join(ctx context.Context, familyID, challengeID int, joinedAt, deadline time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO family_challenges (family_id, challenge_id, status, joined_at, deadline)
		 VALUES ($1, $2, $3, $4, $5)`,
		familyID, challengeID, statusActive, joinedAt, deadline)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return challenge.ErrAlreadyInChallenge
	case isForeignKeyViolation(err):
		return challenge.ErrNotFound
	default:
		r.log.Error("failed to join challenge", "family_id", familyID, "challenge_id", challengeID, "error", err)
		return fmt.Errorf("join challenge: %w", err)
	}
}

func (r *ChallengeRepository) Leave(ctx context.Context, familyID, challengeID int, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE family_challenges SET status = $1, finished_at = $2
		 WHERE family_id = $3 AND challenge_id = $4 AND status = 'active'`,
		statusLeft, at, familyID, challengeID)
	if err != nil {
		return fmt.Errorf("leave challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return challenge.ErrNotJoined
	}
	return nil
}

// Finish закрывает активное участие. Уже закрытое не трогается
func (r *ChallengeRepository) Finish(ctx context.Context, participationID int, status challenge.Status, at time.Time) error {
	if !status.Terminal() {
		return fmt.Errorf("%w: finish with %s", challenge.ErrInvalidTransition, status)
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE family_challenges SET status = $1, finished_at = $2
		 WHERE id = $3 AND status = 'active'`,
		status.String(), at, participationID)
	if err != nil {
		return fmt.Errorf("finish participation: %w", err)
	}
	return nil
}

// History завершенные и просроченные участия, новые первыми
func (r *ChallengeRepository) History(ctx context.Context, familyID, limit, offset int) ([]challenge.Challenge, error) {
	query := `
		SELECT c.id, c.title, c.description, c.duration_days, c.steps_required, c.image,
		       ` + activeFamilies + `,
		       fc.joined_at, fc.deadline
		FROM family_challenges fc
		JOIN challenges c ON c.id = fc.challenge_id
		WHERE fc.family_id = $1 AND fc.status IN ('completed', 'expired')
		ORDER BY fc.finished_at DESC NULLS LAST, fc.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, familyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (challenge.Challenge, error) {
		var c challenge.Challenge
		err := row.Scan(&c.ID, &c.Title, &c.Description, &c.DurationDays, &c.StepsRequired, &c.ImageURL,
			&c.ActiveFamilies, &c.JoinedAt, &c.Deadline)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return list, nil
}

// FamilyTotals шаги семей за время их участия. Покинувшие челлендж не учитываются
func (r *ChallengeRepository) FamilyTotals(ctx context.Context, challengeID int) ([]challenge.FamilyTotal, error) {
	const query = `
		SELECT f.id, f.name, fc.joined_at, COALESCE(SUM(s.steps), 0)
		FROM family_challenges fc
		JOIN families f ON f.id = fc.family_id
		LEFT JOIN members m ON m.family_id = f.id
		LEFT JOIN member_steps s
		       ON s.member_id = m.id AND s.day BETWEEN fc.joined_at::date AND fc.deadline::date
		WHERE fc.challenge_id = $1 AND fc.status IN ('active', 'completed')
		GROUP BY fc.id, f.id, f.name, fc.joined_at`

	rows, err := r.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("query family totals: %w", err)
	}

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (challenge.FamilyTotal, error) {
		var t challenge.FamilyTotal
		err := row.Scan(&t.FamilyID, &t.FamilyName, &t.JoinedAt, &t.TotalSteps)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan family totals: %w", err)
	}
	return totals, nil
}
