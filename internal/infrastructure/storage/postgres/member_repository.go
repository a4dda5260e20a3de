package postgres

import (
	"context"
	"fmt"

	"gfit/internal/domain/member"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

type MemberRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewMemberRepository(pool *pgxpool.Pool, log *slog.Logger) *MemberRepository {
	return &MemberRepository{
		pool: pool,
		log:  log.With("component", "member_repository"),
	}
}

func (r *MemberRepository) ListByFamily(ctx context.Context, familyID int) ([]member.FamilyMember, error) {
	const query = `
		SELECT id, first_name, color, text_color, daily_goal
		FROM members
		WHERE family_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (member.FamilyMember, error) {
		var m member.FamilyMember
		err := row.Scan(&m.ID, &m.FirstName, &m.Color, &m.TextColor, &m.DailyGoal)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan members: %w", err)
	}
	return members, nil
}

func (r *MemberRepository) Create(ctx context.Context, familyID int, m member.FamilyMember) (member.FamilyMember, error) {
	const query = `
		INSERT INTO members (family_id, first_name, color, text_color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, daily_goal`

	err := r.pool.QueryRow(ctx, query, familyID, m.FirstName, m.Color, m.TextColor).Scan(&m.ID, &m.DailyGoal)
	if err != nil {
		r.log.Error("failed to create member", "family_id", familyID, "error", err)
		return member.FamilyMember{}, fmt.Errorf("create member: %w", err)
	}
	return m, nil
}
