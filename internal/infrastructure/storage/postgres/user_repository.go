package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gfit/internal/domain/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

func NewUserRepository(pool *pgxpool.Pool, log *slog.Logger) *UserRepository {
	return &UserRepository{
		pool: pool,
		log:  log.With("component", "user_repository"),
	}
}

type UserRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// Create заводит семью и ее аккаунт одной транзакцией
func (r *UserRepository) Create(ctx context.Context, email, passwordHash, familyName string) (user.User, error) {
	u := user.User{Email: email, Password: passwordHash}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO families (name) VALUES ($1) RETURNING id`,
			strings.TrimSpace(familyName)).Scan(&u.FamilyID); err != nil {
			return fmt.Errorf("insert family: %w", err)
		}

		return tx.QueryRow(ctx,
			`INSERT INTO users (email, password_hash, family_id) VALUES ($1, $2, $3)
			 RETURNING id, created_at`,
			email, passwordHash, u.FamilyID).Scan(&u.ID, &u.CreatedAt)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		r.log.Error("failed to create user", "error", err)
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, family_id, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.FamilyID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("find user: %w", err)
	}

	return u, nil
}
