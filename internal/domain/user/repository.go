package user

import (
	"context"
)

type Repository interface {
	// Create создает семью и ее аккаунт
	Create(ctx context.Context, email, passwordHash, familyName string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}
