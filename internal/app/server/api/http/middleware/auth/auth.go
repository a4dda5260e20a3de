package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gfit/internal/domain/session"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// TokenValidator проверяет токен аккаунта
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*session.Claims, error)
}

type Auth struct {
	session TokenValidator
	log     *slog.Logger
}

func New(session TokenValidator, log *slog.Logger) *Auth {
	return &Auth{
		session: session,
		log:     log.With(slog.String("component", "auth_middleware")),
	}
}

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	FamilyIDKey contextKey = "familyID"
)

const bearerPrefix = "Bearer "

// Middleware пропускает запрос дальше только с валидным токеном аккаунта
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			a.log.Warn("нет Bearer токена", "path", ctx.URL().Path)
			a.unauthorized(ctx)
			return
		}

		claims, err := a.session.Validate(ctx.Context(), strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			a.log.Warn("токен отклонен", "path", ctx.URL().Path, "error", err)
			a.unauthorized(ctx)
			return
		}

		newCtx := WithIdentity(ctx.Context(), claims.UserID, claims.FamilyID)
		next(huma.WithContext(ctx, newCtx))
	}
}

func (a *Auth) unauthorized(ctx huma.Context) {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetStatus(http.StatusUnauthorized)

	err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	})
	if err != nil {
		a.log.Error("json encode", "error", err)
	}
}

// WithIdentity кладет в контекст пользователя и его семью
func WithIdentity(ctx context.Context, userID, familyID int) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, FamilyIDKey, familyID)
}

func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

func GetFamilyID(ctx context.Context) (int, bool) {
	familyID, ok := ctx.Value(FamilyIDKey).(int)
	return familyID, ok && familyID > 0
}
