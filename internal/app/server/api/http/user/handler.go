package user

import (
	"context"
	"errors"

	"gfit/internal/domain/user"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// TokenCreator выдает токен аккаунта
type TokenCreator interface {
	Create(ctx context.Context, userID, familyID int) (string, error)
}

type Handler struct {
	service    user.Servicer
	session    TokenCreator
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service user.Servicer, session TokenCreator, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		session:    session,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	u, err := h.service.Register(ctx, input.Body.Email, input.Body.Password, input.Body.FamilyName)
	if err != nil {
		msg := err.Error()
		if !isClientError(err) {
			h.log.Error("регистрация не удалась", "error", err)
			msg = "internal error"
		}
		return &registerOutput{
			Body: user.RegisterResponse{Status: "Error", Error: msg},
		}, nil
	}

	return &registerOutput{
		Body: user.RegisterResponse{ID: u.ID, Status: "Ok"},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if !isClientError(err) {
			h.log.Error("вход не удался", "error", err)
		}
		return &loginOutput{
			Body: user.LoginResponse{
				Status: "Error",
				Error:  "Invalid credentials",
			},
		}, nil
	}

	token, err := h.session.Create(ctx, u.ID, u.FamilyID)
	if err != nil {
		h.log.Error("не удалось выдать токен", "user_id", u.ID, "error", err)
		return nil, huma.Error500InternalServerError("create session")
	}

	return &loginOutput{
		Body: user.LoginResponse{
			Token:  token,
			Status: "Ok",
		},
	}, nil
}

func isClientError(err error) bool {
	return errors.Is(err, user.ErrInvalidAuth) ||
		errors.Is(err, user.ErrInvalidInput) ||
		errors.Is(err, user.ErrEmailTaken)
}
