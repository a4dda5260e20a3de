package member

import (
	"context"
	"errors"

	"gfit/internal/app/server/api/http/middleware/auth"
	"gfit/internal/domain/member"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    member.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service member.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.addOp(), h.add)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	members, err := h.service.List(ctx, familyID)
	if err != nil {
		h.log.Error("не удалось получить участников", "family_id", familyID, "error", err)
		return &listOutput{
			Body: member.ListResponse{Status: "Error", Error: "internal error"},
		}, nil
	}

	return &listOutput{
		Body: member.ListResponse{Status: "Ok", Data: members},
	}, nil
}

func (h *Handler) add(ctx context.Context, input *addInput) (*addOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	m, err := h.service.Add(ctx, familyID, input.Body.FirstName)
	if err != nil {
		msg := err.Error()
		if !errors.Is(err, member.ErrInvalidName) {
			h.log.Error("не удалось добавить участника", "family_id", familyID, "error", err)
			msg = "internal error"
		}
		return &addOutput{
			Body: member.AddResponse{Status: "Error", Error: msg},
		}, nil
	}

	return &addOutput{
		Body: member.AddResponse{Status: "Ok", Data: &m},
	}, nil
}
