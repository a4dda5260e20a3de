package challenge

import (
	"context"
	"errors"

	"gfit/internal/app/server/api/http/middleware/auth"
	"gfit/internal/domain/challenge"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    challenge.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service challenge.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.activeOp(), h.active)
	huma.Register(api, h.availableOp(), h.available)
	huma.Register(api, h.historyOp(), h.history)
	huma.Register(api, h.familiesLeaderboardOp(), h.familiesLeaderboard)
	huma.Register(api, h.joinOp(), h.join)
	huma.Register(api, h.leaveOp(), h.leave)
}

// active без активного челленджа отвечает Ok без data
func (h *Handler) active(ctx context.Context, _ *struct{}) (*activeOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	dto, err := h.service.Active(ctx, familyID)
	if errors.Is(err, challenge.ErrNoActiveChallenge) {
		return &activeOutput{Body: challenge.ActiveResponse{Status: "Ok"}}, nil
	}
	if err != nil {
		return &activeOutput{Body: challenge.ActiveResponse{Status: "Error", Error: h.message(err)}}, nil
	}

	return &activeOutput{Body: challenge.ActiveResponse{Status: "Ok", Data: dto}}, nil
}

func (h *Handler) available(ctx context.Context, _ *struct{}) (*listOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	list, err := h.service.Available(ctx, familyID)
	if err != nil {
		return &listOutput{Body: challenge.ListResponse{Status: "Error", Error: h.message(err), Data: []challenge.ChallengeDTO{}}}, nil
	}
	return &listOutput{Body: challenge.ListResponse{Status: "Ok", Data: challenge.ListFromDomain(list)}}, nil
}

func (h *Handler) history(ctx context.Context, input *historyInput) (*listOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	list, err := h.service.History(ctx, familyID, input.Body.Page, input.Body.PageSize)
	if err != nil {
		return &listOutput{Body: challenge.ListResponse{Status: "Error", Error: h.message(err), Data: []challenge.ChallengeDTO{}}}, nil
	}
	return &listOutput{Body: challenge.ListResponse{Status: "Ok", Data: challenge.ListFromDomain(list)}}, nil
}

func (h *Handler) familiesLeaderboard(ctx context.Context, input *challengeIDInput) (*familiesOutput, error) {
	if _, ok := auth.GetFamilyID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	entries, err := h.service.FamiliesLeaderboard(ctx, input.Body.ChallengeID)
	if err != nil {
		return &familiesOutput{Body: challenge.FamiliesResponse{Status: "Error", Error: h.message(err), Data: []challenge.FamilyEntryDTO{}}}, nil
	}
	return &familiesOutput{Body: challenge.FamiliesResponse{Status: "Ok", Data: challenge.FamiliesFromDomain(entries)}}, nil
}

func (h *Handler) join(ctx context.Context, input *challengeIDInput) (*statusOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Join(ctx, familyID, input.Body.ChallengeID); err != nil {
		return &statusOutput{Body: challenge.StatusResponse{Status: "Error", Error: h.message(err)}}, nil
	}
	return &statusOutput{Body: challenge.StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) leave(ctx context.Context, input *challengeIDInput) (*statusOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Leave(ctx, familyID, input.Body.ChallengeID); err != nil {
		return &statusOutput{Body: challenge.StatusResponse{Status: "Error", Error: h.message(err)}}, nil
	}
	return &statusOutput{Body: challenge.StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) message(err error) string {
	for _, known := range []error{
		challenge.ErrNotFound,
		challenge.ErrAlreadyInChallenge,
		challenge.ErrNotJoined,
		challenge.ErrInvalidPage,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	h.log.Error("ошибка обработки челленджа", "error", err)
	return "internal error"
}
