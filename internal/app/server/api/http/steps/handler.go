package steps

import (
	"context"
	"errors"

	"gfit/internal/app/server/api/http/middleware/auth"
	"gfit/internal/domain/steps"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    steps.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service steps.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.submitOp(), h.submit)
	huma.Register(api, h.memberStepsOp(), h.memberSteps)
	huma.Register(api, h.updateGoalOp(), h.updateGoal)
}

func (h *Handler) submit(ctx context.Context, input *submitInput) (*statusOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Submit(ctx, familyID, input.Body); err != nil {
		return &statusOutput{Body: steps.StatusResponse{Status: "Error", Error: h.message(err)}}, nil
	}
	return &statusOutput{Body: steps.StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) memberSteps(ctx context.Context, input *memberStepsInput) (*memberStepsOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	records, err := h.service.MemberSteps(ctx, familyID, input.Body)
	if err != nil {
		return &memberStepsOutput{
			Body: steps.MemberStepsResponse{Status: "Error", Error: h.message(err), Steps: []steps.StepDTO{}},
		}, nil
	}

	return &memberStepsOutput{
		Body: steps.MemberStepsResponse{Status: "Ok", Steps: steps.RecordsToDTO(records)},
	}, nil
}

func (h *Handler) updateGoal(ctx context.Context, input *updateGoalInput) (*statusOutput, error) {
	familyID, ok := auth.GetFamilyID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.UpdateGoal(ctx, familyID, input.Body); err != nil {
		return &statusOutput{Body: steps.StatusResponse{Status: "Error", Error: h.message(err)}}, nil
	}
	return &statusOutput{Body: steps.StatusResponse{Status: "Ok"}}, nil
}

// message текст ошибки для клиента. Внутренние ошибки не раскрываются
func (h *Handler) message(err error) string {
	for _, known := range []error{
		steps.ErrInvalidSteps,
		steps.ErrInvalidGoal,
		steps.ErrInvalidDate,
		steps.ErrInvalidRange,
		steps.ErrForeignMember,
		steps.ErrMemberNotFound,
		steps.ErrDayClosed,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	h.log.Error("ошибка обработки шагов", "error", err)
	return "internal error"
}
