package steps

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) submitOp() huma.Operation {
	return huma.Operation{
		OperationID: "submit-steps",
		Method:      http.MethodPost,
		Path:        "/api/v1/steps/submit-steps",
		Summary:     "Записать шаги участника за день",
		Tags:        []string{"steps"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) memberStepsOp() huma.Operation {
	return huma.Operation{
		OperationID: "get-member-steps",
		Method:      http.MethodPost,
		Path:        "/api/v1/steps/get-member-steps",
		Summary:     "История шагов участника",
		Tags:        []string{"steps"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateGoalOp() huma.Operation {
	return huma.Operation{
		OperationID: "update-step-goal",
		Method:      http.MethodPost,
		Path:        "/api/v1/fitness/update-step-goal",
		Summary:     "Изменить дневную цель участника",
		Tags:        []string{"steps"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
