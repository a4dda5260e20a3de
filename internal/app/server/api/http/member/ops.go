package member

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "get-family-members",
		Method:      http.MethodGet,
		Path:        "/api/v1/get-family-members",
		Summary:     "Участники семьи с токенами",
		Tags:        []string{"members"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) addOp() huma.Operation {
	return huma.Operation{
		OperationID: "add-family-member",
		Method:      http.MethodPost,
		Path:        "/api/v1/add-family-member",
		Summary:     "Добавить участника семьи",
		Tags:        []string{"members"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
