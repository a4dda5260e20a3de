package challenge

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const basePath = "/api/v1/challenges"

func (h *Handler) op(id, method, summary string) huma.Operation {
	return huma.Operation{
		OperationID: id,
		Method:      method,
		Path:        basePath + "/" + id,
		Summary:     summary,
		Tags:        []string{"challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) activeOp() huma.Operation {
	return h.op("get-active-challenge", http.MethodGet, "Активный челлендж семьи")
}

func (h *Handler) availableOp() huma.Operation {
	return h.op("get-available-challenges", http.MethodPost, "Доступные челленджи")
}

func (h *Handler) historyOp() huma.Operation {
	return h.op("get-challenge-history", http.MethodPost, "История челленджей семьи")
}

func (h *Handler) familiesLeaderboardOp() huma.Operation {
	return h.op("get-families-leaderboard", http.MethodPost, "Рейтинг семей в челлендже")
}

func (h *Handler) joinOp() huma.Operation {
	return h.op("join-challenge", http.MethodPost, "Присоединиться к челленджу")
}

func (h *Handler) leaveOp() huma.Operation {
	return h.op("leave-challenge", http.MethodPost, "Покинуть челлендж")
}
