package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"gfit/internal/app/client/config"
	"gfit/internal/domain/challenge"
	"gfit/internal/domain/member"
	"gfit/internal/domain/session"
	"gfit/internal/domain/steps"
	"gfit/internal/domain/user"
)

const (
	apiPrefix = "/api/v1"
	userAgent = "GFit-Client/1.0"

	statusError = "Error"
)

type httpClient struct {
	client *resty.Client
	log    *slog.Logger
	now    func() time.Time
}

// envelope общие поля всех ответов API
type envelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	return newHTTPClient(cfg.BaseURL(), cfg.RequestTimeout, log)
}

func newHTTPClient(baseURL string, timeout time.Duration, log *slog.Logger) *httpClient {
	client := resty.New().
		SetBaseURL(baseURL+apiPrefix).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)

	return &httpClient{
		client: client,
		log:    log.With(slog.String("component", "http_client")),
		now:    time.Now,
	}
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	return h.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

func (h *httpClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp user.LoginResponse
	err := h.do(ctx, http.MethodPost, "/login", "", user.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty token", steps.ErrNoData)
	}
	return resp.Token, nil
}

func (h *httpClient) Register(ctx context.Context, req user.RegisterRequest) (int, error) {
	var resp user.RegisterResponse
	if err := h.do(ctx, http.MethodPost, "/register", "", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (h *httpClient) FamilyMembers(ctx context.Context, token string) ([]member.FamilyMember, error) {
	var resp member.ListResponse
	if err := h.do(ctx, http.MethodGet, "/get-family-members", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (h *httpClient) AddFamilyMember(ctx context.Context, token, firstName string) (member.FamilyMember, error) {
	var resp member.AddResponse
	if err := h.do(ctx, http.MethodPost, "/add-family-member", token, member.AddRequest{FirstName: firstName}, &resp); err != nil {
		return member.FamilyMember{}, err
	}
	if resp.Data == nil {
		return member.FamilyMember{}, steps.ErrNoData
	}
	return *resp.Data, nil
}

// SubmitSteps перезаписывает шаги участника за день
func (h *httpClient) SubmitSteps(ctx context.Context, creds member.Credentials, day time.Time, count int) error {
	req := steps.SubmitRequest{
		MemberTokenKey: creds.MemberToken,
		Date:           day.Format(steps.DateLayout),
		StepsCount:     count,
	}
	return h.do(ctx, http.MethodPost, "/steps/submit-steps", creds.AccountToken, req, nil)
}

func (h *httpClient) MemberSteps(ctx context.Context, creds member.Credentials, from, to time.Time) ([]steps.StepRecord, error) {
	req := steps.MemberStepsRequest{
		MemberTokenKey: creds.MemberToken,
		FromDate:       from.Format(steps.DateLayout),
		ToDate:         to.Format(steps.DateLayout),
	}

	var resp steps.MemberStepsResponse
	if err := h.do(ctx, http.MethodPost, "/steps/get-member-steps", creds.AccountToken, req, &resp); err != nil {
		return nil, err
	}
	return steps.RecordsFromDTO(resp.Steps, to.Location()), nil
}

func (h *httpClient) UpdateStepGoal(ctx context.Context, creds member.Credentials, goal int) error {
	req := steps.UpdateGoalRequest{MemberID: creds.MemberID, DailyGoal: goal}
	return h.do(ctx, http.MethodPost, "/fitness/update-step-goal", creds.AccountToken, req, nil)
}

func (h *httpClient) ActiveChallenge(ctx context.Context, token string) (*challenge.ActiveChallengeDTO, error) {
	var resp challenge.ActiveResponse
	if err := h.do(ctx, http.MethodGet, "/challenges/get-active-challenge", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.Challenge == nil {
		return nil, challenge.ErrNoActiveChallenge
	}
	return resp.Data, nil
}

func (h *httpClient) AvailableChallenges(ctx context.Context, token string) ([]challenge.Challenge, error) {
	var resp challenge.ListResponse
	if err := h.do(ctx, http.MethodPost, "/challenges/get-available-challenges", token, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return challenge.ListToDomain(resp.Data), nil
}

func (h *httpClient) ChallengeHistory(ctx context.Context, token string, page, pageSize int) ([]challenge.Challenge, error) {
	var resp challenge.ListResponse
	req := challenge.HistoryRequest{Page: page, PageSize: pageSize}
	if err := h.do(ctx, http.MethodPost, "/challenges/get-challenge-history", token, req, &resp); err != nil {
		return nil, err
	}
	return challenge.ListToDomain(resp.Data), nil
}

func (h *httpClient) FamiliesLeaderboard(ctx context.Context, token string, challengeID int) ([]challenge.LeaderboardEntry, error) {
	var resp challenge.FamiliesResponse
	req := challenge.ChallengeIDRequest{ChallengeID: challengeID}
	if err := h.do(ctx, http.MethodPost, "/challenges/get-families-leaderboard", token, req, &resp); err != nil {
		return nil, err
	}
	return challenge.FamiliesToDomain(resp.Data), nil
}

func (h *httpClient) JoinChallenge(ctx context.Context, token string, challengeID int) error {
	req := challenge.ChallengeIDRequest{ChallengeID: challengeID}
	return h.do(ctx, http.MethodPost, "/challenges/join-challenge", token, req, nil)
}

func (h *httpClient) LeaveChallenge(ctx context.Context, token string, challengeID int) error {
	req := challenge.ChallengeIDRequest{ChallengeID: challengeID}
	return h.do(ctx, http.MethodPost, "/challenges/leave-challenge", token, req, nil)
}

func (h *httpClient) do(ctx context.Context, method, path, token string, body, result interface{}) error {
	if token != "" {
		if exp, ok := session.ExpiresAt(token); ok && !h.now().Before(exp) {
			return fmt.Errorf("%w: token expired at %s", ErrUnauthorized, exp.Format(time.RFC3339))
		}
	}

	requestID := uuid.NewString()
	req := h.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID)
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}

	h.log.Debug("Отправка запроса", "method", method, "path", path, "request_id", requestID)

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	h.log.Debug("Получен ответ", "status", resp.StatusCode(), "request_id", requestID)

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	case code >= http.StatusBadRequest:
		return fmt.Errorf("%w: status %d: %s", ErrRejected, code, errorMessage(resp.Body()))
	}

	raw := resp.Body()
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", steps.ErrNoData, err)
	}
	if env.Status == statusError {
		return fmt.Errorf("%w: %s", ErrRejected, env.Error)
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("%w: %v", steps.ErrNoData, err)
		}
	}
	return nil
}

func errorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		return env.Error
	}
	// huma отдает ошибки в формате RFC 9457
	var problem struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err == nil && problem.Detail != "" {
		return problem.Detail
	}
	return http.StatusText(http.StatusBadRequest)
}
