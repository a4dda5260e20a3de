package challenge

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"gfit/internal/app/server/api/http/middleware/auth"
	"gfit/internal/domain/challenge"
	"gfit/internal/domain/session"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Available(ctx context.Context, familyID int) ([]challenge.Challenge, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]challenge.Challenge), args.Error(1)
}

func (m *MockService) Active(ctx context.Context, familyID int) (*challenge.ActiveChallengeDTO, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*challenge.ActiveChallengeDTO), args.Error(1)
}

func (m *MockService) History(ctx context.Context, familyID, page, pageSize int) ([]challenge.Challenge, error) {
	args := m.Called(ctx, familyID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]challenge.Challenge), args.Error(1)
}

func (m *MockService) FamiliesLeaderboard(ctx context.Context, challengeID int) ([]challenge.LeaderboardEntry, error) {
	args := m.Called(ctx, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]challenge.LeaderboardEntry), args.Error(1)
}

func (m *MockService) Join(ctx context.Context, familyID, challengeID int) error {
	return m.Called(ctx, familyID, challengeID).Error(0)
}

func (m *MockService) Leave(ctx context.Context, familyID, challengeID int) error {
	return m.Called(ctx, familyID, challengeID).Error(0)
}

func TestHandler_Active(t *testing.T) {
	authCtx := auth.WithIdentity(context.Background(), 1, 3)

	t.Run("active challenge", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, slog.Default(), nil)
		total := 12000
		svc.On("Active", mock.Anything, 3).Return(&challenge.ActiveChallengeDTO{
			Challenge:  &challenge.ChallengeDTO{ID: 2},
			TotalSteps: &total,
		}, nil)

		resp, err := h.active(authCtx, nil)
		require.NoError(t, err)
		assert.Equal(t, "Ok", resp.Body.Status)
		require.NotNil(t, resp.Body.Data)
		assert.Equal(t, 2, resp.Body.Data.Challenge.ID)
	})

	t.Run("no active challenge", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, slog.Default(), nil)
		svc.On("Active", mock.Anything, 3).Return(nil, challenge.ErrNoActiveChallenge)

		resp, err := h.active(authCtx, nil)
		require.NoError(t, err)
		assert.Equal(t, "Ok", resp.Body.Status)
		assert.Nil(t, resp.Body.Data)
	})

	t.Run("internal error", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, slog.Default(), nil)
		svc.On("Active", mock.Anything, 3).Return(nil, errors.New("query failed"))

		resp, err := h.active(authCtx, nil)
		require.NoError(t, err)
		assert.Equal(t, "Error", resp.Body.Status)
		assert.Equal(t, "internal error", resp.Body.Error)
	})
}

func TestHandler_History(t *testing.T) {
	authCtx := auth.WithIdentity(context.Background(), 1, 3)
	svc := new(MockService)
	h := NewHandler(svc, slog.Default(), nil)

	svc.On("History", mock.Anything, 3, 2, 10).Return([]challenge.Challenge{{ID: 11, Title: "Марафон"}}, nil)
	svc.On("History", mock.Anything, 3, 0, 10).Return(nil, challenge.ErrInvalidPage)

	resp, err := h.history(authCtx, &historyInput{Body: challenge.HistoryRequest{Page: 2, PageSize: 10}})
	require.NoError(t, err)
	assert.Equal(t, "Ok", resp.Body.Status)
	require.Len(t, resp.Body.Data, 1)
	assert.Equal(t, "Марафон", *resp.Body.Data[0].TitleEn)

	resp, err = h.history(authCtx, &historyInput{Body: challenge.HistoryRequest{Page: 0, PageSize: 10}})
	require.NoError(t, err)
	assert.Equal(t, "Error", resp.Body.Status)
	assert.Equal(t, challenge.ErrInvalidPage.Error(), resp.Body.Error)
}

func TestHandler_FamiliesLeaderboard(t *testing.T) {
	authCtx := auth.WithIdentity(context.Background(), 1, 3)
	svc := new(MockService)
	h := NewHandler(svc, slog.Default(), nil)

	joined := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.On("FamiliesLeaderboard", mock.Anything, 2).Return([]challenge.LeaderboardEntry{
		{SubjectID: 3, SubjectName: "Ивановы", TotalSteps: 50000, Rank: 1, JoinedAt: joined},
		{SubjectID: 4, SubjectName: "Петровы", TotalSteps: 30000, Rank: 2},
	}, nil)

	resp, err := h.familiesLeaderboard(authCtx, &challengeIDInput{Body: challenge.ChallengeIDRequest{ChallengeID: 2}})
	require.NoError(t, err)
	assert.Equal(t, "Ok", resp.Body.Status)
	require.Len(t, resp.Body.Data, 2)
	assert.Equal(t, 1, *resp.Body.Data[0].Rank)
	assert.Equal(t, joined, *resp.Body.Data[0].JoinedAt)
	assert.Nil(t, resp.Body.Data[1].JoinedAt)
}

func TestHandler_JoinLeave(t *testing.T) {
	authCtx := auth.WithIdentity(context.Background(), 1, 3)

	tests := []struct {
		name       string
		call       func(h *Handler) (*statusOutput, error)
		method     string
		err        error
		wantStatus string
		wantError  string
	}{
		{
			name:       "join",
			method:     "Join",
			call:       func(h *Handler) (*statusOutput, error) { return h.join(authCtx, &challengeIDInput{Body: challenge.ChallengeIDRequest{ChallengeID: 2}}) },
			wantStatus: "Ok",
		},
		{
			name:       "join while in another",
			method:     "Join",
			err:        challenge.ErrAlreadyInChallenge,
			call:       func(h *Handler) (*statusOutput, error) { return h.join(authCtx, &challengeIDInput{Body: challenge.ChallengeIDRequest{ChallengeID: 2}}) },
			wantStatus: "Error",
			wantError:  challenge.ErrAlreadyInChallenge.Error(),
		},
		{
			name:       "leave not joined",
			method:     "Leave",
			err:        challenge.ErrNotJoined,
			call:       func(h *Handler) (*statusOutput, error) { return h.leave(authCtx, &challengeIDInput{Body: challenge.ChallengeIDRequest{ChallengeID: 2}}) },
			wantStatus: "Error",
			wantError:  challenge.ErrNotJoined.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			h := NewHandler(svc, slog.Default(), nil)
			svc.On(tt.method, mock.Anything, 3, 2).Return(tt.err)

			resp, err := tt.call(h)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Body.Status)
			assert.Equal(t, tt.wantError, resp.Body.Error)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Routes(t *testing.T) {
	tokens := session.NewService("test-secret", time.Hour, time.Hour, slog.Default())
	token, err := tokens.Create(context.Background(), 1, 3)
	require.NoError(t, err)

	svc := new(MockService)
	svc.On("Available", mock.Anything, 3).Return([]challenge.Challenge{{ID: 1, Title: "10k"}}, nil)

	_, api := humatest.New(t)
	authMW := auth.New(tokens, slog.Default())
	NewHandler(svc, slog.Default(), huma.Middlewares{authMW.Middleware()}).SetupRoutes(api)

	resp := api.Post("/api/v1/challenges/get-available-challenges", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = api.Post("/api/v1/challenges/get-available-challenges", "Authorization: Bearer "+token, map[string]any{})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"title_en":"10k"`)
}
