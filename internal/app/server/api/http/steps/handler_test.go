package steps

import (
	"context"
	"errors"
	"testing"
	"time"

	"gfit/internal/app/server/api/http/middleware/auth"
	"gfit/internal/domain/steps"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Submit(ctx context.Context, familyID int, req steps.SubmitRequest) error {
	args := m.Called(ctx, familyID, req)
	return args.Error(0)
}

func (m *MockService) MemberSteps(ctx context.Context, familyID int, req steps.MemberStepsRequest) ([]steps.StepRecord, error) {
	args := m.Called(ctx, familyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]steps.StepRecord), args.Error(1)
}

func (m *MockService) UpdateGoal(ctx context.Context, familyID int, req steps.UpdateGoalRequest) error {
	args := m.Called(ctx, familyID, req)
	return args.Error(0)
}

func TestHandler_Submit(t *testing.T) {
	authCtx := auth.WithIdentity(context.Background(), 1, 3)
	req := steps.SubmitRequest{MemberTokenKey: "mt", Date: "2025-03-10", StepsCount: 4200}

	tests := []struct {
		name       string
		err        error
		wantStatus string
		wantError  string
	}{
		{name: "success", wantStatus: "Ok"},
		{name: "negative steps", err: steps.ErrInvalidSteps, wantStatus: "Error", wantError: steps.ErrInvalidSteps.Error()},
		{name: "foreign member", err: steps.ErrForeignMember, wantStatus: "Error", wantError: steps.ErrForeignMember.Error()},
		{name: "closed day", err: steps.ErrDayClosed, wantStatus: "Error", wantError: steps.ErrDayClosed.Error()},
		{name: "wrapped member error", err: errors.Join(steps.ErrMemberNotFound, errors.New("bad token")), wantStatus: "Error", wantError: steps.ErrMemberNotFound.Error()},
		{name: "internal", err: errors.New("upsert failed"), wantStatus: "Error", wantError: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			h := NewHandler(svc, slog.Default(), nil)
			svc.On("Submit", mock.Anything, 3, req).Return(tt.err)

			resp, err := h.submit(authCtx, &submitInput{Body: req})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Body.Status)
			assert.Equal(t, tt.wantError, resp.Body.Error)
		})
	}
}

func TestHandler_Submit_Unauthorized(t *testing.T) {
	h := NewHandler(new(MockService), slog.Default(), nil)

	resp, err := h.submit(context.Background(), &submitInput{})
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestHandler_MemberSteps(t *testing.T) {
	authCtx := auth.WithIdentity(context.Background(), 1, 3)
	req := steps.MemberStepsRequest{MemberTokenKey: "mt", FromDate: "2025-03-04", ToDate: "2025-03-10"}

	t.Run("success", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, slog.Default(), nil)
		svc.On("MemberSteps", mock.Anything, 3, req).Return([]steps.StepRecord{
			{Date: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), Steps: 8000},
			{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Steps: 4200},
		}, nil)

		resp, err := h.memberSteps(authCtx, &memberStepsInput{Body: req})
		require.NoError(t, err)
		assert.Equal(t, "Ok", resp.Body.Status)
		require.Len(t, resp.Body.Steps, 2)
		assert.Equal(t, "2025-03-10", resp.Body.Steps[1].Date)
		assert.Equal(t, 4200, *resp.Body.Steps[1].Steps)
	})

	t.Run("invalid range", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, slog.Default(), nil)
		svc.On("MemberSteps", mock.Anything, 3, req).Return(nil, steps.ErrInvalidRange)

		resp, err := h.memberSteps(authCtx, &memberStepsInput{Body: req})
		require.NoError(t, err)
		assert.Equal(t, "Error", resp.Body.Status)
		assert.Equal(t, steps.ErrInvalidRange.Error(), resp.Body.Error)
		assert.NotNil(t, resp.Body.Steps)
	})
}

func TestHandler_UpdateGoal(t *testing.T) {
	authCtx := auth.WithIdentity(context.Background(), 1, 3)
	req := steps.UpdateGoalRequest{MemberID: 5, DailyGoal: 12000}

	svc := new(MockService)
	h := NewHandler(svc, slog.Default(), nil)
	svc.On("UpdateGoal", mock.Anything, 3, req).Return(nil).Once()
	svc.On("UpdateGoal", mock.Anything, 3, req).Return(steps.ErrInvalidGoal).Once()

	resp, err := h.updateGoal(authCtx, &updateGoalInput{Body: req})
	require.NoError(t, err)
	assert.Equal(t, "Ok", resp.Body.Status)

	resp, err = h.updateGoal(authCtx, &updateGoalInput{Body: req})
	require.NoError(t, err)
	assert.Equal(t, "Error", resp.Body.Status)
	assert.Equal(t, steps.ErrInvalidGoal.Error(), resp.Body.Error)
}
