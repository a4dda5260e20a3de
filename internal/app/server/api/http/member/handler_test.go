package member

import (
	"context"
	"errors"
	"testing"

	"gfit/internal/app/server/api/http/middleware/auth"
	"gfit/internal/domain/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, familyID int) ([]member.FamilyMember, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]member.FamilyMember), args.Error(1)
}

func (m *MockService) Add(ctx context.Context, familyID int, firstName string) (member.FamilyMember, error) {
	args := m.Called(ctx, familyID, firstName)
	return args.Get(0).(member.FamilyMember), args.Error(1)
}

func TestHandler_List(t *testing.T) {
	authCtx := auth.WithIdentity(context.Background(), 1, 3)

	t.Run("success", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, slog.Default(), nil)
		svc.On("List", mock.Anything, 3).Return([]member.FamilyMember{{ID: 1, FirstName: "Anna", TokenKey: "t1"}}, nil)

		resp, err := h.list(authCtx, nil)
		require.NoError(t, err)
		assert.Equal(t, "Ok", resp.Body.Status)
		require.Len(t, resp.Body.Data, 1)
		assert.Equal(t, "t1", resp.Body.Data[0].TokenKey)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, slog.Default(), nil)
		svc.On("List", mock.Anything, 3).Return(nil, errors.New("db down"))

		resp, err := h.list(authCtx, nil)
		require.NoError(t, err)
		assert.Equal(t, "Error", resp.Body.Status)
		assert.Equal(t, "internal error", resp.Body.Error)
	})

	t.Run("no identity", func(t *testing.T) {
		h := NewHandler(new(MockService), slog.Default(), nil)

		resp, err := h.list(context.Background(), nil)
		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestHandler_Add(t *testing.T) {
	authCtx := auth.WithIdentity(context.Background(), 1, 3)

	tests := []struct {
		name       string
		member     member.FamilyMember
		err        error
		wantStatus string
		wantError  string
	}{
		{name: "success", member: member.FamilyMember{ID: 4, FirstName: "Vera"}, wantStatus: "Ok"},
		{name: "invalid name", err: member.ErrInvalidName, wantStatus: "Error", wantError: member.ErrInvalidName.Error()},
		{name: "internal", err: errors.New("insert failed"), wantStatus: "Error", wantError: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			h := NewHandler(svc, slog.Default(), nil)
			svc.On("Add", mock.Anything, 3, "Vera").Return(tt.member, tt.err)

			input := &addInput{}
			input.Body.FirstName = "Vera"

			resp, err := h.add(authCtx, input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Body.Status)
			assert.Equal(t, tt.wantError, resp.Body.Error)
			if tt.err == nil {
				require.NotNil(t, resp.Body.Data)
				assert.Equal(t, 4, resp.Body.Data.ID)
			}
		})
	}
}
