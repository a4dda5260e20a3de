package member

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListByFamily(ctx context.Context, familyID int) ([]FamilyMember, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FamilyMember), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, familyID int, fm FamilyMember) (FamilyMember, error) {
	args := m.Called(ctx, familyID, fm)
	return args.Get(0).(FamilyMember), args.Error(1)
}

type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) IssueMember(memberID, familyID int) (string, error) {
	args := m.Called(memberID, familyID)
	return args.String(0), args.Error(1)
}

func TestService_List(t *testing.T) {
	repo := new(MockRepository)
	issuer := new(MockIssuer)
	s := NewService(repo, issuer, slog.Default())

	repo.On("ListByFamily", mock.Anything, 3).Return([]FamilyMember{{ID: 1}, {ID: 2}}, nil)
	issuer.On("IssueMember", 1, 3).Return("t1", nil)
	issuer.On("IssueMember", 2, 3).Return("t2", nil)

	members, err := s.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "t1", members[0].TokenKey)
	assert.Equal(t, "t2", members[1].TokenKey)
}

func TestService_Add(t *testing.T) {
	repo := new(MockRepository)
	issuer := new(MockIssuer)
	s := NewService(repo, issuer, slog.Default())

	repo.On("ListByFamily", mock.Anything, 3).Return([]FamilyMember{{ID: 1}}, nil)
	repo.On("Create", mock.Anything, 3, FamilyMember{
		FirstName: "Vera",
		Color:     palettes[1].Color,
		TextColor: palettes[1].TextColor,
	}).Return(FamilyMember{ID: 2, FirstName: "Vera", Color: palettes[1].Color}, nil)
	issuer.On("IssueMember", 2, 3).Return("t2", nil)

	m, err := s.Add(context.Background(), 3, "  Vera ")
	require.NoError(t, err)
	assert.Equal(t, 2, m.ID)
	assert.Equal(t, "t2", m.TokenKey)
	repo.AssertExpectations(t)
}

func TestService_Add_Validation(t *testing.T) {
	s := NewService(new(MockRepository), new(MockIssuer), slog.Default())

	_, err := s.Add(context.Background(), 3, "   ")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestService_Add_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	s := NewService(repo, new(MockIssuer), slog.Default())

	repo.On("ListByFamily", mock.Anything, 3).Return(nil, errors.New("db down"))

	_, err := s.Add(context.Background(), 3, "Vera")
	assert.ErrorContains(t, err, "db down")
}
