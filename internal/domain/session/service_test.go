package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newTestService() *Service {
	return NewService("test-secret", time.Hour, 24*time.Hour, slog.Default())
}

func TestService_CreateAndValidate(t *testing.T) {
	s := newTestService()

	token, err := s.Create(context.Background(), 12, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := s.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 12, claims.UserID)
	assert.Equal(t, 3, claims.FamilyID)
	assert.Equal(t, KindAccount, claims.Kind)
}

func TestService_MemberToken(t *testing.T) {
	s := newTestService()

	token, err := s.IssueMember(7, 3)
	require.NoError(t, err)

	memberID, familyID, err := s.ResolveMember(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 7, memberID)
	assert.Equal(t, 3, familyID)
}

func TestService_KindsAreNotInterchangeable(t *testing.T) {
	s := newTestService()

	account, err := s.Create(context.Background(), 12, 3)
	require.NoError(t, err)
	memberTok, err := s.IssueMember(7, 3)
	require.NoError(t, err)

	_, _, err = s.ResolveMember(context.Background(), account)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Validate(context.Background(), memberTok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Expired(t *testing.T) {
	s := newTestService()
	issued := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	token, err := s.Create(context.Background(), 1, 1)
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = s.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_WrongSecret(t *testing.T) {
	token, err := newTestService().Create(context.Background(), 1, 1)
	require.NoError(t, err)

	other := NewService("another-secret", time.Hour, time.Hour, slog.Default())
	_, err = other.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiresAt(t *testing.T) {
	s := newTestService()
	issued := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	token, err := s.Create(context.Background(), 1, 1)
	require.NoError(t, err)

	exp, ok := ExpiresAt(token)
	require.True(t, ok)
	assert.True(t, exp.Equal(issued.Add(time.Hour)))

	_, ok = ExpiresAt("opaque-token")
	assert.False(t, ok)
}
