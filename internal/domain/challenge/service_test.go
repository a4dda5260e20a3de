package challenge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Available(ctx context.Context, familyID int) ([]Challenge, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Challenge), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, challengeID int) (Challenge, error) {
	args := m.Called(ctx, challengeID)
	return args.Get(0).(Challenge), args.Error(1)
}

func (m *MockRepository) ActiveParticipation(ctx context.Context, familyID int) (Participation, error) {
	args := m.Called(ctx, familyID)
	return args.Get(0).(Participation), args.Error(1)
}

func (m *MockRepository) MemberTotals(ctx context.Context, familyID int, from, to time.Time) ([]LeaderboardEntry, error) {
	args := m.Called(ctx, familyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LeaderboardEntry), args.Error(1)
}

func (m *MockRepository) Join(ctx context.Context, familyID, challengeID int, joinedAt, deadline time.Time) error {
	args := m.Called(ctx, familyID, challengeID, joinedAt, deadline)
	return args.Error(0)
}

func (m *MockRepository) Leave(ctx context.Context, familyID, challengeID int, at time.Time) error {
	args := m.Called(ctx, familyID, challengeID, at)
	return args.Error(0)
}

func (m *MockRepository) Finish(ctx context.Context, participationID int, status Status, at time.Time) error {
	args := m.Called(ctx, participationID, status, at)
	return args.Error(0)
}

func (m *MockRepository) History(ctx context.Context, familyID, limit, offset int) ([]Challenge, error) {
	args := m.Called(ctx, familyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Challenge), args.Error(1)
}

func (m *MockRepository) FamilyTotals(ctx context.Context, challengeID int) ([]FamilyTotal, error) {
	args := m.Called(ctx, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FamilyTotal), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, challengeID int) ([]LeaderboardEntry, bool, error) {
	args := m.Called(ctx, challengeID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]LeaderboardEntry), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, challengeID int, entries []LeaderboardEntry) error {
	args := m.Called(ctx, challengeID, entries)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, challengeID int) error {
	args := m.Called(ctx, challengeID)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository, cache Cache) *Service {
	s := NewService(repo, cache, slog.Default(), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestService_Active(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, nil)

	joined := fixedNow.Add(-72 * time.Hour)
	part := Participation{ID: 5, FamilyID: 1, Challenge: Challenge{
		ID: 9, Title: "Spring", StepsRequired: 100000, DurationDays: 7,
		JoinedAt: joined, Deadline: DeadlineFor(joined, 7),
	}}
	repo.On("ActiveParticipation", mock.Anything, 1).Return(part, nil)
	repo.On("MemberTotals", mock.Anything, 1, part.Challenge.JoinedAt, part.Challenge.Deadline).Return([]LeaderboardEntry{
		{SubjectID: 1, SubjectName: "Anna", TotalSteps: 10000},
		{SubjectID: 2, SubjectName: "Boris", TotalSteps: 20000},
	}, nil)

	dto, err := s.Active(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 30000, *dto.TotalSteps)
	assert.Equal(t, 4, *dto.DaysRemaining)
	assert.False(t, *dto.IsExpired)
	assert.True(t, *dto.Challenge.CurrentlyInChallenge)
	require.Len(t, dto.FamilyMembersLeaderboard, 2)
	assert.Equal(t, 2, dto.FamilyMembersLeaderboard[0].MemberID)
	repo.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Active_FinishesExpired(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	s := newTestService(repo, cache)

	joined := fixedNow.AddDate(0, 0, -10)
	part := Participation{ID: 5, FamilyID: 1, Challenge: Challenge{
		ID: 9, StepsRequired: 100000, DurationDays: 7,
		JoinedAt: joined, Deadline: DeadlineFor(joined, 7),
	}}
	repo.On("ActiveParticipation", mock.Anything, 1).Return(part, nil)
	repo.On("MemberTotals", mock.Anything, 1, mock.Anything, mock.Anything).Return([]LeaderboardEntry{
		{SubjectID: 1, TotalSteps: 500},
	}, nil)
	repo.On("Finish", mock.Anything, 5, StatusExpired, fixedNow).Return(nil)
	cache.On("Invalidate", mock.Anything, 9).Return(nil)

	dto, err := s.Active(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, *dto.IsExpired)
	assert.Equal(t, 0, *dto.DaysRemaining)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Active_None(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, nil)
	repo.On("ActiveParticipation", mock.Anything, 1).Return(Participation{}, ErrNoActiveChallenge)

	_, err := s.Active(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoActiveChallenge)
}

func TestService_History(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantLimit  int
		wantOffset int
	}{
		{"first page default size", 1, 0, DefaultHistoryPageSize, 0},
		{"third page", 3, 5, 5, 10},
		{"size is clamped", 2, 500, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			s := newTestService(repo, nil)
			repo.On("History", mock.Anything, 1, tt.wantLimit, tt.wantOffset).Return([]Challenge{{ID: 1}}, nil)

			list, err := s.History(context.Background(), 1, tt.page, tt.pageSize)
			require.NoError(t, err)
			assert.Len(t, list, 1)
			repo.AssertExpectations(t)
		})
	}

	_, err := newTestService(new(MockRepository), nil).History(context.Background(), 1, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestService_FamiliesLeaderboard_CacheMiss(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	s := newTestService(repo, cache)

	cache.On("Get", mock.Anything, 9).Return(nil, false, nil)
	repo.On("FamilyTotals", mock.Anything, 9).Return([]FamilyTotal{
		{FamilyID: 1, FamilyName: "A", TotalSteps: 500},
		{FamilyID: 2, FamilyName: "B", TotalSteps: 1000},
	}, nil)
	cache.On("Set", mock.Anything, 9, mock.MatchedBy(func(entries []LeaderboardEntry) bool {
		return len(entries) == 2 && entries[0].SubjectID == 2 && entries[0].Rank == 1
	})).Return(nil)

	ranked, err := s.FamiliesLeaderboard(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "B", ranked[0].SubjectName)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_FamiliesLeaderboard_CacheHit(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	s := newTestService(repo, cache)

	cached := []LeaderboardEntry{{SubjectID: 3, Rank: 1, TotalSteps: 10}}
	cache.On("Get", mock.Anything, 9).Return(cached, true, nil)

	ranked, err := s.FamiliesLeaderboard(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, cached, ranked)
	repo.AssertNotCalled(t, "FamilyTotals", mock.Anything, mock.Anything)
}

func TestService_FamiliesLeaderboard_CacheErrorFallsBack(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	s := newTestService(repo, cache)

	cache.On("Get", mock.Anything, 9).Return(nil, false, errors.New("connection refused"))
	cache.On("Set", mock.Anything, 9, mock.Anything).Return(errors.New("connection refused"))
	repo.On("FamilyTotals", mock.Anything, 9).Return([]FamilyTotal{{FamilyID: 1, TotalSteps: 1}}, nil)

	ranked, err := s.FamiliesLeaderboard(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, ranked, 1)
}

func TestService_Join(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	s := newTestService(repo, cache)

	repo.On("Get", mock.Anything, 9).Return(Challenge{ID: 9, DurationDays: 7}, nil)
	repo.On("ActiveParticipation", mock.Anything, 1).Return(Participation{}, ErrNoActiveChallenge)
	repo.On("Join", mock.Anything, 1, 9, fixedNow, fixedNow.AddDate(0, 0, 7)).Return(nil)
	cache.On("Invalidate", mock.Anything, 9).Return(nil)

	require.NoError(t, s.Join(context.Background(), 1, 9))
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Join_ClosesExpiredParticipation(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, nil)

	old := Participation{ID: 4, FamilyID: 1, Challenge: Challenge{ID: 8, Deadline: fixedNow.Add(-time.Hour)}}
	repo.On("Get", mock.Anything, 9).Return(Challenge{ID: 9, DurationDays: 7}, nil)
	repo.On("ActiveParticipation", mock.Anything, 1).Return(old, nil)
	repo.On("Finish", mock.Anything, 4, StatusExpired, fixedNow).Return(nil)
	repo.On("Join", mock.Anything, 1, 9, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, s.Join(context.Background(), 1, 9))
	repo.AssertExpectations(t)
}

func TestService_Join_AlreadyActive(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, nil)

	current := Participation{ID: 4, FamilyID: 1, Challenge: Challenge{ID: 8, Deadline: fixedNow.Add(time.Hour)}}
	repo.On("Get", mock.Anything, 9).Return(Challenge{ID: 9, DurationDays: 7}, nil)
	repo.On("ActiveParticipation", mock.Anything, 1).Return(current, nil)
	repo.On("Join", mock.Anything, 1, 9, mock.Anything, mock.Anything).Return(ErrAlreadyInChallenge)

	assert.ErrorIs(t, s.Join(context.Background(), 1, 9), ErrAlreadyInChallenge)
	repo.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Leave(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, nil)

	repo.On("Leave", mock.Anything, 1, 9, fixedNow).Return(ErrNotJoined).Once()
	assert.ErrorIs(t, s.Leave(context.Background(), 1, 9), ErrNotJoined)

	repo.On("Leave", mock.Anything, 1, 9, fixedNow).Return(nil).Once()
	assert.NoError(t, s.Leave(context.Background(), 1, 9))
}

func TestService_FamilyStepsChanged(t *testing.T) {
	t.Run("invalidates active challenge", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		s := newTestService(repo, cache)

		repo.On("ActiveParticipation", mock.Anything, 1).Return(Participation{ID: 5, FamilyID: 1, Challenge: Challenge{ID: 9}}, nil)
		cache.On("Invalidate", mock.Anything, 9).Return(nil).Once()

		s.FamilyStepsChanged(context.Background(), 1)
		cache.AssertExpectations(t)
	})

	t.Run("no active challenge", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		s := newTestService(repo, cache)

		repo.On("ActiveParticipation", mock.Anything, 1).Return(Participation{}, ErrNoActiveChallenge)

		s.FamilyStepsChanged(context.Background(), 1)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("without cache", func(t *testing.T) {
		repo := new(MockRepository)
		s := newTestService(repo, nil)

		s.FamilyStepsChanged(context.Background(), 1)
		repo.AssertNotCalled(t, "ActiveParticipation", mock.Anything, mock.Anything)
	})
}
