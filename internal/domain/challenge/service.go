package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// Servicer серверная логика челленджей
type Servicer interface {
	// Available все опубликованные челленджи с флагом участия семьи
	Available(ctx context.Context, familyID int) ([]Challenge, error)

	// Active активный челлендж семьи с рейтингом участников
	Active(ctx context.Context, familyID int) (*ActiveChallengeDTO, error)

	// History завершенные и просроченные челленджи семьи постранично
	History(ctx context.Context, familyID, page, pageSize int) ([]Challenge, error)

	// FamiliesLeaderboard рейтинг семей в челлендже
	FamiliesLeaderboard(ctx context.Context, challengeID int) ([]LeaderboardEntry, error)

	Join(ctx context.Context, familyID, challengeID int) error
	Leave(ctx context.Context, familyID, challengeID int) error
}

type ServiceConfig struct {
	HistoryPageSize int
	MaxPageSize     int
}

type Service struct {
	repo   Repository
	cache  Cache
	log    *slog.Logger
	config *ServiceConfig
	now    func() time.Time
}

// NewService создает сервис. cache может быть nil
func NewService(repo Repository, cache Cache, log *slog.Logger, config *ServiceConfig) *Service {
	if config == nil {
		config = &ServiceConfig{}
	}
	if config.HistoryPageSize <= 0 {
		config.HistoryPageSize = DefaultHistoryPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = 50
	}

	return &Service{
		repo:   repo,
		cache:  cache,
		log:    log.With(slog.String("component", "challenge_service")),
		config: config,
		now:    time.Now,
	}
}

func (s *Service) Available(ctx context.Context, familyID int) ([]Challenge, error) {
	list, err := s.repo.Available(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("load available challenges: %w", err)
	}
	return list, nil
}

func (s *Service) Active(ctx context.Context, familyID int) (*ActiveChallengeDTO, error) {
	part, err := s.repo.ActiveParticipation(ctx, familyID)
	if err != nil {
		return nil, err
	}

	c := part.Challenge
	c.CurrentlyInChallenge = true

	members, err := s.repo.MemberTotals(ctx, familyID, c.JoinedAt, c.Deadline)
	if err != nil {
		return nil, fmt.Errorf("load member totals: %w", err)
	}
	members = Rank(members)

	total := 0
	for _, m := range members {
		total += m.TotalSteps
	}

	now := s.now()
	if status := DeriveStatus(c, total, now); status.Terminal() {
		s.finish(ctx, part, status, now)
	}

	board := make([]MemberTotalDTO, 0, len(members))
	for _, m := range members {
		board = append(board, MemberTotalDTO{
			MemberID:   m.SubjectID,
			Username:   ptr(m.SubjectName),
			TotalSteps: ptr(m.TotalSteps),
		})
	}

	dto := FromDomain(c)
	return &ActiveChallengeDTO{
		Challenge:                &dto,
		TotalSteps:               ptr(total),
		DaysRemaining:            ptr(c.DaysRemaining(now)),
		IsExpired:                ptr(c.IsExpired(now)),
		FamilyMembersLeaderboard: board,
	}, nil
}

func (s *Service) History(ctx context.Context, familyID, page, pageSize int) ([]Challenge, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if pageSize <= 0 {
		pageSize = s.config.HistoryPageSize
	}
	if pageSize > s.config.MaxPageSize {
		pageSize = s.config.MaxPageSize
	}

	list, err := s.repo.History(ctx, familyID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return list, nil
}

func (s *Service) FamiliesLeaderboard(ctx context.Context, challengeID int) ([]LeaderboardEntry, error) {
	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx, challengeID)
		if err != nil {
			s.log.Warn("кэш рейтинга недоступен", "challenge_id", challengeID, "error", err)
		} else if ok {
			return entries, nil
		}
	}

	totals, err := s.repo.FamilyTotals(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("load family totals: %w", err)
	}
	ranked := RankFamilies(totals)

	if s.cache != nil {
		if err := s.cache.Set(ctx, challengeID, ranked); err != nil {
			s.log.Warn("не удалось сохранить рейтинг в кэш", "challenge_id", challengeID, "error", err)
		}
	}
	return ranked, nil
}

func (s *Service) Join(ctx context.Context, familyID, challengeID int) error {
	c, err := s.repo.Get(ctx, challengeID)
	if err != nil {
		return err
	}

	now := s.now()
	if err := s.closeExpired(ctx, familyID, now); err != nil {
		return err
	}

	if err := s.repo.Join(ctx, familyID, challengeID, now, DeadlineFor(now, c.DurationDays)); err != nil {
		return err
	}

	s.invalidate(ctx, challengeID)
	s.log.Info("семья присоединилась к челленджу", "family_id", familyID, "challenge_id", challengeID)
	return nil
}

func (s *Service) Leave(ctx context.Context, familyID, challengeID int) error {
	if err := s.repo.Leave(ctx, familyID, challengeID, s.now()); err != nil {
		return err
	}

	s.invalidate(ctx, challengeID)
	s.log.Info("семья покинула челлендж", "family_id", familyID, "challenge_id", challengeID)
	return nil
}

// FamilyStepsChanged сбрасывает кэш рейтинга челленджа, в котором сейчас участвует семья
func (s *Service) FamilyStepsChanged(ctx context.Context, familyID int) {
	if s.cache == nil {
		return
	}
	part, err := s.repo.ActiveParticipation(ctx, familyID)
	if errors.Is(err, ErrNoActiveChallenge) {
		return
	}
	if err != nil {
		s.log.Warn("не удалось найти челлендж семьи", "family_id", familyID, "error", err)
		return
	}
	s.invalidate(ctx, part.Challenge.ID)
}

func (s *Service) closeExpired(ctx context.Context, familyID int, now time.Time) error {
	part, err := s.repo.ActiveParticipation(ctx, familyID)
	if errors.Is(err, ErrNoActiveChallenge) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load active participation: %w", err)
	}

	if part.Challenge.IsExpired(now) {
		s.finish(ctx, part, StatusExpired, now)
	}
	return nil
}

func (s *Service) finish(ctx context.Context, part Participation, status Status, at time.Time) {
	if err := s.repo.Finish(ctx, part.ID, status, at); err != nil {
		s.log.Warn("не удалось завершить участие", "participation_id", part.ID, "status", status.String(), "error", err)
		return
	}
	s.invalidate(ctx, part.Challenge.ID)
}

func (s *Service) invalidate(ctx context.Context, challengeID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, challengeID); err != nil {
		s.log.Warn("не удалось сбросить кэш рейтинга", "challenge_id", challengeID, "error", err)
	}
}
