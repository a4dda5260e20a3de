package steps

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

const (
	maxRangeDays = 366
	// openDaysSlack сколько дней вокруг сегодняшнего по UTC еще можно менять
	openDaysSlack = 1
)

// Servicer серверная логика шагов
type Servicer interface {
	// Submit перезаписывает шаги участника за день
	Submit(ctx context.Context, familyID int, req SubmitRequest) error

	// MemberSteps возвращает историю шагов участника
	MemberSteps(ctx context.Context, familyID int, req MemberStepsRequest) ([]StepRecord, error)

	// UpdateGoal меняет дневную цель участника
	UpdateGoal(ctx context.Context, familyID int, req UpdateGoalRequest) error
}

// ChangeNotifier узнает, что шаги семьи изменились
type ChangeNotifier interface {
	FamilyStepsChanged(ctx context.Context, familyID int)
}

type Service struct {
	repo     Repository
	members  MemberResolver
	notifier ChangeNotifier
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, members MemberResolver, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		members: members,
		log:     log.With(slog.String("component", "steps_service")),
		now:     time.Now,
	}
}

// WithNotifier подключает получателя изменений шагов
func (s *Service) WithNotifier(n ChangeNotifier) *Service {
	s.notifier = n
	return s
}

func (s *Service) Submit(ctx context.Context, familyID int, req SubmitRequest) error {
	if req.StepsCount < 0 {
		return ErrInvalidSteps
	}

	day, err := ParseDay(req.Date, time.UTC)
	if err != nil {
		return err
	}
	if !s.isOpen(day) {
		return ErrDayClosed
	}

	memberID, err := s.member(ctx, familyID, req.MemberTokenKey)
	if err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, memberID, day, req.StepsCount); err != nil {
		return fmt.Errorf("save steps: %w", err)
	}
	if s.notifier != nil {
		s.notifier.FamilyStepsChanged(ctx, familyID)
	}

	s.log.Debug("шаги сохранены", "member_id", memberID, "date", req.Date, "steps", req.StepsCount)
	return nil
}

func (s *Service) MemberSteps(ctx context.Context, familyID int, req MemberStepsRequest) ([]StepRecord, error) {
	from, err := ParseDay(req.FromDate, time.UTC)
	if err != nil {
		return nil, err
	}
	to, err := ParseDay(req.ToDate, time.UTC)
	if err != nil {
		return nil, err
	}
	if to.Before(from) || to.Sub(from) > maxRangeDays*24*time.Hour {
		return nil, ErrInvalidRange
	}

	memberID, err := s.member(ctx, familyID, req.MemberTokenKey)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Range(ctx, memberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load steps: %w", err)
	}
	return records, nil
}

func (s *Service) UpdateGoal(ctx context.Context, familyID int, req UpdateGoalRequest) error {
	if req.DailyGoal <= 0 {
		return ErrInvalidGoal
	}

	if err := s.repo.UpdateGoal(ctx, familyID, req.MemberID, req.DailyGoal); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// isOpen прошедшие дни неизменяемы. Соседние дни допускаются из-за часовых поясов клиентов
func (s *Service) isOpen(day time.Time) bool {
	today := StartOfDay(s.now().UTC())
	return !day.Before(today.AddDate(0, 0, -openDaysSlack)) && !day.After(today.AddDate(0, 0, openDaysSlack))
}

func (s *Service) member(ctx context.Context, familyID int, token string) (int, error) {
	memberID, memberFamily, err := s.members.ResolveMember(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMemberNotFound, err)
	}
	if memberFamily != familyID {
		return 0, ErrForeignMember
	}
	return memberID, nil
}
