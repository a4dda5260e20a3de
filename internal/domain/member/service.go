package member

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slog"
)

const maxNameLen = 50

// Repository участники семей на сервере
type Repository interface {
	ListByFamily(ctx context.Context, familyID int) ([]FamilyMember, error)
	Create(ctx context.Context, familyID int, m FamilyMember) (FamilyMember, error)
}

// TokenIssuer выдает токены участников
type TokenIssuer interface {
	IssueMember(memberID, familyID int) (string, error)
}

type Servicer interface {
	// List участники семьи с их токенами
	List(ctx context.Context, familyID int) ([]FamilyMember, error)

	// Add добавляет участника в семью
	Add(ctx context.Context, familyID int, firstName string) (FamilyMember, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
	log    *slog.Logger
}

func NewService(repo Repository, tokens TokenIssuer, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		log:    log.With(slog.String("component", "member_service")),
	}
}

func (s *Service) List(ctx context.Context, familyID int) ([]FamilyMember, error) {
	members, err := s.repo.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	for i := range members {
		token, err := s.tokens.IssueMember(members[i].ID, familyID)
		if err != nil {
			return nil, fmt.Errorf("issue member token: %w", err)
		}
		members[i].TokenKey = token
	}
	return members, nil
}

func (s *Service) Add(ctx context.Context, familyID int, firstName string) (FamilyMember, error) {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" || utf8.RuneCountInString(firstName) > maxNameLen {
		return FamilyMember{}, ErrInvalidName
	}

	existing, err := s.repo.ListByFamily(ctx, familyID)
	if err != nil {
		return FamilyMember{}, fmt.Errorf("list members: %w", err)
	}
	p := palettes[len(existing)%len(palettes)]

	m, err := s.repo.Create(ctx, familyID, FamilyMember{
		FirstName: firstName,
		Color:     p.Color,
		TextColor: p.TextColor,
	})
	if err != nil {
		return FamilyMember{}, fmt.Errorf("create member: %w", err)
	}

	m.TokenKey, err = s.tokens.IssueMember(m.ID, familyID)
	if err != nil {
		return FamilyMember{}, fmt.Errorf("issue member token: %w", err)
	}

	s.log.Info("участник добавлен", "family_id", familyID, "member_id", m.ID)
	return m, nil
}
