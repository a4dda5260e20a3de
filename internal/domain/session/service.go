package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

const (
	KindAccount = "account"
	KindMember  = "member"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims содержимое токена аккаунта или участника
type Claims struct {
	UserID   int    `json:"uid,omitempty"`
	FamilyID int    `json:"fid"`
	MemberID int    `json:"mid,omitempty"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

type Servicer interface {
	// Create выдает токен аккаунта после входа
	Create(ctx context.Context, userID, familyID int) (string, error)
	// Validate проверяет токен аккаунта
	Validate(ctx context.Context, token string) (*Claims, error)
	IssueMember(memberID, familyID int) (string, error)
	ResolveMember(ctx context.Context, token string) (memberID, familyID int, err error)
}

type Service struct {
	secret     []byte
	accountTTL time.Duration
	memberTTL  time.Duration
	log        *slog.Logger
	now        func() time.Time
}

func NewService(secret string, accountTTL, memberTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		secret:     []byte(secret),
		accountTTL: accountTTL,
		memberTTL:  memberTTL,
		log:        log,
		now:        time.Now,
	}
}

func (s *Service) Create(_ context.Context, userID, familyID int) (string, error) {
	token, err := s.sign(Claims{UserID: userID, FamilyID: familyID, Kind: KindAccount}, s.accountTTL)
	if err != nil {
		return "", fmt.Errorf("sign account token: %w", err)
	}
	return token, nil
}

func (s *Service) Validate(_ context.Context, token string) (*Claims, error) {
	return s.parse(token, KindAccount)
}

func (s *Service) IssueMember(memberID, familyID int) (string, error) {
	token, err := s.sign(Claims{MemberID: memberID, FamilyID: familyID, Kind: KindMember}, s.memberTTL)
	if err != nil {
		return "", fmt.Errorf("sign member token: %w", err)
	}
	return token, nil
}

func (s *Service) ResolveMember(_ context.Context, token string) (int, int, error) {
	claims, err := s.parse(token, KindMember)
	if err != nil {
		return 0, 0, err
	}
	return claims.MemberID, claims.FamilyID, nil
}

func (s *Service) sign(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) parse(token, kind string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidToken, claims.Kind)
	}
	return claims, nil
}

// ExpiresAt срок действия токена без проверки подписи.
// false, если токен не JWT или срок не указан
func ExpiresAt(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
