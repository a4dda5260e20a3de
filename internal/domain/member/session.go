package member

import "sync"

// Session активный аккаунт и выбранный участник семьи.
// Передается явно во все компоненты, которым нужны учетные данные
type Session struct {
	mu           sync.RWMutex
	accountToken string
	active       *FamilyMember
}

func NewSession() *Session {
	return &Session{}
}

// SetAccountToken задает токен аккаунта семьи
func (s *Session) SetAccountToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountToken = token
}

// AccountToken токен аккаунта или ErrNotAuthenticated
func (s *Session) AccountToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.accountToken == "" {
		return "", ErrNotAuthenticated
	}
	return s.accountToken, nil
}

// Select делает участника активным. Последующие запросы идут с его токеном
func (s *Session) Select(m FamilyMember) error {
	if m.TokenKey == "" {
		return ErrNoMemberToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = &m
	return nil
}

// Active выбранный участник
func (s *Session) Active() (FamilyMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return FamilyMember{}, false
	}
	return *s.active, true
}

// Credentials снимок учетных данных на момент вызова
func (s *Session) Credentials() (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.accountToken == "" {
		return Credentials{}, ErrNotAuthenticated
	}
	if s.active == nil {
		return Credentials{}, ErrNoActiveMember
	}
	return Credentials{
		AccountToken: s.accountToken,
		MemberToken:  s.active.TokenKey,
		MemberID:     s.active.ID,
	}, nil
}

// CredentialsFor снимок учетных данных, если активен участник memberID
func (s *Session) CredentialsFor(memberID int) (Credentials, error) {
	creds, err := s.Credentials()
	if err != nil {
		return Credentials{}, err
	}
	if creds.MemberID != memberID {
		return Credentials{}, ErrMemberChanged
	}
	return creds, nil
}

// Clear забывает аккаунт и участника
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountToken = ""
	s.active = nil
}
