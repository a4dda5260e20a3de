package member

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoActiveMember   = errors.New("no active member selected")
	ErrNoMemberToken    = errors.New("member has no token")
	ErrMemberChanged    = errors.New("active member changed")
	ErrNotFound         = errors.New("member not found")
	ErrInvalidName      = errors.New("invalid member name")
)
