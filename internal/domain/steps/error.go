package steps

import "errors"

var (
	ErrInvalidSteps   = errors.New("invalid steps value")
	ErrInvalidGoal    = errors.New("daily goal must be positive")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidRange   = errors.New("invalid date range")
	ErrNoData         = errors.New("no step data")
	ErrForeignMember  = errors.New("member does not belong to family")
	ErrMemberNotFound = errors.New("member not found")
	ErrDayClosed      = errors.New("day is closed for changes")
	ErrNotSeeded      = errors.New("today's steps are not loaded from server")
)
