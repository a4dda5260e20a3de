package challenge

import "errors"

var (
	ErrNotFound           = errors.New("challenge not found")
	ErrNoActiveChallenge  = errors.New("no active challenge")
	ErrAlreadyInChallenge = errors.New("family already has an active challenge")
	ErrNotJoined          = errors.New("family has not joined this challenge")
	ErrUnknownTab         = errors.New("unknown tab")
	ErrHistoryBusy        = errors.New("history page is already loading")
	ErrInvalidTransition  = errors.New("invalid membership transition")
	ErrInvalidPage        = errors.New("page must be positive")
)
