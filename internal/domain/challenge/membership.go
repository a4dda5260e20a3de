package challenge

import (
	"fmt"
	"time"
)

// Status участие семьи в челлендже с точки зрения участника
type Status int

const (
	StatusNotJoined Status = iota
	StatusJoined
	StatusActive
	StatusCompleted
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusNotJoined:
		return "not_joined"
	case StatusJoined:
		return "joined"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusExpired:
		return "expired"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal завершенное и просроченное участие не меняются
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// Event событие, меняющее статус участия
type Event int

const (
	EventJoin Event = iota
	EventStart
	EventLeave
	EventComplete
	EventExpire
)

func (e Event) String() string {
	switch e {
	case EventJoin:
		return "join"
	case EventStart:
		return "start"
	case EventLeave:
		return "leave"
	case EventComplete:
		return "complete"
	case EventExpire:
		return "expire"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Apply переход NotJoined -> Joined -> Active -> Completed|Expired; выход возвращает в NotJoined
func (s Status) Apply(e Event) (Status, error) {
	switch {
	case s == StatusNotJoined && e == EventJoin:
		return StatusJoined, nil
	case s == StatusJoined && e == EventStart:
		return StatusActive, nil
	case (s == StatusJoined || s == StatusActive) && e == EventLeave:
		return StatusNotJoined, nil
	case s == StatusActive && e == EventComplete:
		return StatusCompleted, nil
	case (s == StatusJoined || s == StatusActive) && e == EventExpire:
		return StatusExpired, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}

// DeriveStatus статус участия по снимку челленджа и сумме шагов семьи
func DeriveStatus(c Challenge, familyTotalSteps int, now time.Time) Status {
	if !c.CurrentlyInChallenge && c.JoinedAt.IsZero() {
		return StatusNotJoined
	}
	if ComputeProgress(c, familyTotalSteps) >= 100 {
		return StatusCompleted
	}
	if c.IsExpired(now) {
		return StatusExpired
	}
	if !c.JoinedAt.IsZero() && now.Before(c.JoinedAt) {
		return StatusJoined
	}
	return StatusActive
}
