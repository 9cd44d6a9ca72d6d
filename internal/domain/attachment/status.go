package attachment

import "errors"

// Status is the lifecycle of one photo identity.
type Status string

const (
	StatusUnattempted Status = "unattempted"
	StatusAttached    Status = "attached" // terminal
)

// ErrInvalidTransition is returned when a status transition is not allowed.
var ErrInvalidTransition = errors.New("invalid attachment status transition")

// ValidTransitions defines allowed status transitions.
var ValidTransitions = map[Status][]Status{
	StatusUnattempted: {StatusAttached},
	StatusAttached:    {},
}

// IsTerminal returns true if no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusAttached
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current status to target status is valid.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range ValidTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target status.
// Re-entering attached from attached is reported as ErrAlreadyAttached.
func (s Status) TransitionTo(target Status) (Status, error) {
	if s == StatusAttached && target == StatusAttached {
		return s, ErrAlreadyAttached
	}
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}
