package session

import (
	"errors"
	"fmt"

	"pickingpacking/internal/pkg/errs"
)

// ErrInvalidTransition is returned when a session operation does not match its
// current status.
var ErrInvalidTransition = errors.New("invalid session transition")

// Status is the lifecycle of a picking or packing session.
//
//	InProgress <──> Paused
//	    │             │
//	    ├──> Completed │
//	    └──> Canceled <┘
//
// Completed and Canceled are terminal. InProgress and Paused are the active
// statuses: a session in either of them holds its resource.
type Status int

const (
	UnknownStatus Status = iota
	InProgress
	Completed
	Canceled
	Paused
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "UNKNOWN",
		InProgress:    "IN_PROGRESS",
		Completed:     "COMPLETED",
		Canceled:      "CANCELED",
		Paused:        "PAUSED",
	}
}

// ParseStatus converts the wire name of a status back to its value.
func ParseStatus(name string) (Status, error) {
	for s, str := range getStatusStrings() {
		if s != UnknownStatus && str == name {
			return s, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a session status", name))
}

func (s Status) Validate() error {
	if s <= UnknownStatus || s > Paused {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a session status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsActive reports whether a session in this status holds its resource.
func (s Status) IsActive() bool {
	return s == InProgress || s == Paused
}

// Pause moves InProgress to Paused.
func (s Status) Pause() (Status, error) {
	return s.transition("pause", Paused, InProgress)
}

// Resume moves Paused to InProgress.
func (s Status) Resume() (Status, error) {
	return s.transition("resume", InProgress, Paused)
}

// Complete moves InProgress to Completed.
func (s Status) Complete() (Status, error) {
	return s.transition("complete", Completed, InProgress)
}

// Cancel moves an active session to Canceled.
func (s Status) Cancel() (Status, error) {
	return s.transition("cancel", Canceled, InProgress, Paused)
}

func (s Status) transition(action string, target Status, allowedFrom ...Status) (Status, error) {
	for _, from := range allowedFrom {
		if s == from {
			return target, nil
		}
	}
	return s, fmt.Errorf("%w: cannot %s a %s session", ErrInvalidTransition, action, s)
}
