package commands

import (
	"errors"
	"fmt"
	"strings"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
	"pickingpacking/internal/pkg/guard"
)

var ErrChangeSessionCommandIsNotConstructed = errors.New(
	"ChangeSessionCommand must be created via NewChangeSessionCommand constructor",
)

// SessionAction is an operator request on a running session.
type SessionAction int

const (
	UnknownSessionAction SessionAction = iota
	PauseSession
	ResumeSession
	CancelSession
	HandOffSession
)

func (a SessionAction) String() string {
	switch a {
	case PauseSession:
		return "pause"
	case ResumeSession:
		return "resume"
	case CancelSession:
		return "cancel"
	case HandOffSession:
		return "hand off"
	default:
		return "unknown"
	}
}

// ChangeSessionCommand pauses, resumes, cancels or hands off a session.
//
// Example:
//
//	cmd, err := NewChangeSessionCommand(sessionID, PauseSession, "")
//	cmd, err = NewChangeSessionCommand(sessionID, HandOffSession, "bob")
type ChangeSessionCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	action    SessionAction
	user      string

	guard guard.ConstructorGuard
}

// NewChangeSessionCommand requires a user for HandOffSession only.
func NewChangeSessionCommand(sessionID kernel.UUID, action SessionAction, user string) (ChangeSessionCommand, error) {
	user = strings.TrimSpace(user)

	var actionErr error
	switch {
	case action < PauseSession || action > HandOffSession:
		actionErr = errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a session action", action))
	case action == HandOffSession && user == "":
		actionErr = errs.NewValueIsRequiredError("user")
	}

	if err := errors.Join(sessionID.Validate(), actionErr); err != nil {
		return ChangeSessionCommand{}, err
	}

	return ChangeSessionCommand{
		sessionID: sessionID,
		action:    action,
		user:      user,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeSessionCommand) Validate() error {
	return c.guard.Validate(ErrChangeSessionCommandIsNotConstructed)
}

func (c ChangeSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c ChangeSessionCommand) Action() SessionAction {
	return c.action
}

func (c ChangeSessionCommand) User() string {
	return c.user
}
