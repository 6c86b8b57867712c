package connector

import (
	"errors"
	"fmt"
	"strings"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
	"pickingpacking/internal/pkg/guard"
)

// ErrConnectorIsNotConstructed is returned when a Connector was not created
// through NewConnector or RestoreConnector.
var ErrConnectorIsNotConstructed = errors.New("Connector must be created via NewConnector constructor")

// Status is the synchronization state reported by a marketplace connector.
type Status int

const (
	UnknownStatus Status = iota
	Running
	Stopped
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "UNKNOWN",
		Running:       "RUNNING",
		Stopped:       "STOPPED",
		Failed:        "FAILED",
	}
}

// ParseStatus converts the stored name of a status back to its value.
func ParseStatus(name string) (Status, error) {
	for s, str := range getStatusStrings() {
		if s != UnknownStatus && str == name {
			return s, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a connector status", name))
}

func (s Status) Validate() error {
	if s <= UnknownStatus || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a connector status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Command is the requested state of a connector.
type Command int

const (
	UnknownCommand Command = iota
	Run
	Stop
)

func getCommandStrings() map[Command]string {
	return map[Command]string{
		UnknownCommand: "UNKNOWN",
		Run:            "RUN",
		Stop:           "STOP",
	}
}

// ParseCommand converts the stored name of a command back to its value.
func ParseCommand(name string) (Command, error) {
	for c, str := range getCommandStrings() {
		if c != UnknownCommand && str == name {
			return c, nil
		}
	}
	return UnknownCommand, errs.NewValueIsInvalidErrorWithCause("command is invalid", fmt.Errorf("%q is not a connector command", name))
}

func (c Command) Validate() error {
	if c != Run && c != Stop {
		return errs.NewValueIsInvalidErrorWithCause("command is invalid", fmt.Errorf("%d is not a connector command", c))
	}
	return nil
}

func (c Command) String() string {
	if str, ok := getCommandStrings()[c]; ok {
		return str
	}
	return "UNKNOWN"
}

// Connector is a marketplace integration orders are ingested from. The core
// only reads it; synchronization runs outside this module.
type Connector struct {
	id      kernel.UUID
	name    string
	status  Status
	command Command
	guard   guard.ConstructorGuard
}

// NewConnector registers a connector in STOPPED state with a STOP command.
//
// Example:
//
//	c, err := connector.NewConnector(kernel.NewUUID(), "amazon-eu")
func NewConnector(id kernel.UUID, name string) (*Connector, error) {
	return RestoreConnector(id, name, Stopped, Stop)
}

// RestoreConnector reconstructs a connector from persistent storage.
func RestoreConnector(id kernel.UUID, name string, status Status, command Command) (*Connector, error) {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}

	if err := errors.Join(id.Validate(), nameErr, status.Validate(), command.Validate()); err != nil {
		return nil, err
	}

	return &Connector{
		id:      id,
		name:    name,
		status:  status,
		command: command,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c *Connector) ID() kernel.UUID {
	return c.id
}

func (c *Connector) Name() string {
	return c.name
}

func (c *Connector) Status() Status {
	return c.status
}

func (c *Connector) Command() Command {
	return c.command
}

func (c *Connector) Validate() error {
	if c == nil {
		return ErrConnectorIsNotConstructed
	}
	return c.guard.Validate(ErrConnectorIsNotConstructed)
}
