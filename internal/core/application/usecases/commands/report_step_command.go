package commands

import (
	"errors"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/guard"
)

var ErrReportStepCommandIsNotConstructed = errors.New(
	"ReportStepCommand must be created via NewReportStepCommand constructor",
)

// ReportStepCommand reports that the operator of a session picked or packed
// one order line.
type ReportStepCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	lineID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewReportStepCommand(sessionID, lineID kernel.UUID) (ReportStepCommand, error) {
	if err := errors.Join(sessionID.Validate(), lineID.Validate()); err != nil {
		return ReportStepCommand{}, err
	}
	return ReportStepCommand{sessionID: sessionID, lineID: lineID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReportStepCommand) Validate() error {
	return c.guard.Validate(ErrReportStepCommandIsNotConstructed)
}

func (c ReportStepCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c ReportStepCommand) LineID() kernel.UUID {
	return c.lineID
}
