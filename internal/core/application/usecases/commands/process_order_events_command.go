package commands

import (
	"errors"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/guard"
)

var ErrProcessOrderEventsCommandIsNotConstructed = errors.New(
	"ProcessOrderEventsCommand must be created via NewProcessOrderEventsCommand constructor",
)

// ProcessOrderEventsCommand drains the eligible events of one order.
type ProcessOrderEventsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewProcessOrderEventsCommand(orderID kernel.UUID) (ProcessOrderEventsCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ProcessOrderEventsCommand{}, err
	}
	return ProcessOrderEventsCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ProcessOrderEventsCommand) Validate() error {
	return c.guard.Validate(ErrProcessOrderEventsCommandIsNotConstructed)
}

func (c ProcessOrderEventsCommand) OrderID() kernel.UUID {
	return c.orderID
}
