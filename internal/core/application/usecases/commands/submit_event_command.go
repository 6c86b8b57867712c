package commands

import (
	"errors"
	"slices"

	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/guard"
)

var ErrSubmitEventCommandIsNotConstructed = errors.New(
	"SubmitEventCommand must be created via NewSubmitEventCommand constructor",
)

// SubmitEventCommand enqueues an operational event against an order.
//
// Example:
//
//	cmd, err := NewSubmitEventCommand(kernel.NewUUID(), orderID, event.Cancel, 100, nil)
type SubmitEventCommand struct { //nolint:recvcheck //using for validation
	eventID   kernel.UUID
	orderID   kernel.UUID
	eventType event.Type
	priority  int
	payload   []byte

	guard guard.ConstructorGuard
}

// NewSubmitEventCommand validates identifiers and the event type. The payload
// is opaque here; it is interpreted when the event is applied.
func NewSubmitEventCommand(
	eventID, orderID kernel.UUID,
	eventType event.Type,
	priority int,
	payload []byte,
) (SubmitEventCommand, error) {
	if err := errors.Join(eventID.Validate(), orderID.Validate(), eventType.Validate()); err != nil {
		return SubmitEventCommand{}, err
	}

	return SubmitEventCommand{
		eventID:   eventID,
		orderID:   orderID,
		eventType: eventType,
		priority:  priority,
		payload:   slices.Clone(payload),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitEventCommand) Validate() error {
	return c.guard.Validate(ErrSubmitEventCommandIsNotConstructed)
}

func (c SubmitEventCommand) EventID() kernel.UUID {
	return c.eventID
}

func (c SubmitEventCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitEventCommand) Type() event.Type {
	return c.eventType
}

func (c SubmitEventCommand) Priority() int {
	return c.priority
}

func (c SubmitEventCommand) Payload() []byte {
	return c.payload
}
