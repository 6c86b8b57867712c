package history

import (
	"errors"
	"strings"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/pkg/errs"
	"pickingpacking/internal/pkg/guard"
)

// ErrEntryIsNotConstructed is returned when an Entry was not created through
// NewEntry or RestoreEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Entry is one immutable line of an order's audit trail. Entries are written
// for every transition attempt, successful or not, so statusBefore and
// statusAfter are equal for rejected events.
type Entry struct {
	id           kernel.UUID
	orderID      kernel.UUID
	created      kernel.Stamp
	description  string
	statusBefore order.Status
	statusAfter  order.Status
	eventID      *kernel.UUID
	guard        guard.ConstructorGuard
}

// NewEntry creates a history entry.
//
// Parameters:
//   - id: unique identifier of the entry
//   - orderID: the order the entry belongs to
//   - created: stamp issued by the clock, orders entries of one order
//   - description: human readable account of what happened (required)
//   - before, after: order status around the attempt
//   - eventID: the event that caused the attempt, nil for direct session operations
func NewEntry(
	id, orderID kernel.UUID,
	created kernel.Stamp,
	description string,
	before, after order.Status,
	eventID *kernel.UUID,
) (*Entry, error) {
	e := &Entry{
		id:           id,
		orderID:      orderID,
		created:      created,
		description:  strings.TrimSpace(description),
		statusBefore: before,
		statusAfter:  after,
		guard:        guard.NewConstructorGuard(),
	}

	var eventErr error
	if eventID != nil {
		eventErr = eventID.Validate()
		evt := *eventID
		e.eventID = &evt
	}

	var descErr error
	if e.description == "" {
		descErr = errs.NewValueIsRequiredError("description")
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		created.Validate(),
		descErr,
		before.Validate(),
		after.Validate(),
		eventErr,
	); err != nil {
		return nil, err
	}
	return e, nil
}

// RestoreEntry reconstructs an entry from persistent storage.
func RestoreEntry(
	id, orderID kernel.UUID,
	created kernel.Stamp,
	description string,
	before, after order.Status,
	eventID *kernel.UUID,
) (*Entry, error) {
	return NewEntry(id, orderID, created, description, before, after, eventID)
}

func (e *Entry) ID() kernel.UUID {
	return e.id
}

func (e *Entry) OrderID() kernel.UUID {
	return e.orderID
}

func (e *Entry) Created() kernel.Stamp {
	return e.created
}

func (e *Entry) Description() string {
	return e.description
}

func (e *Entry) StatusBefore() order.Status {
	return e.statusBefore
}

func (e *Entry) StatusAfter() order.Status {
	return e.statusAfter
}

func (e *Entry) EventID() *kernel.UUID {
	return e.eventID
}

// IsTransition reports whether the attempt changed the order status.
func (e *Entry) IsTransition() bool {
	return e.statusBefore != e.statusAfter
}

// Compare orders entries by their creation stamp.
func (e *Entry) Compare(other *Entry) int {
	return e.created.Compare(other.created)
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}
