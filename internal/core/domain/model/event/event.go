package event

import (
	"errors"
	"fmt"
	"slices"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/pkg/guard"
)

var (
	// ErrEventIsNotConstructed is returned when an Event was not created through
	// NewEvent or RestoreEvent.
	ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

	// ErrEventAlreadyProcessed is returned when completing an event twice.
	ErrEventAlreadyProcessed = errors.New("event already processed")
)

// Event is a prioritized operational instruction against one order.
//
// Invariants:
//   - An event is consumed exactly once: Complete stamps a result and a
//     processed stamp, after which the event is immutable
//   - Ordering among pending events is (-priority, created-at, sequence)
type Event struct {
	id        kernel.UUID
	orderID   kernel.UUID
	typ       Type
	priority  int
	payload   []byte
	created   kernel.Stamp
	result    *Result
	processed *kernel.Stamp
	guard     guard.ConstructorGuard
}

// Snapshot carries every persisted attribute of an event.
type Snapshot struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Type      Type
	Priority  int
	Payload   []byte
	Created   kernel.Stamp
	Result    *Result
	Processed *kernel.Stamp
}

// NewEvent creates a pending event.
//
// Parameters:
//   - id: unique identifier of the event
//   - orderID: the order the event targets
//   - typ: the event type
//   - priority: higher values are processed first
//   - payload: opaque bytes, interpreted by the controller for session assignments
//   - created: creation stamp issued by the clock
//
// Example:
//
//	stamp, _ := clock.Next()
//	evt, err := event.NewEvent(kernel.NewUUID(), orderID, event.Cancel, 10, nil, stamp)
func NewEvent(id, orderID kernel.UUID, typ Type, priority int, payload []byte, created kernel.Stamp) (*Event, error) {
	return RestoreEvent(Snapshot{
		ID:       id,
		OrderID:  orderID,
		Type:     typ,
		Priority: priority,
		Payload:  payload,
		Created:  created,
	})
}

// RestoreEvent reconstructs an event from persistent storage.
func RestoreEvent(s Snapshot) (*Event, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.Type.Validate(),
		s.Created.Validate(),
	); err != nil {
		return nil, err
	}
	if (s.Result == nil) != (s.Processed == nil) {
		return nil, fmt.Errorf("event %s: result and processed stamp must be set together", s.ID)
	}
	if s.Result != nil {
		if err := errors.Join(s.Result.Code.Validate(), s.Processed.Validate()); err != nil {
			return nil, err
		}
	}

	e := &Event{
		id:       s.ID,
		orderID:  s.OrderID,
		typ:      s.Type,
		priority: s.Priority,
		payload:  slices.Clone(s.Payload),
		created:  s.Created,
		guard:    guard.NewConstructorGuard(),
	}
	if s.Result != nil {
		r, p := *s.Result, *s.Processed
		e.result, e.processed = &r, &p
	}
	return e, nil
}

func (e *Event) ID() kernel.UUID {
	return e.id
}

func (e *Event) OrderID() kernel.UUID {
	return e.orderID
}

func (e *Event) Type() Type {
	return e.typ
}

func (e *Event) Priority() int {
	return e.priority
}

// Payload returns a copy of the raw payload.
func (e *Event) Payload() []byte {
	return slices.Clone(e.payload)
}

func (e *Event) Created() kernel.Stamp {
	return e.created
}

// Result returns the outcome, nil while pending.
func (e *Event) Result() *Result {
	return e.result
}

// Processed returns the stamp at which the event was consumed, nil while pending.
func (e *Event) Processed() *kernel.Stamp {
	return e.processed
}

func (e *Event) IsPending() bool {
	return e.result == nil
}

// IsEligibleFor reports whether the controller may consume the event now.
//
// A pending event of an active order is not eligible when:
//   - the order is on hold and the event is not a CONTINUE
//   - the order has not reached the earliest status the
//     event type applies in (a packing assignment before picking completed)
//
// Every other pending event is eligible: it is either applied or rejected with
// an InvalidTransition result. Terminal orders therefore consume all their
// remaining events.
func (e *Event) IsEligibleFor(o *order.Order) bool {
	if !e.IsPending() || !e.orderID.IsEqual(o.ID()) {
		return false
	}
	status := o.Status()
	if status.IsTerminal() {
		return true
	}
	if o.IsOnHold() && e.typ != Continue {
		return false
	}
	return !status.Precedes(e.typ.EarliestStatus())
}

// Complete consumes the event.
//
// Returns:
//   - ErrEventAlreadyProcessed if the event was consumed before
func (e *Event) Complete(result Result, processed kernel.Stamp) error {
	if !e.IsPending() {
		return fmt.Errorf("%w: %s", ErrEventAlreadyProcessed, e.id)
	}
	if err := errors.Join(result.Code.Validate(), processed.Validate()); err != nil {
		return err
	}
	e.result = &result
	e.processed = &processed
	return nil
}

// Clone returns a copy that can be mutated independently.
func (e *Event) Clone() *Event {
	c := *e
	c.payload = slices.Clone(e.payload)
	if e.result != nil {
		r := *e.result
		c.result = &r
	}
	if e.processed != nil {
		p := *e.processed
		c.processed = &p
	}
	return &c
}

// Validate ensures the event was built by its constructor.
func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

// Compare orders events by descending priority, then ascending creation stamp.
// It is the queue order and is total for events from one clock.
func Compare(a, b *Event) int {
	if a.priority != b.priority {
		if a.priority > b.priority {
			return -1
		}
		return 1
	}
	return a.created.Compare(b.created)
}
