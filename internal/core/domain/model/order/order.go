package order

import (
	"errors"
	"fmt"
	"strings"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
	"pickingpacking/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderHasNoLines is returned when a picking session is requested for an
	// order without lines.
	ErrOrderHasNoLines = fmt.Errorf("%w: order has no lines", ErrInvalidTransition)
)

// Order is the aggregate root of fulfillment. It owns its lines and enforces the
// order and line state machines; sessions, resources and events reference it by ID.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-empty remote identifier
//   - Status transitions follow the table documented on Status
//   - PickingCompleted and Shipped are derived: they are entered exactly when the
//     last line reaches LinePicked or LinePacked
//   - The hold flag never changes the status; it only suppresses event processing
//   - Session references are proper optional references, never zero placeholders
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// connectorID is the marketplace connector the order came from (nil once the
	// connector was removed)
	connectorID *kernel.UUID

	// remoteID is the order identifier in the marketplace
	remoteID string

	// shippingInfo is the free-form shipping address and carrier data
	shippingInfo string

	// status represents the current state in the order lifecycle
	status Status

	// pickingSessionID references the latest picking session (nil if none)
	pickingSessionID *kernel.UUID

	// packingSessionID references the latest packing session (nil if none)
	packingSessionID *kernel.UUID

	// cartSection is the section of the pick cart holding the order's items
	cartSection *int

	// onHold suppresses event processing until a CONTINUE event
	onHold bool

	// packingPrepared is set by a PACKING_PREPARATION event
	packingPrepared bool

	lines []*Line

	guard guard.ConstructorGuard
}

// Snapshot carries every persisted attribute of an order. Adapters fill it when
// rehydrating an order through RestoreOrder.
type Snapshot struct {
	ID               kernel.UUID
	ConnectorID      *kernel.UUID
	RemoteID         string
	ShippingInfo     string
	Status           Status
	PickingSessionID *kernel.UUID
	PackingSessionID *kernel.UUID
	CartSection      *int
	OnHold           bool
	PackingPrepared  bool
	Lines            []*Line
}

// NewOrder creates an order in New status. This is the only way to create
// a valid new Order, ensuring all business invariants are maintained.
//
// Parameters:
//   - id: unique identifier for the order
//   - connectorID: connector the order was ingested from, nil for manual orders
//   - remoteID: identifier of the order in the marketplace (required)
//   - shippingInfo: shipping address and carrier data
//   - lines: order lines, each created with NewLine; may be empty
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: aggregated validation errors
//
// Example:
//
//	line, _ := order.NewLine(kernel.NewUUID(), "Desk lamp", decimal.NewFromInt(1), 12, "")
//	o, err := order.NewOrder(kernel.NewUUID(), &connectorID, "AMZ-1001", "Main St 1", []*order.Line{line})
//	if err != nil {
//	    // Handle validation error
//	}
//
// An order without lines is accepted here; it cannot be assigned to a picking
// session until lines exist.
func NewOrder(
	id kernel.UUID,
	connectorID *kernel.UUID,
	remoteID string,
	shippingInfo string,
	lines []*Line,
) (*Order, error) {
	return RestoreOrder(Snapshot{
		ID:           id,
		ConnectorID:  connectorID,
		RemoteID:     remoteID,
		ShippingInfo: shippingInfo,
		Status:       New,
		Lines:        lines,
	})
}

// RestoreOrder reconstructs an order from persistent storage, applying the same
// field validation as NewOrder.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		onHold:          s.OnHold,
		packingPrepared: s.PackingPrepared,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setConnectorID(s.ConnectorID),
		o.setRemoteID(s.RemoteID),
		o.setStatus(s.Status),
		o.setSessionRefs(s.PickingSessionID, s.PackingSessionID),
		o.setCartSection(s.CartSection),
		o.setLines(s.Lines),
	); err != nil {
		return nil, err
	}
	o.shippingInfo = strings.TrimSpace(s.ShippingInfo)

	return o, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder
// or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ConnectorID returns the originating connector, nil if unknown.
func (o *Order) ConnectorID() *kernel.UUID {
	return o.connectorID
}

// RemoteID returns the marketplace identifier.
func (o *Order) RemoteID() string {
	return o.remoteID
}

// ShippingInfo returns the shipping data captured at ingestion.
func (o *Order) ShippingInfo() string {
	return o.shippingInfo
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// PickingSessionID returns the latest picking session, nil if none was assigned.
func (o *Order) PickingSessionID() *kernel.UUID {
	return o.pickingSessionID
}

// PackingSessionID returns the latest packing session, nil if none was assigned.
func (o *Order) PackingSessionID() *kernel.UUID {
	return o.packingSessionID
}

// CartSection returns the pick cart section holding the order, nil if none.
func (o *Order) CartSection() *int {
	return o.cartSection
}

// IsOnHold reports whether event processing is suppressed.
func (o *Order) IsOnHold() bool {
	return o.onHold
}

// IsPackingPrepared reports whether a PACKING_PREPARATION event was applied.
func (o *Order) IsPackingPrepared() bool {
	return o.packingPrepared
}

// Lines returns the order lines in ingestion order. The slice is a copy; the
// lines themselves must not be mutated by callers.
func (o *Order) Lines() []*Line {
	lines := make([]*Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// Line looks up a line by ID.
//
// Returns:
//   - *Line: the line
//   - error: ObjectNotFoundError if the line does not belong to the order
func (o *Order) Line(lineID kernel.UUID) (*Line, error) {
	for _, l := range o.lines {
		if l.id.IsEqual(lineID) {
			return l, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("line", lineID.String())
}

// PendingLines counts the lines that have not reached target yet. A replacement
// session only has to cover these.
func (o *Order) PendingLines(target LineStatus) int {
	pending := 0
	for _, l := range o.lines {
		if !l.status.Reached(target) {
			pending++
		}
	}
	return pending
}

// AssignPickingSession binds a picking session and moves the order to
// PickingInProgress.
//
// This method enforces the following business rules:
//   - The session ID must be valid
//   - The order must be in New status
//   - The order must have at least one line
//   - The cart section, when given, must be positive
//
// Returns:
//   - nil on success
//   - error wrapping ErrInvalidTransition if the guard fails
func (o *Order) AssignPickingSession(sessionID kernel.UUID, cartSection *int) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}
	if len(o.lines) == 0 {
		return ErrOrderHasNoLines
	}

	next, err := o.status.StartPicking()
	if err != nil {
		return err
	}
	if err = o.setCartSection(cartSection); err != nil {
		return err
	}

	o.status = next
	o.pickingSessionID = &sessionID
	return nil
}

// AssignPackingSession binds a packing session and moves the order from
// PickingCompleted to PackingInProgress.
func (o *Order) AssignPackingSession(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	next, err := o.status.StartPacking()
	if err != nil {
		return err
	}

	o.status = next
	o.packingSessionID = &sessionID
	return nil
}

// PickLine marks one line as picked and, when it was the last one, derives
// PickingCompleted.
//
// Returns:
//   - ErrInvalidTransition if the order is not in PickingInProgress
//   - ObjectNotFoundError if the line is not part of the order
//   - ErrOutOfSequenceLineUpdate if the line was already picked
func (o *Order) PickLine(lineID kernel.UUID) error {
	if o.status != PickingInProgress {
		return fmt.Errorf("%w: cannot pick lines while %s", ErrInvalidTransition, o.status)
	}

	line, err := o.Line(lineID)
	if err != nil {
		return err
	}
	if err = line.pick(); err != nil {
		return err
	}

	if o.PendingLines(LinePicked) == 0 {
		o.status, err = o.status.CompletePicking()
	}
	return err
}

// PackLine marks one line as packed and, when it was the last one, derives
// Shipped.
//
// Returns:
//   - ErrInvalidTransition if the order is not in PackingInProgress
//   - ObjectNotFoundError if the line is not part of the order
//   - ErrOutOfSequenceLineUpdate if the line is not picked or already packed
func (o *Order) PackLine(lineID kernel.UUID) error {
	if o.status != PackingInProgress {
		return fmt.Errorf("%w: cannot pack lines while %s", ErrInvalidTransition, o.status)
	}

	line, err := o.Line(lineID)
	if err != nil {
		return err
	}
	if err = line.pack(); err != nil {
		return err
	}

	if o.PendingLines(LinePacked) == 0 {
		next, err := o.status.Ship()
		if err != nil {
			return err
		}
		o.status = next
		o.onHold = false
	}
	return nil
}

// AbandonPicking returns the order to New after its picking session was
// canceled. Lines already picked keep their status.
func (o *Order) AbandonPicking() error {
	next, err := o.status.AbandonPicking()
	if err != nil {
		return err
	}
	o.status = next
	o.cartSection = nil
	return nil
}

// AbandonPacking returns the order to PickingCompleted after its packing
// session was canceled.
func (o *Order) AbandonPacking() error {
	next, err := o.status.AbandonPacking()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

// Cancel moves the order to Canceled. The caller is responsible for canceling
// the active session of the order in the same unit of work.
func (o *Order) Cancel() error {
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = next
	o.onHold = false
	return nil
}

// Hold sets the suppression flag.
//
// Returns:
//   - ErrInvalidTransition if the order is terminal or already on hold
func (o *Order) Hold() error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: cannot hold a %s order", ErrInvalidTransition, o.status)
	}
	if o.onHold {
		return fmt.Errorf("%w: order is already on hold", ErrInvalidTransition)
	}
	o.onHold = true
	return nil
}

// Continue clears the suppression flag.
//
// Returns:
//   - ErrInvalidTransition if the order is terminal or not on hold
func (o *Order) Continue() error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: cannot continue a %s order", ErrInvalidTransition, o.status)
	}
	if !o.onHold {
		return fmt.Errorf("%w: order is not on hold", ErrInvalidTransition)
	}
	o.onHold = false
	return nil
}

// PreparePacking records that the picked items were staged for packing. Only
// valid in PickingCompleted and only once.
func (o *Order) PreparePacking() error {
	if o.status != PickingCompleted {
		return fmt.Errorf("%w: cannot prepare packing while %s", ErrInvalidTransition, o.status)
	}
	if o.packingPrepared {
		return fmt.Errorf("%w: packing already prepared", ErrInvalidTransition)
	}
	o.packingPrepared = true
	return nil
}

// Clone returns a deep copy, used by stores that hand out isolated aggregates.
func (o *Order) Clone() *Order {
	c := *o
	c.lines = make([]*Line, len(o.lines))
	for i, l := range o.lines {
		c.lines[i] = l.clone()
	}
	return &c
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setConnectorID(connectorID *kernel.UUID) error {
	if connectorID != nil {
		if err := connectorID.Validate(); err != nil {
			return err
		}
	}
	o.connectorID = connectorID
	return nil
}

func (o *Order) setRemoteID(remoteID string) error {
	remoteID = strings.TrimSpace(remoteID)
	if remoteID == "" {
		return errs.NewValueIsRequiredError("remoteID")
	}
	o.remoteID = remoteID
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setSessionRefs(picking, packing *kernel.UUID) error {
	for _, ref := range []*kernel.UUID{picking, packing} {
		if ref != nil {
			if err := ref.Validate(); err != nil {
				return err
			}
		}
	}
	o.pickingSessionID = picking
	o.packingSessionID = packing
	return nil
}

func (o *Order) setCartSection(section *int) error {
	if section != nil && *section < 1 {
		return errs.NewValueIsInvalidErrorWithCause("cartSection", fmt.Errorf("%d is not greater than 0", *section))
	}
	o.cartSection = section
	return nil
}

func (o *Order) setLines(lines []*Line) error {
	seen := make(map[kernel.UUID]bool, len(lines))
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.id] {
			return errs.NewValueIsInvalidErrorWithCause("lines", fmt.Errorf("line %s appears twice", l.id))
		}
		seen[l.id] = true
	}
	o.lines = make([]*Line, len(lines))
	copy(o.lines, lines)
	return nil
}
