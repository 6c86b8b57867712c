package order

import (
	"errors"
	"fmt"

	"pickingpacking/internal/pkg/errs"
)

// ErrInvalidTransition is returned whenever a trigger does not match the guard
// of the order's current status. The order is left unchanged.
var ErrInvalidTransition = errors.New("invalid transition")

// Status represents the fulfillment lifecycle state of an order.
//
// State transitions:
//
//	New ──> PickingInProgress ──> PickingCompleted ──> PackingInProgress ──> Shipped
//	   ^               │                      ^                    │
//	   └───────────────┘                      └────────────────────┘
//	  (picking session canceled)           (packing session canceled)
//
//	any non-terminal status ──> Canceled
//
// Shipped and Canceled are terminal. PickingCompleted and Shipped are never
// requested directly: they are derived from the line statuses after each step.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// New is the status of an ingested order waiting for a picking session.
	New

	// PickingInProgress means a picking session holds a cart for the order.
	PickingInProgress

	// PickingCompleted means every line has been picked; the order waits for
	// a packing session.
	PickingCompleted

	// PackingInProgress means a packing session holds a station for the order.
	PackingInProgress

	// Shipped means every line has been packed. Terminal.
	Shipped

	// Canceled means the order was canceled before shipment. Terminal.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "UNKNOWN",
		New:               "NEW_ORDER",
		PickingInProgress: "PICKING_IN_PROGRESS",
		PickingCompleted:  "PICKING_COMPLETED",
		PackingInProgress: "PACKING_IN_PROGRESS",
		Shipped:           "SHIPPED",
		Canceled:          "CANCELED",
	}
}

// ParseStatus converts the wire name of a status back to its value.
//
// Example:
//
//	s, err := order.ParseStatus("PICKING_COMPLETED")
func ParseStatus(name string) (Status, error) {
	for s, str := range getStatusStrings() {
		if s != Unknown && str == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", name))
}

// Validate checks if the Status value is one of the defined statuses.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is Unknown or out of range
func (s Status) Validate() error {
	if s <= Unknown || s > Canceled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Shipped || s == Canceled
}

// Precedes reports whether s comes strictly before other on the forward
// lifecycle path. Canceled is not on that path and precedes nothing.
func (s Status) Precedes(other Status) bool {
	if s == Canceled || other == Canceled {
		return false
	}
	return s < other
}

// StartPicking moves New to PickingInProgress.
func (s Status) StartPicking() (Status, error) {
	return s.transition("start picking", PickingInProgress, New)
}

// CompletePicking moves PickingInProgress to PickingCompleted.
func (s Status) CompletePicking() (Status, error) {
	return s.transition("complete picking", PickingCompleted, PickingInProgress)
}

// StartPacking moves PickingCompleted to PackingInProgress.
func (s Status) StartPacking() (Status, error) {
	return s.transition("start packing", PackingInProgress, PickingCompleted)
}

// Ship moves PackingInProgress to Shipped.
func (s Status) Ship() (Status, error) {
	return s.transition("ship", Shipped, PackingInProgress)
}

// Cancel moves any non-terminal status to Canceled.
func (s Status) Cancel() (Status, error) {
	return s.transition("cancel", Canceled, New, PickingInProgress, PickingCompleted, PackingInProgress)
}

// AbandonPicking returns PickingInProgress to New after the picking
// session was canceled.
func (s Status) AbandonPicking() (Status, error) {
	return s.transition("abandon picking", New, PickingInProgress)
}

// AbandonPacking returns PackingInProgress to PickingCompleted after the
// packing session was canceled.
func (s Status) AbandonPacking() (Status, error) {
	return s.transition("abandon packing", PickingCompleted, PackingInProgress)
}

func (s Status) transition(action string, target Status, allowedFrom ...Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return s, err
	}
	for _, from := range allowedFrom {
		if s == from {
			return target, nil
		}
	}
	return s, fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, s)
}
