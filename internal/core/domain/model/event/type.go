package event

import (
	"fmt"

	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/pkg/errs"
)

// Type is the closed set of operational events an actor can submit.
type Type int

const (
	UnknownType Type = iota
	Cancel
	PickingSessionAssignment
	PackingSessionAssignment
	PackingPreparation
	Hold
	Continue
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		UnknownType:              "UNKNOWN",
		Cancel:                   "CANCEL",
		PickingSessionAssignment: "PICKING_SESSION_ASSIGNMENT",
		PackingSessionAssignment: "PACKING_SESSION_ASSIGNMENT",
		PackingPreparation:       "PACKING_PREPARATION",
		Hold:                     "HOLD",
		Continue:                 "CONTINUE",
	}
}

// ParseType converts the wire name of an event type back to its value.
func ParseType(name string) (Type, error) {
	for t, str := range getTypeStrings() {
		if t != UnknownType && str == name {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("type is invalid", fmt.Errorf("%q is not an event type", name))
}

func (t Type) Validate() error {
	if t <= UnknownType || t > Continue {
		return errs.NewValueIsInvalidErrorWithCause("type is invalid", fmt.Errorf("%d is not an event type", t))
	}
	return nil
}

func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "UNKNOWN"
}

// EarliestStatus is the first order status in which an event of this type can
// apply. Before it the event is premature and stays queued.
func (t Type) EarliestStatus() order.Status {
	switch t {
	case PackingSessionAssignment, PackingPreparation:
		return order.PickingCompleted
	default:
		return order.New
	}
}
