package session

import (
	"fmt"

	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/pkg/errs"
)

// Kind discriminates picking from packing sessions.
type Kind int

const (
	UnknownKind Kind = iota
	Picking
	Packing
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		UnknownKind: "UNKNOWN",
		Picking:     "PICKING",
		Packing:     "PACKING",
	}
}

// ParseKind converts the wire name of a kind back to its value.
func ParseKind(name string) (Kind, error) {
	for k, str := range getKindStrings() {
		if k != UnknownKind && str == name {
			return k, nil
		}
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("kind is invalid", fmt.Errorf("%q is not a session kind", name))
}

func (k Kind) Validate() error {
	if k != Picking && k != Packing {
		return errs.NewValueIsInvalidErrorWithCause("kind is invalid", fmt.Errorf("%d is not a session kind", k))
	}
	return nil
}

func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "UNKNOWN"
}

// ResourceKind returns the kind of resource a session of this kind leases.
func (k Kind) ResourceKind() resource.Kind {
	switch k {
	case Picking:
		return resource.PickCart
	case Packing:
		return resource.PackingStation
	default:
		return resource.UnknownKind
	}
}

// TargetLineStatus returns the status a step of this kind moves a line to.
func (k Kind) TargetLineStatus() order.LineStatus {
	switch k {
	case Picking:
		return order.LinePicked
	case Packing:
		return order.LinePacked
	default:
		return order.LineUnknown
	}
}
