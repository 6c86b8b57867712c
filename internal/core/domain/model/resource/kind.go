package resource

import (
	"fmt"

	"pickingpacking/internal/pkg/errs"
)

// Kind distinguishes the two kinds of leasable warehouse assets.
type Kind int

const (
	UnknownKind Kind = iota
	PickCart
	PackingStation
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		UnknownKind:    "UNKNOWN",
		PickCart:       "PICK_CART",
		PackingStation: "PACKING_STATION",
	}
}

// ParseKind converts the wire name of a kind back to its value.
func ParseKind(name string) (Kind, error) {
	for k, str := range getKindStrings() {
		if k != UnknownKind && str == name {
			return k, nil
		}
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("kind is invalid", fmt.Errorf("%q is not a resource kind", name))
}

func (k Kind) Validate() error {
	if k != PickCart && k != PackingStation {
		return errs.NewValueIsInvalidErrorWithCause("kind is invalid", fmt.Errorf("%d is not a resource kind", k))
	}
	return nil
}

func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "UNKNOWN"
}
