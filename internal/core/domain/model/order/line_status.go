package order

import (
	"errors"
	"fmt"

	"pickingpacking/internal/pkg/errs"
)

// ErrOutOfSequenceLineUpdate is returned when a line is advanced out of order,
// for example packed before it was picked or picked twice.
var ErrOutOfSequenceLineUpdate = errors.New("out-of-sequence line update")

// LineStatus is the progress of a single order line. It only moves forward:
//
//	LineNew ──> LinePicked ──> LinePacked
type LineStatus int

const (
	// LineUnknown represents an invalid or undefined line status.
	LineUnknown LineStatus = iota

	// LineNew is the status of a line that has not been picked yet.
	LineNew

	// LinePicked means a picking session collected the item.
	LinePicked

	// LinePacked means a packing session packed the item.
	LinePacked
)

func getLineStatusStrings() map[LineStatus]string {
	return map[LineStatus]string{
		LineUnknown: "UNKNOWN",
		LineNew:     "NEW_ORDER",
		LinePicked:  "PICKED",
		LinePacked:  "PACKED",
	}
}

// ParseLineStatus converts the wire name of a line status back to its value.
func ParseLineStatus(name string) (LineStatus, error) {
	for s, str := range getLineStatusStrings() {
		if s != LineUnknown && str == name {
			return s, nil
		}
	}
	return LineUnknown, errs.NewValueIsInvalidErrorWithCause("line status is invalid", fmt.Errorf("%q is not a valid line status", name))
}

// Validate checks if the LineStatus value is one of the defined statuses.
func (s LineStatus) Validate() error {
	if s <= LineUnknown || s > LinePacked {
		return errs.NewValueIsInvalidErrorWithCause("line status is invalid", fmt.Errorf("%d is not a valid line status", s))
	}
	return nil
}

// String returns the wire name of the line status.
func (s LineStatus) String() string {
	if str, ok := getLineStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Pick moves LineNew to LinePicked.
func (s LineStatus) Pick() (LineStatus, error) {
	if s != LineNew {
		return s, fmt.Errorf("%w: cannot pick a line in %s", ErrOutOfSequenceLineUpdate, s)
	}
	return LinePicked, nil
}

// Pack moves LinePicked to LinePacked.
func (s LineStatus) Pack() (LineStatus, error) {
	if s != LinePicked {
		return s, fmt.Errorf("%w: cannot pack a line in %s", ErrOutOfSequenceLineUpdate, s)
	}
	return LinePacked, nil
}

// Reached reports whether the line is at or past target.
func (s LineStatus) Reached(target LineStatus) bool {
	return s >= target
}
