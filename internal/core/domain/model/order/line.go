package order

import (
	"errors"
	"fmt"
	"strings"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
	"pickingpacking/internal/pkg/guard"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// ErrLineIsNotConstructed is returned when a Line was not created through
// NewLine or RestoreLine.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Line is one product position of an order. Lines belong to exactly one Order
// and are only mutated through it.
//
// Invariants:
//   - product name is non-empty and stored in Unicode NFC form, so the same
//     product typed by two marketplaces compares equal
//   - quantity is strictly positive and may be fractional (e.g. 1.5 kg)
//   - shelf location is not negative
//   - status only moves forward (see LineStatus)
type Line struct {
	id          kernel.UUID
	productName string
	quantity    decimal.Decimal
	location    int
	barcode     string
	status      LineStatus
	guard       guard.ConstructorGuard
}

// NewLine creates a line in LineNew status.
//
// Parameters:
//   - id: unique identifier of the line
//   - productName: product label as received from the connector
//   - quantity: amount to pick, strictly positive
//   - location: shelf number the picker walks to
//   - barcode: product barcode, may be empty when the marketplace has none
//
// Returns:
//   - *Line: the created line
//   - error: aggregated validation errors
//
// Example:
//
//	line, err := order.NewLine(kernel.NewUUID(), "Espresso beans 1kg", decimal.NewFromInt(2), 14, "4006381333931")
func NewLine(id kernel.UUID, productName string, quantity decimal.Decimal, location int, barcode string) (*Line, error) {
	return RestoreLine(id, productName, quantity, location, barcode, LineNew)
}

// RestoreLine rebuilds a line loaded from storage.
func RestoreLine(
	id kernel.UUID,
	productName string,
	quantity decimal.Decimal,
	location int,
	barcode string,
	status LineStatus,
) (*Line, error) {
	line := &Line{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		line.setID(id),
		line.setProductName(productName),
		line.setQuantity(quantity),
		line.setLocation(location),
		line.setBarcode(barcode),
		line.setStatus(status),
	); err != nil {
		return nil, err
	}

	return line, nil
}

func (l *Line) ID() kernel.UUID {
	return l.id
}

func (l *Line) ProductName() string {
	return l.productName
}

func (l *Line) Quantity() decimal.Decimal {
	return l.quantity
}

func (l *Line) Location() int {
	return l.location
}

func (l *Line) Barcode() string {
	return l.barcode
}

func (l *Line) Status() LineStatus {
	return l.status
}

// Validate ensures the line was built by its constructor.
func (l *Line) Validate() error {
	if l == nil {
		return ErrLineIsNotConstructed
	}
	return l.guard.Validate(ErrLineIsNotConstructed)
}

func (l *Line) pick() error {
	next, err := l.status.Pick()
	if err != nil {
		return fmt.Errorf("line %s: %w", l.id, err)
	}
	l.status = next
	return nil
}

func (l *Line) pack() error {
	next, err := l.status.Pack()
	if err != nil {
		return fmt.Errorf("line %s: %w", l.id, err)
	}
	l.status = next
	return nil
}

func (l *Line) clone() *Line {
	c := *l
	return &c
}

func (l *Line) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Line) setProductName(name string) error {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	l.productName = name
	return nil
}

func (l *Line) setQuantity(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%s is not greater than 0", quantity))
	}
	l.quantity = quantity
	return nil
}

func (l *Line) setLocation(location int) error {
	if location < 0 {
		return errs.NewValueIsInvalidErrorWithCause("location", fmt.Errorf("%d is negative", location))
	}
	l.location = location
	return nil
}

func (l *Line) setBarcode(barcode string) error {
	barcode = norm.NFC.String(strings.TrimSpace(barcode))
	if strings.ContainsAny(barcode, " \t\n") {
		return errs.NewValueIsInvalidErrorWithCause("barcode", fmt.Errorf("%q contains whitespace", barcode))
	}
	l.barcode = barcode
	return nil
}

func (l *Line) setStatus(status LineStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	l.status = status
	return nil
}
