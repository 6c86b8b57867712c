package commands

import (
	"errors"
	"fmt"
	"strings"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/pkg/errs"
	"pickingpacking/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrIngestOrderCommandIsNotConstructed = errors.New(
	"IngestOrderCommand must be created via NewIngestOrderCommand constructor",
)

// LineInput is one order line as delivered by a connector.
type LineInput struct {
	ProductName string
	Quantity    decimal.Decimal
	Location    int
	Barcode     string
}

// IngestOrderCommand represents an external sales order to register in
// NEW_ORDER status.
//
// Example:
//
//	cmd, err := NewIngestOrderCommand(kernel.NewUUID(), &connectorID, "AMZ-1001", "Main St 1",
//	    []LineInput{{ProductName: "Desk lamp", Quantity: decimal.NewFromInt(1), Location: 12}})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type IngestOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	connectorID  *kernel.UUID
	remoteID     string
	shippingInfo string
	lines        []*order.Line

	guard guard.ConstructorGuard
}

// NewIngestOrderCommand validates the order header and builds the lines. Every
// line gets a fresh identifier. An empty line list is accepted.
func NewIngestOrderCommand(
	orderID kernel.UUID,
	connectorID *kernel.UUID,
	remoteID string,
	shippingInfo string,
	lines []LineInput,
) (IngestOrderCommand, error) {
	cmd := IngestOrderCommand{
		shippingInfo: strings.TrimSpace(shippingInfo),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setConnectorID(connectorID),
		cmd.setRemoteID(remoteID),
		cmd.setLines(lines),
	); err != nil {
		return IngestOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c IngestOrderCommand) Validate() error {
	return c.guard.Validate(ErrIngestOrderCommandIsNotConstructed)
}

func (c IngestOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c IngestOrderCommand) ConnectorID() *kernel.UUID {
	return c.connectorID
}

func (c IngestOrderCommand) RemoteID() string {
	return c.remoteID
}

func (c IngestOrderCommand) ShippingInfo() string {
	return c.shippingInfo
}

func (c IngestOrderCommand) Lines() []*order.Line {
	return c.lines
}

func (c *IngestOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *IngestOrderCommand) setConnectorID(connectorID *kernel.UUID) error {
	if connectorID != nil {
		if err := connectorID.Validate(); err != nil {
			return err
		}
	}
	c.connectorID = connectorID
	return nil
}

func (c *IngestOrderCommand) setRemoteID(remoteID string) error {
	remoteID = strings.TrimSpace(remoteID)
	if remoteID == "" {
		return errs.NewValueIsRequiredError("remoteID")
	}
	c.remoteID = remoteID
	return nil
}

func (c *IngestOrderCommand) setLines(inputs []LineInput) error {
	lines := make([]*order.Line, 0, len(inputs))
	var lineErrs []error
	for i, in := range inputs {
		l, err := order.NewLine(kernel.NewUUID(), in.ProductName, in.Quantity, in.Location, in.Barcode)
		if err != nil {
			lineErrs = append(lineErrs, fmt.Errorf("line %d: %w", i, err))
			continue
		}
		lines = append(lines, l)
	}
	if err := errors.Join(lineErrs...); err != nil {
		return err
	}
	c.lines = lines
	return nil
}
