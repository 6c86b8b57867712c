package commands

import (
	"errors"
	"strings"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/pkg/errs"
	"pickingpacking/internal/pkg/guard"
)

var ErrAssignSessionCommandIsNotConstructed = errors.New(
	"AssignSessionCommand must be created via NewAssignSessionCommand constructor",
)

// AssignSessionCommand asks for a picking or packing session on an order,
// optionally on a specific resource.
//
// Example:
//
//	cmd, err := NewAssignSessionCommand(kernel.NewUUID(), orderID, session.Picking, nil, "alice", nil)
type AssignSessionCommand struct { //nolint:recvcheck //using for validation
	sessionID   kernel.UUID
	orderID     kernel.UUID
	kind        session.Kind
	resourceID  *kernel.UUID
	user        string
	cartSection *int

	guard guard.ConstructorGuard
}

func NewAssignSessionCommand(
	sessionID, orderID kernel.UUID,
	kind session.Kind,
	resourceID *kernel.UUID,
	user string,
	cartSection *int,
) (AssignSessionCommand, error) {
	user = strings.TrimSpace(user)
	var userErr error
	if user == "" {
		userErr = errs.NewValueIsRequiredError("user")
	}
	var resourceErr error
	if resourceID != nil {
		resourceErr = resourceID.Validate()
	}
	var sectionErr error
	if cartSection != nil && *cartSection < 1 {
		sectionErr = errs.NewValueIsOutOfRangeError("cartSection", *cartSection, 1, "cart sections")
	}

	if err := errors.Join(
		sessionID.Validate(),
		orderID.Validate(),
		kind.Validate(),
		resourceErr,
		userErr,
		sectionErr,
	); err != nil {
		return AssignSessionCommand{}, err
	}

	return AssignSessionCommand{
		sessionID:   sessionID,
		orderID:     orderID,
		kind:        kind,
		resourceID:  resourceID,
		user:        user,
		cartSection: cartSection,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AssignSessionCommand) Validate() error {
	return c.guard.Validate(ErrAssignSessionCommandIsNotConstructed)
}

func (c AssignSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c AssignSessionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignSessionCommand) Kind() session.Kind {
	return c.kind
}

func (c AssignSessionCommand) ResourceID() *kernel.UUID {
	return c.resourceID
}

func (c AssignSessionCommand) User() string {
	return c.user
}

func (c AssignSessionCommand) CartSection() *int {
	return c.cartSection
}
