package resource

import (
	"errors"
	"fmt"
	"strings"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
	"pickingpacking/internal/pkg/guard"
)

var (
	// ErrResourceLeaseViolation indicates an attempt to lease a resource that is
	// already held by another session, or to release a lease the caller does not
	// hold. It signals a broken exclusivity invariant and is never ignored.
	ErrResourceLeaseViolation = errors.New("resource lease violation")

	// ErrResourceIsNotConstructed indicates that the Resource was not
	// properly initialized through the NewPickCart or NewPackingStation constructors.
	ErrResourceIsNotConstructed = errors.New("Resource must be created via NewPickCart or NewPackingStation constructor")
)

// Resource is a physical asset a session needs exclusively: a pick cart for
// picking sessions or a packing station for packing sessions.
//
// A Resource can be leased by at most one session at a time. The lease is the
// only state shared between orders, so every change to it bumps the version the
// persistence layer uses for compare-and-swap updates.
//
// Key business rules:
//   - Must be constructed through NewPickCart, NewPackingStation or RestoreResource
//   - Pick carts have at least one section, packing stations have none
//   - Acquire fails with ErrResourceLeaseViolation if the resource is leased
//   - Only the holding session can release the lease
//
// Example usage:
//
//	cart, err := resource.NewPickCart(kernel.NewUUID(), "CART-01", 8)
//	if err != nil {
//	    return err
//	}
//	if err = cart.Acquire(sessionID); err != nil {
//	    // another session holds the cart
//	}
type Resource struct {
	// id uniquely identifies the resource
	id kernel.UUID

	// kind tells carts and stations apart
	kind Kind

	// name is the label printed on the asset
	name string

	// totalSections is the number of order compartments of a pick cart
	totalSections int

	// leasedBy points to the session holding the resource, nil if free
	leasedBy *kernel.UUID

	// version is incremented on every lease change
	version int64

	// loadedVersion is the version the resource had when it was restored
	loadedVersion int64

	// guard ensures the entity was properly initialized
	guard guard.ConstructorGuard
}

// NewPickCart creates a free pick cart.
//
// Parameters:
//   - id: unique identifier of the cart
//   - name: label of the cart, must not be empty
//   - totalSections: number of order compartments, must be greater than 0
//
// Returns:
//   - *Resource: the created cart
//   - error: aggregated validation errors
func NewPickCart(id kernel.UUID, name string, totalSections int) (*Resource, error) {
	return RestoreResource(id, PickCart, name, totalSections, nil, 0)
}

// NewPackingStation creates a free packing station.
func NewPackingStation(id kernel.UUID, name string) (*Resource, error) {
	return RestoreResource(id, PackingStation, name, 0, nil, 0)
}

// RestoreResource reconstructs a resource from persistent storage, including its
// current lease and version.
//
// Business Rules:
//   - Resource ID must be valid
//   - Name cannot be empty
//   - Pick carts need totalSections > 0, packing stations need 0
//   - Lease holder, if provided, must be valid
//   - Version must not be negative
func RestoreResource(
	id kernel.UUID,
	kind Kind,
	name string,
	totalSections int,
	leasedBy *kernel.UUID,
	version int64,
) (*Resource, error) {
	r := &Resource{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setKind(kind),
		r.setName(name),
		r.setLeasedBy(leasedBy),
		r.setVersion(version),
	); err != nil {
		return nil, err
	}
	if err := r.setTotalSections(totalSections); err != nil {
		return nil, err
	}

	return r, nil
}

// IsEqual compares resources by identity.
func (r *Resource) IsEqual(other *Resource) bool {
	return other != nil && r.id.IsEqual(other.id)
}

func (r *Resource) ID() kernel.UUID {
	return r.id
}

func (r *Resource) Kind() Kind {
	return r.kind
}

func (r *Resource) Name() string {
	return r.name
}

// TotalSections returns the number of compartments, 0 for packing stations.
func (r *Resource) TotalSections() int {
	return r.totalSections
}

// LeasedBy returns the session holding the resource, nil if it is free.
func (r *Resource) LeasedBy() *kernel.UUID {
	return r.leasedBy
}

// Version returns the optimistic concurrency version.
func (r *Resource) Version() int64 {
	return r.version
}

// LoadedVersion returns the version read from storage. Repositories update the
// row only while it still carries this version.
func (r *Resource) LoadedVersion() int64 {
	return r.loadedVersion
}

// IsFree reports whether no session holds the resource.
func (r *Resource) IsFree() bool {
	return r.leasedBy == nil
}

// Acquire leases the resource to a session.
//
// Returns:
//   - nil on success
//   - ErrResourceLeaseViolation if any session, including sessionID, already
//     holds the resource
//
// Example:
//
//	if err := station.Acquire(sessionID); errors.Is(err, resource.ErrResourceLeaseViolation) {
//	    logger.Error("double assignment attempt", "resource", station.Name())
//	}
func (r *Resource) Acquire(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}
	if !r.IsFree() {
		return fmt.Errorf("%w: %s is leased by session %s", ErrResourceLeaseViolation, r.name, r.leasedBy)
	}

	r.leasedBy = &sessionID
	r.version++
	return nil
}

// Release frees the resource held by sessionID.
//
// Returns:
//   - nil on success
//   - ErrResourceLeaseViolation if the resource is free or held by another session
func (r *Resource) Release(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}
	if r.IsFree() || !r.leasedBy.IsEqual(sessionID) {
		return fmt.Errorf("%w: %s is not leased by session %s", ErrResourceLeaseViolation, r.name, sessionID)
	}

	r.leasedBy = nil
	r.version++
	return nil
}

// IsHeldBy reports whether sessionID holds the lease.
func (r *Resource) IsHeldBy(sessionID kernel.UUID) bool {
	return r.leasedBy != nil && r.leasedBy.IsEqual(sessionID)
}

// Clone returns a copy that can be mutated independently.
func (r *Resource) Clone() *Resource {
	c := *r
	if r.leasedBy != nil {
		holder := *r.leasedBy
		c.leasedBy = &holder
	}
	return &c
}

// Validate checks if the Resource entity was properly constructed.
func (r *Resource) Validate() error {
	if r == nil {
		return ErrResourceIsNotConstructed
	}
	return r.guard.Validate(ErrResourceIsNotConstructed)
}

func (r *Resource) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Resource) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	r.kind = kind
	return nil
}

func (r *Resource) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

func (r *Resource) setTotalSections(totalSections int) error {
	switch {
	case r.kind == PickCart && totalSections <= 0:
		return errs.NewValueIsInvalidErrorWithCause(
			"totalSections",
			fmt.Errorf("%d is not greater than 0", totalSections),
		)
	case r.kind == PackingStation && totalSections != 0:
		return errs.NewValueIsInvalidErrorWithCause(
			"totalSections",
			fmt.Errorf("packing stations have no sections, got %d", totalSections),
		)
	}
	r.totalSections = totalSections
	return nil
}

func (r *Resource) setLeasedBy(sessionID *kernel.UUID) error {
	if sessionID != nil {
		if err := sessionID.Validate(); err != nil {
			return err
		}
	}
	r.leasedBy = sessionID
	return nil
}

func (r *Resource) setVersion(version int64) error {
	if version < 0 {
		return errs.NewValueIsOutOfRangeError("version", version, 0, "unbounded")
	}
	r.version = version
	r.loadedVersion = version
	return nil
}
