package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/pkg/errs"
)

// ErrResourceUnavailable is returned when no resource of the requested kind is
// free. It is retryable: nothing was changed and the caller may try again once
// a session releases its resource.
var ErrResourceUnavailable = errors.New("resource unavailable")

// SessionAllocator is a domain service that binds picking and packing sessions
// to orders and gives them exclusive use of a pick cart or packing station.
//
// Key responsibilities:
//   - Choosing a free resource of the kind the session needs
//   - Creating the session and acquiring the lease in one step
//   - Advancing order lines and session progress together on every step
//   - Releasing the lease when a session completes or is canceled
//
// Business rules:
//   - A resource is leased by at most one active session
//   - A requested resource must be free; without a request the first free
//     resource by name is taken
//   - A new session covers only the lines that have not reached its target
//     status yet, so a replacement session after a cancellation is shorter
//   - Canceling the current session of an order returns the order to the
//     status that awaits a new assignment
//
// Example usage:
//
//	allocator := services.NewSessionAllocator()
//	s, cart, err := allocator.Assign(o, services.AssignRequest{
//	    SessionID: kernel.NewUUID(),
//	    Kind:      session.Picking,
//	    User:      "alice",
//	    Now:       stamp.At(),
//	}, carts)
//	if errors.Is(err, services.ErrResourceUnavailable) {
//	    // leave the event queued and retry on the next pass
//	}
type SessionAllocator struct{}

// NewSessionAllocator creates a new SessionAllocator instance.
func NewSessionAllocator() SessionAllocator {
	return SessionAllocator{}
}

// AssignRequest describes the session to create.
type AssignRequest struct {
	SessionID   kernel.UUID
	Kind        session.Kind
	Requested   *kernel.UUID
	User        string
	CartSection *int
	Now         time.Time
}

// Assign creates an IN_PROGRESS session for the order and leases a resource.
//
// Parameters:
//   - o: the order, in NewOrder for picking or PickingCompleted for packing
//   - req: session identity, kind, optional requested resource, user and cart section
//   - resources: candidate resources; resources of another kind are ignored
//
// Returns:
//   - *session.Session: the new session
//   - *resource.Resource: the leased resource
//   - error: ErrInvalidTransition from the order when it cannot take the
//     session, ObjectNotFoundError for an unknown requested resource,
//     ErrResourceUnavailable when nothing suitable is free
//
// The order, session and resource are only mutated when every check passed.
func (a SessionAllocator) Assign(
	o *order.Order,
	req AssignRequest,
	resources []*resource.Resource,
) (*session.Session, *resource.Resource, error) {
	if err := o.Validate(); err != nil {
		return nil, nil, err
	}
	if err := req.Kind.Validate(); err != nil {
		return nil, nil, err
	}
	if err := a.checkOrderAccepts(o, req.Kind); err != nil {
		return nil, nil, err
	}

	r, err := a.pickResource(req, resources)
	if err != nil {
		return nil, nil, err
	}
	if req.Kind == session.Picking && req.CartSection != nil && *req.CartSection > r.TotalSections() {
		return nil, nil, errs.NewValueIsOutOfRangeError("cartSection", *req.CartSection, 1, r.TotalSections())
	}

	s, err := session.NewSession(
		req.SessionID,
		req.Kind,
		o.ID(),
		r.ID(),
		req.User,
		o.PendingLines(req.Kind.TargetLineStatus()),
		req.Now,
	)
	if err != nil {
		return nil, nil, err
	}

	switch req.Kind {
	case session.Picking:
		section := req.CartSection
		if section == nil {
			first := 1
			section = &first
		}
		err = o.AssignPickingSession(s.ID(), section)
	case session.Packing:
		err = o.AssignPackingSession(s.ID())
	}
	if err != nil {
		return nil, nil, err
	}

	if err = r.Acquire(s.ID()); err != nil {
		return nil, nil, err
	}
	return s, r, nil
}

// ReportStep advances one order line and the session together.
//
// Parameters:
//   - o: the order the session works on
//   - s: an IN_PROGRESS session bound to the order
//   - r: the resource leased by the session, released when the step completes it
//   - lineID: the line that was picked or packed
//
// Returns:
//   - bool: true when the step completed the session and released the resource
//   - error: session.ErrInvalidTransition if the session is not in progress,
//     order.ErrInvalidTransition or order.ErrOutOfSequenceLineUpdate from the
//     order, ObjectNotFoundError for a line not in the order
func (a SessionAllocator) ReportStep(
	o *order.Order,
	s *session.Session,
	r *resource.Resource,
	lineID kernel.UUID,
	now time.Time,
) (bool, error) {
	if err := a.checkBound(o, s); err != nil {
		return false, err
	}
	if s.Status() != session.InProgress {
		return false, fmt.Errorf("%w: cannot record a step on a %s session", session.ErrInvalidTransition, s.Status())
	}

	var err error
	switch s.Kind() {
	case session.Picking:
		err = o.PickLine(lineID)
	case session.Packing:
		err = o.PackLine(lineID)
	default:
		err = s.Kind().Validate()
	}
	if err != nil {
		return false, err
	}

	if err = s.RecordStep(now); err != nil {
		return false, err
	}
	if s.IsActive() {
		return false, nil
	}
	if err = a.release(s, r); err != nil {
		return false, err
	}
	return true, nil
}

// Pause suspends a session. The resource stays leased.
func (a SessionAllocator) Pause(s *session.Session, now time.Time) error {
	return s.Pause(now)
}

// Resume continues a paused session after confirming it still holds its lease.
//
// Returns:
//   - resource.ErrResourceLeaseViolation if the resource is gone or leased to
//     another session
func (a SessionAllocator) Resume(s *session.Session, r *resource.Resource, now time.Time) error {
	if r == nil || !r.IsHeldBy(s.ID()) {
		return fmt.Errorf("%w: session %s no longer holds its resource", resource.ErrResourceLeaseViolation, s.ID())
	}
	return s.Resume(now)
}

// Cancel stops an active session and releases its resource. When the session
// is the current one of a non-terminal order, the order returns to NewOrder
// (picking) or PickingCompleted (packing) so a new session can be assigned.
//
// Parameters:
//   - o: the order of the session
//   - s: an IN_PROGRESS or PAUSED session
//   - r: the leased resource, nil if it was deleted
func (a SessionAllocator) Cancel(o *order.Order, s *session.Session, r *resource.Resource, now time.Time) error {
	if err := a.checkBound(o, s); err != nil {
		return err
	}
	if err := s.Cancel(now); err != nil {
		return err
	}
	if err := a.release(s, r); err != nil {
		return err
	}

	if o.Status().IsTerminal() || !a.isCurrent(o, s) {
		return nil
	}
	switch {
	case s.Kind() == session.Picking && o.Status() == order.PickingInProgress:
		return o.AbandonPicking()
	case s.Kind() == session.Packing && o.Status() == order.PackingInProgress:
		return o.AbandonPacking()
	default:
		return nil
	}
}

func (a SessionAllocator) checkOrderAccepts(o *order.Order, kind session.Kind) error {
	var err error
	switch kind {
	case session.Picking:
		_, err = o.Status().StartPicking()
		if err == nil && len(o.Lines()) == 0 {
			err = order.ErrOrderHasNoLines
		}
	case session.Packing:
		_, err = o.Status().StartPacking()
	}
	return err
}

// pickResource returns the requested resource when it is free, otherwise the
// first free resource of the session's kind ordered by name.
func (a SessionAllocator) pickResource(req AssignRequest, resources []*resource.Resource) (*resource.Resource, error) {
	want := req.Kind.ResourceKind()

	if req.Requested != nil {
		idx := slices.IndexFunc(resources, func(r *resource.Resource) bool { return r.ID().IsEqual(*req.Requested) })
		if idx < 0 {
			return nil, errs.NewObjectNotFoundError("resource", req.Requested.String())
		}
		r := resources[idx]
		if r.Kind() != want {
			return nil, errs.NewValueIsInvalidErrorWithCause("resourceId", fmt.Errorf("%s is a %s, need a %s", r.Name(), r.Kind(), want))
		}
		if !r.IsFree() {
			return nil, fmt.Errorf("%w: %s %s is leased", ErrResourceUnavailable, r.Kind(), r.Name())
		}
		return r, nil
	}

	var candidates []*resource.Resource
	for _, r := range resources {
		if r.Kind() == want && r.IsFree() {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no free %s", ErrResourceUnavailable, want)
	}
	slices.SortFunc(candidates, func(x, y *resource.Resource) int {
		if c := strings.Compare(x.Name(), y.Name()); c != 0 {
			return c
		}
		return x.ID().Compare(y.ID())
	})
	return candidates[0], nil
}

func (a SessionAllocator) release(s *session.Session, r *resource.Resource) error {
	if r == nil || !r.IsHeldBy(s.ID()) {
		return nil
	}
	return r.Release(s.ID())
}

func (a SessionAllocator) checkBound(o *order.Order, s *session.Session) error {
	if err := errors.Join(o.Validate(), s.Validate()); err != nil {
		return err
	}
	if !s.OrderID().IsEqual(o.ID()) {
		return errs.NewValueIsInvalidErrorWithCause("session", fmt.Errorf("session %s belongs to order %s", s.ID(), s.OrderID()))
	}
	return nil
}

func (a SessionAllocator) isCurrent(o *order.Order, s *session.Session) bool {
	var current *kernel.UUID
	if s.Kind() == session.Picking {
		current = o.PickingSessionID()
	} else {
		current = o.PackingSessionID()
	}
	return current != nil && current.IsEqual(s.ID())
}
