package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
	"pickingpacking/internal/pkg/guard"
)

// ErrSessionIsNotConstructed is returned when a Session was not created through
// NewSession or RestoreSession.
var ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession constructor")

// Session is a unit of picking or packing work performed by one operator for one
// order on one leased resource.
//
// Invariants:
//   - 0 <= completedSteps <= totalSteps and totalSteps > 0
//   - a session reaches Completed exactly when completedSteps == totalSteps
//   - the current user may differ from the creator after a hand-off
//
// The session only tracks progress. Leasing and releasing the resource and
// advancing order lines is coordinated by the SessionAllocator domain service.
type Session struct {
	id             kernel.UUID
	kind           Kind
	orderID        kernel.UUID
	resourceID     *kernel.UUID
	createdBy      string
	currentUser    string
	totalSteps     int
	completedSteps int
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
	guard          guard.ConstructorGuard
}

// Snapshot carries every persisted attribute of a session.
type Snapshot struct {
	ID             kernel.UUID
	Kind           Kind
	OrderID        kernel.UUID
	ResourceID     *kernel.UUID
	CreatedBy      string
	CurrentUser    string
	TotalSteps     int
	CompletedSteps int
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewSession creates an InProgress session with no completed steps.
//
// Parameters:
//   - id: unique identifier of the session
//   - kind: Picking or Packing
//   - orderID: the order the session works on
//   - resourceID: the cart or station leased for the session
//   - user: operator creating the session, also its first current user
//   - totalSteps: number of lines the session has to advance, greater than 0
//   - now: creation time
//
// Example:
//
//	s, err := session.NewSession(kernel.NewUUID(), session.Picking, o.ID(), cart.ID(), "alice", 2, stamp.At())
func NewSession(
	id kernel.UUID,
	kind Kind,
	orderID kernel.UUID,
	resourceID kernel.UUID,
	user string,
	totalSteps int,
	now time.Time,
) (*Session, error) {
	if err := resourceID.Validate(); err != nil {
		return nil, err
	}
	return RestoreSession(Snapshot{
		ID:          id,
		Kind:        kind,
		OrderID:     orderID,
		ResourceID:  &resourceID,
		CreatedBy:   user,
		CurrentUser: user,
		TotalSteps:  totalSteps,
		Status:      InProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// RestoreSession reconstructs a session from persistent storage.
func RestoreSession(s Snapshot) (*Session, error) {
	sess := &Session{
		createdBy:   strings.TrimSpace(s.CreatedBy),
		currentUser: strings.TrimSpace(s.CurrentUser),
		createdAt:   s.CreatedAt.UTC(),
		updatedAt:   s.UpdatedAt.UTC(),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		sess.setID(s.ID),
		sess.setKind(s.Kind),
		sess.setOrderID(s.OrderID),
		sess.setResourceID(s.ResourceID),
		sess.setStatus(s.Status),
		sess.setSteps(s.TotalSteps, s.CompletedSteps),
	); err != nil {
		return nil, err
	}
	if s.CreatedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("createdAt")
	}

	return sess, nil
}

func (s *Session) ID() kernel.UUID {
	return s.id
}

func (s *Session) Kind() Kind {
	return s.kind
}

func (s *Session) OrderID() kernel.UUID {
	return s.orderID
}

// ResourceID returns the leased resource, nil if the resource was deleted.
func (s *Session) ResourceID() *kernel.UUID {
	return s.resourceID
}

func (s *Session) CreatedBy() string {
	return s.createdBy
}

func (s *Session) CurrentUser() string {
	return s.currentUser
}

func (s *Session) TotalSteps() int {
	return s.totalSteps
}

func (s *Session) CompletedSteps() int {
	return s.completedSteps
}

func (s *Session) Status() Status {
	return s.status
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

// IsActive reports whether the session still holds its resource.
func (s *Session) IsActive() bool {
	return s.status.IsActive()
}

// RecordStep counts one completed step and completes the session when it was
// the last one.
//
// Returns:
//   - ErrInvalidTransition if the session is not InProgress
func (s *Session) RecordStep(now time.Time) error {
	if s.status != InProgress {
		return fmt.Errorf("%w: cannot record a step on a %s session", ErrInvalidTransition, s.status)
	}
	if s.completedSteps >= s.totalSteps {
		return fmt.Errorf("%w: all %d steps already recorded", ErrInvalidTransition, s.totalSteps)
	}

	s.completedSteps++
	if s.completedSteps == s.totalSteps {
		next, err := s.status.Complete()
		if err != nil {
			return err
		}
		s.status = next
	}
	s.touch(now)
	return nil
}

// Pause suspends an InProgress session. The resource stays leased.
func (s *Session) Pause(now time.Time) error {
	return s.apply(Status.Pause, now)
}

// Resume continues a Paused session.
func (s *Session) Resume(now time.Time) error {
	return s.apply(Status.Resume, now)
}

// Cancel stops an active session. The caller releases the resource.
func (s *Session) Cancel(now time.Time) error {
	return s.apply(Status.Cancel, now)
}

// HandOff transfers an active session to another operator.
func (s *Session) HandOff(user string, now time.Time) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return errs.NewValueIsRequiredError("user")
	}
	if !s.IsActive() {
		return fmt.Errorf("%w: cannot hand off a %s session", ErrInvalidTransition, s.status)
	}
	s.currentUser = user
	s.touch(now)
	return nil
}

// Clone returns a copy that can be mutated independently.
func (s *Session) Clone() *Session {
	c := *s
	if s.resourceID != nil {
		id := *s.resourceID
		c.resourceID = &id
	}
	return &c
}

// Validate ensures the session was built by its constructor.
func (s *Session) Validate() error {
	if s == nil {
		return ErrSessionIsNotConstructed
	}
	return s.guard.Validate(ErrSessionIsNotConstructed)
}

func (s *Session) apply(transition func(Status) (Status, error), now time.Time) error {
	next, err := transition(s.status)
	if err != nil {
		return err
	}
	s.status = next
	s.touch(now)
	return nil
}

func (s *Session) touch(now time.Time) {
	if now.After(s.updatedAt) {
		s.updatedAt = now.UTC()
	}
}

func (s *Session) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Session) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	s.kind = kind
	return nil
}

func (s *Session) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	s.orderID = orderID
	return nil
}

func (s *Session) setResourceID(resourceID *kernel.UUID) error {
	if resourceID != nil {
		if err := resourceID.Validate(); err != nil {
			return err
		}
	}
	s.resourceID = resourceID
	return nil
}

func (s *Session) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	s.status = status
	return nil
}

func (s *Session) setSteps(total, completed int) error {
	if total <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("totalSteps", fmt.Errorf("%d is not greater than 0", total))
	}
	if completed < 0 || completed > total {
		return errs.NewValueIsOutOfRangeError("completedSteps", completed, 0, total)
	}
	s.totalSteps = total
	s.completedSteps = completed
	return nil
}
