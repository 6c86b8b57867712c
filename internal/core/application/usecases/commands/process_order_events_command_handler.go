package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/core/domain/services"
	"pickingpacking/internal/pkg/errs"
)

// systemUser creates sessions assigned by events without a user in the payload.
const systemUser = "system"

// ProcessOutcome summarizes one drain of an order's queue.
type ProcessOutcome struct {
	// Applied counts events whose transition took effect.
	Applied int

	// Rejected counts events consumed with an InvalidTransition or
	// InvalidPayload result.
	Rejected int

	// Deferred is set when the next event needed a resource that is not free.
	// The event stays pending and the order is retried on a later pass.
	Deferred bool

	// Held is set when pending events remain only because the order is on hold.
	Held bool
}

type stepResult int

const (
	stepIdle stepResult = iota
	stepApplied
	stepRejected
	stepDeferred
	stepHeld
)

// ProcessOrderEventsCommandHandler is the per-order half of the fulfillment
// controller: it repeatedly takes the next eligible event of one order and
// applies it in its own transaction.
//
// Per event:
//   - the order row is locked for the transaction
//   - the event is applied through the order state machine and the session
//     allocator
//   - the event result and processed stamp are written
//   - one history entry is appended, also for rejected events
//   - after commit the status change is published
//
// The loop stops when no eligible event is left, when the order is held, or
// when an assignment finds no free resource. In the last case the transaction
// is rolled back and the event stays pending.
//
// Example:
//
//	cmd, _ := NewProcessOrderEventsCommand(orderID)
//	outcome, err := handler.Handle(ctx, cmd)
//	if outcome.Deferred {
//	    // retried when a resource is released
//	}
type ProcessOrderEventsCommandHandler struct {
	uowFactory UoWFactory
	allocator  services.SessionAllocator
	recorder   HistoryRecorder
	feed       StatusFeed
}

func NewProcessOrderEventsCommandHandler(
	uowFactory UoWFactory,
	recorder HistoryRecorder,
	feed StatusFeed,
) ProcessOrderEventsCommandHandler {
	return ProcessOrderEventsCommandHandler{
		uowFactory: uowFactory,
		allocator:  services.NewSessionAllocator(),
		recorder:   recorder,
		feed:       feed,
	}
}

// Handle drains the order. Errors returned here are infrastructure or
// integrity failures; per-event domain failures end up in the event result.
func (h ProcessOrderEventsCommandHandler) Handle(ctx context.Context, cmd ProcessOrderEventsCommand) (ProcessOutcome, error) {
	var outcome ProcessOutcome
	if err := cmd.Validate(); err != nil {
		return outcome, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		step, err := h.processNext(ctx, cmd.OrderID())
		if err != nil {
			return outcome, err
		}

		switch step {
		case stepApplied:
			outcome.Applied++
		case stepRejected:
			outcome.Rejected++
		case stepDeferred:
			outcome.Deferred = true
			return outcome, nil
		case stepHeld:
			outcome.Held = true
			return outcome, nil
		default:
			return outcome, nil
		}
	}
}

func (h ProcessOrderEventsCommandHandler) processNext(ctx context.Context, orderID kernel.UUID) (stepResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return stepIdle, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return stepIdle, err
	}
	pending, err := uow.EventRepository().ListPending(ctx, orderID)
	if err != nil {
		return stepIdle, err
	}

	queue := event.NewQueue(pending...)
	evt, ok := queue.NextEligible(o)
	if !ok {
		if queue.Len() > 0 && o.IsOnHold() {
			return stepHeld, nil
		}
		return stepIdle, nil
	}

	stamp, err := h.recorder.Stamp()
	if err != nil {
		return stepIdle, err
	}

	before := o.Status()
	result, err := h.apply(ctx, uow, o, evt, stamp.At())
	// Deferral is not a transition attempt: the event is retried on every
	// pass until a resource frees up, so it leaves no history entry.
	if errors.Is(err, services.ErrResourceUnavailable) {
		return stepDeferred, nil
	}
	if err != nil {
		return stepIdle, err
	}

	if result.Code == event.Applied {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return stepIdle, err
		}
	}
	if err = evt.Complete(result, stamp); err != nil {
		return stepIdle, err
	}
	if err = uow.EventRepository().Update(ctx, evt); err != nil {
		return stepIdle, err
	}

	eventID := evt.ID()
	description := fmt.Sprintf("%s %s", evt.Type(), result)
	if err = h.recorder.Record(ctx, uow.HistoryRepository(), o.ID(), stamp, description, before, o.Status(), &eventID); err != nil {
		return stepIdle, err
	}

	if err = uow.Commit(ctx); err != nil {
		return stepIdle, err
	}

	h.feed.Changed(ctx, o, before, stamp.At())
	if result.Code == event.Applied {
		return stepApplied, nil
	}
	return stepRejected, nil
}

// apply performs the transition an event asks for and persists sessions and
// resources it touched. The order itself is saved by the caller.
func (h ProcessOrderEventsCommandHandler) apply(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	evt *event.Event,
	now time.Time,
) (event.Result, error) {
	var err error
	switch evt.Type() {
	case event.Cancel:
		err = h.cancel(ctx, uow, o, now)
	case event.PickingSessionAssignment:
		err = h.assign(ctx, uow, o, evt, session.Picking, now)
	case event.PackingSessionAssignment:
		err = h.assign(ctx, uow, o, evt, session.Packing, now)
	case event.PackingPreparation:
		err = o.PreparePacking()
	case event.Hold:
		err = o.Hold()
	case event.Continue:
		err = o.Continue()
	default:
		err = evt.Type().Validate()
	}

	switch {
	case err == nil:
		return event.Result{Code: event.Applied}, nil
	case errors.Is(err, services.ErrResourceUnavailable):
		return event.Result{}, err
	case errors.Is(err, order.ErrInvalidTransition):
		return event.Result{Code: event.InvalidTransition, Detail: err.Error()}, nil
	case isPayloadError(err):
		return event.Result{Code: event.InvalidPayload, Detail: err.Error()}, nil
	default:
		return event.Result{}, err
	}
}

// cancel cancels the order and every active session of it, releasing their
// resources in the same transaction.
func (h ProcessOrderEventsCommandHandler) cancel(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
	if err := o.Cancel(); err != nil {
		return err
	}

	active, err := uow.SessionRepository().ListActiveByOrder(ctx, o.ID())
	if err != nil {
		return err
	}
	for _, s := range active {
		r, err := loadResource(ctx, uow, s)
		if err != nil {
			return err
		}
		if err = h.allocator.Cancel(o, s, r, now); err != nil {
			return err
		}
		if err = saveSession(ctx, uow, s, r); err != nil {
			return err
		}
	}
	return nil
}

func (h ProcessOrderEventsCommandHandler) assign(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	evt *event.Event,
	kind session.Kind,
	now time.Time,
) error {
	payload, err := event.ParsePayload(evt.Payload())
	if err != nil {
		return err
	}
	user := payload.User
	if user == "" {
		user = systemUser
	}

	resources, err := uow.ResourceRepository().ListByKind(ctx, kind.ResourceKind())
	if err != nil {
		return err
	}

	s, r, err := h.allocator.Assign(o, services.AssignRequest{
		SessionID:   kernel.NewUUID(),
		Kind:        kind,
		Requested:   payload.ResourceID,
		User:        user,
		CartSection: payload.CartSection,
		Now:         now,
	}, resources)
	if err != nil {
		return err
	}

	return h.recorder.addSession(ctx, uow, s, r)
}

// addSession stores a new session and its lease. A lease lost to a concurrent
// transaction is logged and reported as the resource no longer being
// available.
func (r HistoryRecorder) addSession(ctx context.Context, uow UoW, s *session.Session, res *resource.Resource) error {
	err := uow.ResourceRepository().Update(ctx, res)
	if err == nil {
		err = uow.SessionRepository().Add(ctx, s)
	}
	if errors.Is(err, resource.ErrResourceLeaseViolation) {
		r.leaseViolation(ctx, err, s.OrderID(), s)
		return fmt.Errorf("%w: %w", services.ErrResourceUnavailable, err)
	}
	return err
}

func saveSession(ctx context.Context, uow UoW, s *session.Session, r *resource.Resource) error {
	if err := uow.SessionRepository().Update(ctx, s); err != nil {
		return err
	}
	if r == nil {
		return nil
	}
	return uow.ResourceRepository().Update(ctx, r)
}

func loadResource(ctx context.Context, uow UoW, s *session.Session) (*resource.Resource, error) {
	if s.ResourceID() == nil {
		return nil, nil
	}
	r, err := uow.ResourceRepository().Get(ctx, *s.ResourceID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return r, err
}

func isPayloadError(err error) bool {
	return errors.Is(err, event.ErrInvalidPayload) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) ||
		errors.Is(err, errs.ErrObjectNotFound)
}
