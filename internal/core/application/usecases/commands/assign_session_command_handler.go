package commands

import (
	"context"
	"fmt"

	"pickingpacking/internal/core/domain/services"
)

// AssignSessionCommandHandler creates a session on operator request, outside
// the event queue. Unlike an assignment event, a missing resource is reported
// to the caller as services.ErrResourceUnavailable instead of being retried.
type AssignSessionCommandHandler struct {
	uowFactory UoWFactory
	allocator  services.SessionAllocator
	recorder   HistoryRecorder
	feed       StatusFeed
}

func NewAssignSessionCommandHandler(uowFactory UoWFactory, recorder HistoryRecorder, feed StatusFeed) AssignSessionCommandHandler {
	return AssignSessionCommandHandler{
		uowFactory: uowFactory,
		allocator:  services.NewSessionAllocator(),
		recorder:   recorder,
		feed:       feed,
	}
}

func (h AssignSessionCommandHandler) Handle(ctx context.Context, cmd AssignSessionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	resources, err := uow.ResourceRepository().ListByKind(ctx, cmd.Kind().ResourceKind())
	if err != nil {
		return err
	}

	stamp, err := h.recorder.Stamp()
	if err != nil {
		return err
	}
	before := o.Status()

	s, r, err := h.allocator.Assign(o, services.AssignRequest{
		SessionID:   cmd.SessionID(),
		Kind:        cmd.Kind(),
		Requested:   cmd.ResourceID(),
		User:        cmd.User(),
		CartSection: cmd.CartSection(),
		Now:         stamp.At(),
	}, resources)
	if isDomainRejection(err) {
		h.recorder.leaseViolation(ctx, err, o.ID(), nil)
		return h.recorder.reject(ctx, uow, o.ID(), stamp, before, fmt.Sprintf("%s session by %s", cmd.Kind(), cmd.User()), err)
	}
	if err != nil {
		return err
	}

	if err = h.recorder.addSession(ctx, uow, s, r); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	description := fmt.Sprintf("%s session %s assigned to %s on %s", s.Kind(), s.ID(), s.CurrentUser(), r.Name())
	if err = h.recorder.Record(ctx, uow.HistoryRepository(), o.ID(), stamp, description, before, o.Status(), nil); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.feed.Changed(ctx, o, before, stamp.At())
	return nil
}
