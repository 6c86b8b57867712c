package commands

import (
	"context"
	"fmt"

	"pickingpacking/internal/core/domain/services"
)

// ChangeSessionCommandHandler applies operator requests to a session.
//
// Business rules:
//   - Pause keeps the resource leased, there is no timeout
//   - Resume fails with resource.ErrResourceLeaseViolation if the session lost
//     its resource
//   - Cancel releases the resource and returns the order to the status that
//     awaits a new session, then triggers a controller pass
//   - HandOff changes the current user of an active session
type ChangeSessionCommandHandler struct {
	uowFactory UoWFactory
	allocator  services.SessionAllocator
	recorder   HistoryRecorder
	feed       StatusFeed
	trigger    PassTrigger
}

func NewChangeSessionCommandHandler(
	uowFactory UoWFactory,
	recorder HistoryRecorder,
	feed StatusFeed,
	trigger PassTrigger,
) ChangeSessionCommandHandler {
	return ChangeSessionCommandHandler{
		uowFactory: uowFactory,
		allocator:  services.NewSessionAllocator(),
		recorder:   recorder,
		feed:       feed,
		trigger:    triggerOrNoop(trigger),
	}
}

func (h ChangeSessionCommandHandler) Handle(ctx context.Context, cmd ChangeSessionCommand) error {
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

	o, s, err := lockSession(ctx, uow, cmd.SessionID())
	if err != nil {
		return err
	}
	r, err := loadResource(ctx, uow, s)
	if err != nil {
		return err
	}

	stamp, err := h.recorder.Stamp()
	if err != nil {
		return err
	}
	before := o.Status()
	now := stamp.At()

	switch cmd.Action() {
	case PauseSession:
		err = h.allocator.Pause(s, now)
	case ResumeSession:
		err = h.allocator.Resume(s, r, now)
	case CancelSession:
		err = h.allocator.Cancel(o, s, r, now)
	case HandOffSession:
		err = s.HandOff(cmd.User(), now)
	}
	attempt := fmt.Sprintf("%s of %s session %s", cmd.Action(), s.Kind(), s.ID())
	if isDomainRejection(err) {
		h.recorder.leaseViolation(ctx, err, o.ID(), s)
		return h.recorder.reject(ctx, uow, o.ID(), stamp, before, attempt, err)
	}
	if err != nil {
		return err
	}

	if cmd.Action() == CancelSession {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}
		if err = saveSession(ctx, uow, s, r); err != nil {
			return err
		}
	} else if err = uow.SessionRepository().Update(ctx, s); err != nil {
		return err
	}

	description := fmt.Sprintf("%s by %s", attempt, s.CurrentUser())
	if err = h.recorder.Record(ctx, uow.HistoryRepository(), o.ID(), stamp, description, before, o.Status(), nil); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.feed.Changed(ctx, o, before, now)
	if cmd.Action() == CancelSession {
		h.trigger.Kick()
	}
	return nil
}
