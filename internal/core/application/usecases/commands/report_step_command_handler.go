package commands

import (
	"context"
	"fmt"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/core/domain/services"
)

// ReportStepCommandHandler advances one order line through its session. The
// step that completes a session releases its resource and triggers a
// controller pass, so orders waiting for that resource are retried at once.
//
// Example:
//
//	cmd, _ := NewReportStepCommand(sessionID, lineID)
//	switch err := handler.Handle(ctx, cmd); {
//	case errors.Is(err, order.ErrOutOfSequenceLineUpdate):
//	    // the line was already scanned
//	case err != nil:
//	    return err
//	}
type ReportStepCommandHandler struct {
	uowFactory UoWFactory
	allocator  services.SessionAllocator
	recorder   HistoryRecorder
	feed       StatusFeed
	trigger    PassTrigger
}

func NewReportStepCommandHandler(
	uowFactory UoWFactory,
	recorder HistoryRecorder,
	feed StatusFeed,
	trigger PassTrigger,
) ReportStepCommandHandler {
	return ReportStepCommandHandler{
		uowFactory: uowFactory,
		allocator:  services.NewSessionAllocator(),
		recorder:   recorder,
		feed:       feed,
		trigger:    triggerOrNoop(trigger),
	}
}

func (h ReportStepCommandHandler) Handle(ctx context.Context, cmd ReportStepCommand) error {
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

	released, err := h.allocator.ReportStep(o, s, r, cmd.LineID(), stamp.At())
	if isDomainRejection(err) {
		h.recorder.leaseViolation(ctx, err, o.ID(), s)
		return h.recorder.reject(ctx, uow, o.ID(), stamp, before, fmt.Sprintf("%s step on line %s", s.Kind(), cmd.LineID()), err)
	}
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = saveSession(ctx, uow, s, r); err != nil {
		return err
	}
	description := fmt.Sprintf("%s step %d/%d on line %s", s.Kind(), s.CompletedSteps(), s.TotalSteps(), cmd.LineID())
	if err = h.recorder.Record(ctx, uow.HistoryRepository(), o.ID(), stamp, description, before, o.Status(), nil); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.feed.Changed(ctx, o, before, stamp.At())
	if released {
		h.trigger.Kick()
	}
	return nil
}

// lockSession loads a session and locks its order. The session is read again
// after the lock so it reflects every writer that held the lock before.
func lockSession(ctx context.Context, uow UoW, sessionID kernel.UUID) (*order.Order, *session.Session, error) {
	repo := uow.SessionRepository()
	s, err := repo.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	o, err := uow.OrderRepository().GetForUpdate(ctx, s.OrderID())
	if err != nil {
		return nil, nil, err
	}
	if s, err = repo.Get(ctx, sessionID); err != nil {
		return nil, nil, err
	}
	return o, s, nil
}
