package commands

import (
	"context"

	"pickingpacking/internal/core/domain/model/event"
)

// SubmitEventCommandHandler stores a pending event and asks the controller
// for a pass. The event is applied asynchronously; its result is visible
// through GetOrderStatus and the order history.
type SubmitEventCommandHandler struct {
	uowFactory EventUoWFactory
	clock      Clock
	trigger    PassTrigger
}

func NewSubmitEventCommandHandler(uowFactory EventUoWFactory, clock Clock, trigger PassTrigger) SubmitEventCommandHandler {
	return SubmitEventCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		trigger:    triggerOrNoop(trigger),
	}
}

// Handle returns ObjectNotFoundError when the order does not exist.
func (h SubmitEventCommandHandler) Handle(ctx context.Context, cmd SubmitEventCommand) error {
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

	if _, err := uow.OrderRepository().Get(ctx, cmd.OrderID()); err != nil {
		return err
	}

	stamp, err := h.clock.Next()
	if err != nil {
		return err
	}

	evt, err := event.NewEvent(cmd.EventID(), cmd.OrderID(), cmd.Type(), cmd.Priority(), cmd.Payload(), stamp)
	if err != nil {
		return err
	}
	if err = uow.EventRepository().Add(ctx, evt); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.trigger.Kick()
	return nil
}
