package commands

import (
	"context"
	"errors"
	"fmt"

	"pickingpacking/internal/core/domain/model/order"
)

// ErrDuplicateOrder is returned when the connector already delivered an order
// with the same remote identifier.
var ErrDuplicateOrder = errors.New("order already ingested")

// IngestOrderCommandHandler registers external sales orders.
//
// Example:
//
//	handler := NewIngestOrderCommandHandler(uowFactory, recorder)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, ErrDuplicateOrder) {
//	    // the connector re-sent an order we already have
//	}
type IngestOrderCommandHandler struct {
	uowFactory IngestUoWFactory
	recorder   HistoryRecorder
}

func NewIngestOrderCommandHandler(uowFactory IngestUoWFactory, recorder HistoryRecorder) IngestOrderCommandHandler {
	return IngestOrderCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle checks the connector, rejects duplicates per (connector, remote id),
// stores the order and opens its history.
func (h IngestOrderCommandHandler) Handle(ctx context.Context, cmd IngestOrderCommand) error {
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

	if cmd.ConnectorID() != nil {
		if _, err := uow.ConnectorRepository().Get(ctx, *cmd.ConnectorID()); err != nil {
			return err
		}
	}

	orderRepo := uow.OrderRepository()
	exists, err := orderRepo.ExistsByRemoteID(ctx, cmd.ConnectorID(), cmd.RemoteID())
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, cmd.RemoteID())
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.ConnectorID(), cmd.RemoteID(), cmd.ShippingInfo(), cmd.Lines())
	if err != nil {
		return err
	}
	if err = orderRepo.Add(ctx, o); err != nil {
		return err
	}

	stamp, err := h.recorder.Stamp()
	if err != nil {
		return err
	}
	description := fmt.Sprintf("order %s ingested with %d lines", o.RemoteID(), len(o.Lines()))
	if err = h.recorder.Record(ctx, uow.HistoryRepository(), o.ID(), stamp, description, o.Status(), o.Status(), nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
