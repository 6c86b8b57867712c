package queries

import (
	"context"
	"errors"

	"pickingpacking/internal/core/ports"
	"pickingpacking/internal/pkg/errs"
)

// GetOrderStatusQueryHandler reads orders through repositories that are not
// bound to a transaction.
type GetOrderStatusQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderStatusQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{uowFactory: uowFactory}
}

// Handle returns ObjectNotFoundError for unknown orders.
func (h GetOrderStatusQueryHandler) Handle(ctx context.Context, query GetOrderStatusQuery) (GetOrderStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	resp := GetOrderStatusQueryResponse{
		ID:               o.ID(),
		ConnectorID:      o.ConnectorID(),
		RemoteID:         o.RemoteID(),
		ShippingInfo:     o.ShippingInfo(),
		Status:           o.Status().String(),
		OnHold:           o.IsOnHold(),
		PackingPrepared:  o.IsPackingPrepared(),
		PickingSessionID: o.PickingSessionID(),
		PackingSessionID: o.PackingSessionID(),
		CartSection:      o.CartSection(),
	}
	for _, l := range o.Lines() {
		resp.Lines = append(resp.Lines, LineResponse{
			ID:          l.ID(),
			ProductName: l.ProductName(),
			Quantity:    l.Quantity(),
			Location:    l.Location(),
			Barcode:     l.Barcode(),
			Status:      l.Status().String(),
		})
	}

	events := uow.EventRepository()
	pending, err := events.ListPending(ctx, o.ID())
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}
	resp.PendingEvents = len(pending)

	last, err := events.GetLastProcessed(ctx, o.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return GetOrderStatusQueryResponse{}, err
	default:
		resp.LastEvent = &EventResultResponse{
			ID:          last.ID(),
			Type:        last.Type().String(),
			Priority:    last.Priority(),
			Result:      last.Result().Code.String(),
			Detail:      last.Result().Detail,
			ProcessedAt: last.Processed().At(),
		}
	}

	return resp, nil
}
