package queries

import (
	"context"

	"pickingpacking/internal/core/ports"
)

type GetHistoryQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetHistoryQueryHandler(uowFactory ports.UnitOfWorkFactory) GetHistoryQueryHandler {
	return GetHistoryQueryHandler{uowFactory: uowFactory}
}

// Handle returns ObjectNotFoundError for unknown orders and an empty slice for
// orders without history.
func (h GetHistoryQueryHandler) Handle(ctx context.Context, query GetHistoryQuery) ([]GetHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if _, err := uow.OrderRepository().Get(ctx, query.OrderID()); err != nil {
		return nil, err
	}

	entries, err := uow.HistoryRepository().ListByOrder(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	resp := make([]GetHistoryQueryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, GetHistoryQueryResponse{
			ID:           e.ID(),
			Seq:          e.Created().Seq(),
			CreatedAt:    e.Created().At(),
			Description:  e.Description(),
			StatusBefore: e.StatusBefore().String(),
			StatusAfter:  e.StatusAfter().String(),
			EventID:      e.EventID(),
		})
	}
	return resp, nil
}
