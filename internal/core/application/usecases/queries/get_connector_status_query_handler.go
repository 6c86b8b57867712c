package queries

import (
	"context"

	"pickingpacking/internal/core/ports"
)

type GetConnectorStatusQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetConnectorStatusQueryHandler(uowFactory ports.UnitOfWorkFactory) GetConnectorStatusQueryHandler {
	return GetConnectorStatusQueryHandler{uowFactory: uowFactory}
}

func (h GetConnectorStatusQueryHandler) Handle(
	ctx context.Context,
	query GetConnectorStatusQuery,
) (GetConnectorStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetConnectorStatusQueryResponse{}, err
	}

	c, err := h.uowFactory.Create().ConnectorRepository().Get(ctx, query.ConnectorID())
	if err != nil {
		return GetConnectorStatusQueryResponse{}, err
	}

	return GetConnectorStatusQueryResponse{
		ID:      c.ID(),
		Name:    c.Name(),
		Status:  c.Status().String(),
		Command: c.Command().String(),
	}, nil
}
