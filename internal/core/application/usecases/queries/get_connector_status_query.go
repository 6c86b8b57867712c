package queries

import (
	"errors"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/guard"
)

var ErrGetConnectorStatusQueryIsNotConstructed = errors.New(
	"GetConnectorStatusQuery must be created via NewGetConnectorStatusQuery constructor",
)

// GetConnectorStatusQuery reads the synchronization state of a connector.
type GetConnectorStatusQuery struct {
	connectorID kernel.UUID
	guard       guard.ConstructorGuard
}

func NewGetConnectorStatusQuery(connectorID kernel.UUID) (GetConnectorStatusQuery, error) {
	if err := connectorID.Validate(); err != nil {
		return GetConnectorStatusQuery{}, err
	}
	return GetConnectorStatusQuery{connectorID: connectorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetConnectorStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetConnectorStatusQueryIsNotConstructed)
}

func (q GetConnectorStatusQuery) ConnectorID() kernel.UUID {
	return q.connectorID
}

type GetConnectorStatusQueryResponse struct {
	ID      kernel.UUID
	Name    string
	Status  string
	Command string
}
