package queries

import (
	"errors"
	"time"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/guard"
)

var ErrGetHistoryQueryIsNotConstructed = errors.New(
	"GetHistoryQuery must be created via NewGetHistoryQuery constructor",
)

// GetHistoryQuery reads the audit trail of an order in creation order.
type GetHistoryQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetHistoryQuery(orderID kernel.UUID) (GetHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetHistoryQuery{}, err
	}
	return GetHistoryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetHistoryQueryIsNotConstructed)
}

func (q GetHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

type GetHistoryQueryResponse struct {
	ID           kernel.UUID
	Seq          int64
	CreatedAt    time.Time
	Description  string
	StatusBefore string
	StatusAfter  string
	EventID      *kernel.UUID
}
