package queries

import (
	"errors"
	"time"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderStatusQueryIsNotConstructed = errors.New(
	"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
)

// GetOrderStatusQuery reads the current state of one order together with the
// result of the event consumed last.
//
// Example:
//
//	query, _ := NewGetOrderStatusQuery(orderID)
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Status, resp.LastEvent.Result)
type GetOrderStatusQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderStatusQuery(orderID kernel.UUID) (GetOrderStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderStatusQuery{}, err
	}
	return GetOrderStatusQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

func (q GetOrderStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderStatusQueryResponse is a read model of an order.
type GetOrderStatusQueryResponse struct {
	ID               kernel.UUID
	ConnectorID      *kernel.UUID
	RemoteID         string
	ShippingInfo     string
	Status           string
	OnHold           bool
	PackingPrepared  bool
	PickingSessionID *kernel.UUID
	PackingSessionID *kernel.UUID
	CartSection      *int
	Lines            []LineResponse
	PendingEvents    int
	LastEvent        *EventResultResponse
}

type LineResponse struct {
	ID          kernel.UUID
	ProductName string
	Quantity    decimal.Decimal
	Location    int
	Barcode     string
	Status      string
}

// EventResultResponse describes a consumed event.
type EventResultResponse struct {
	ID          kernel.UUID
	Type        string
	Priority    int
	Result      string
	Detail      string
	ProcessedAt time.Time
}
