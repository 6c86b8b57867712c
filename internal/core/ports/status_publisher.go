package ports

import (
	"context"
	"time"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
)

// StatusChange describes a committed order status transition.
type StatusChange struct {
	OrderID      kernel.UUID
	ConnectorID  *kernel.UUID
	RemoteID     string
	StatusBefore order.Status
	StatusAfter  order.Status
	OccurredAt   time.Time
}

// StatusChangePublisher forwards committed status changes to interested
// parties, e.g. marketplace connectors. Publishing happens after commit, so a
// failure never undoes the transition.
type StatusChangePublisher interface {
	Publish(ctx context.Context, change StatusChange) error
}
