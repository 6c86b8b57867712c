// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories bound to a unit of work and the outbound status
// feed.
package ports

import (
	"context"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// An order is stored together with its lines.
type OrderRepository interface {
	// Add persists a new order and its lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the order row and the status of every line.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its lines.
	// Returns ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks it until the unit of work ends,
	// serializing every writer of the same order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ExistsByRemoteID reports whether an order with the remote identifier was
	// already ingested from the connector. A nil connector matches manual orders.
	ExistsByRemoteID(ctx context.Context, connectorID *kernel.UUID, remoteID string) (bool, error)
}
