package ports

import (
	"context"

	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/kernel"
)

// EventRepository defines the persistence contract for order events.
type EventRepository interface {
	// Add persists a new pending event.
	Add(ctx context.Context, e *event.Event) error

	// Update writes the result and processed stamp of a consumed event.
	Update(ctx context.Context, e *event.Event) error

	// Get retrieves an event by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*event.Event, error)

	// ListPending returns the pending events of an order in queue order.
	ListPending(ctx context.Context, orderID kernel.UUID) ([]*event.Event, error)

	// GetLastProcessed returns the most recently consumed event of an order.
	// Returns ObjectNotFoundError when no event was consumed yet.
	GetLastProcessed(ctx context.Context, orderID kernel.UUID) (*event.Event, error)

	// ListOrdersWithPending returns the orders that still have pending events.
	ListOrdersWithPending(ctx context.Context) ([]kernel.UUID, error)

	// MaxSeq returns the highest sequence number stored on any event, 0 if none.
	MaxSeq(ctx context.Context) (int64, error)
}
