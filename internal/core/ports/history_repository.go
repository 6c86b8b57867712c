package ports

import (
	"context"

	"pickingpacking/internal/core/domain/model/history"
	"pickingpacking/internal/core/domain/model/kernel"
)

// HistoryRepository is append-only: entries are never updated or removed
// except together with their order.
type HistoryRepository interface {
	Add(ctx context.Context, entry *history.Entry) error

	// ListByOrder returns the entries of an order ordered by creation stamp.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*history.Entry, error)

	// MaxSeq returns the highest sequence number stored on any entry, 0 if none.
	MaxSeq(ctx context.Context) (int64, error)
}
