package ports

import (
	"context"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/session"
)

// SessionRepository defines the persistence contract for picking and packing
// sessions, stored in one table with a kind discriminator.
type SessionRepository interface {
	// Add persists a new session. Adding a second active session for the same
	// resource fails with resource.ErrResourceLeaseViolation.
	Add(ctx context.Context, s *session.Session) error

	Update(ctx context.Context, s *session.Session) error

	// Get returns ObjectNotFoundError for unknown sessions.
	Get(ctx context.Context, id kernel.UUID) (*session.Session, error)

	// ListActiveByOrder returns the IN_PROGRESS and PAUSED sessions of an order.
	ListActiveByOrder(ctx context.Context, orderID kernel.UUID) ([]*session.Session, error)
}
