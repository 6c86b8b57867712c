// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"pickingpacking/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	SessionRepoFactory interface {
		SessionRepository() ports.SessionRepository
	}

	ResourceRepoFactory interface {
		ResourceRepository() ports.ResourceRepository
	}

	ConnectorRepoFactory interface {
		ConnectorRepository() ports.ConnectorRepository
	}

	// IngestUoW manages transactions for order ingestion.
	IngestUoW interface {
		TxManager
		OrderRepoFactory
		ConnectorRepoFactory
		HistoryRepoFactory
	}

	// IngestUoWFactory creates new ingestion unit of work instances.
	IngestUoWFactory interface {
		Create() IngestUoW
	}

	// EventUoW manages transactions that only enqueue events.
	EventUoW interface {
		TxManager
		OrderRepoFactory
		EventRepoFactory
	}

	// EventUoWFactory creates new event unit of work instances.
	EventUoWFactory interface {
		Create() EventUoW
	}

	// UoW manages transactions across orders, events, history, sessions and
	// resources. Used by the controller and by direct session operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   s, err := uow.SessionRepository().Get(ctx, sessionID)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		EventRepoFactory
		HistoryRepoFactory
		SessionRepoFactory
		ResourceRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
