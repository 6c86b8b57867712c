// Package memory provides an in-process implementation of the persistence
// ports. It backs tests and single-node runs without a database.
//
// Transactions are serialized: Begin takes the store's writer lock and forks
// the committed state, Commit publishes the fork, Rollback drops it. Reads
// outside a transaction see the last committed state. Stored aggregates are
// never mutated in place, every write replaces the entry with a fresh copy,
// so forking only copies the maps.
//
// Example:
//
//	store := memory.NewStore()
//	factory := memory.NewUnitOfWorkFactory(store)
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package memory

import (
	"maps"
	"sync"

	"pickingpacking/internal/core/domain/model/connector"
	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/history"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
)

// Store holds the committed state shared by every unit of work created from
// the same factory.
type Store struct {
	txMu sync.Mutex

	mu   sync.RWMutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

type state struct {
	orders     map[kernel.UUID]*order.Order
	events     map[kernel.UUID]*event.Event
	history    map[kernel.UUID][]*history.Entry
	sessions   map[kernel.UUID]*session.Session
	resources  map[kernel.UUID]*resource.Resource
	connectors map[kernel.UUID]*connector.Connector
}

func newState() *state {
	return &state{
		orders:     make(map[kernel.UUID]*order.Order),
		events:     make(map[kernel.UUID]*event.Event),
		history:    make(map[kernel.UUID][]*history.Entry),
		sessions:   make(map[kernel.UUID]*session.Session),
		resources:  make(map[kernel.UUID]*resource.Resource),
		connectors: make(map[kernel.UUID]*connector.Connector),
	}
}

// fork copies the maps. History slices are append-only and copied on write.
func (s *state) fork() *state {
	return &state{
		orders:     maps.Clone(s.orders),
		events:     maps.Clone(s.events),
		history:    maps.Clone(s.history),
		sessions:   maps.Clone(s.sessions),
		resources:  maps.Clone(s.resources),
		connectors: maps.Clone(s.connectors),
	}
}

func (s *Store) committed() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Store) publish(next *state) {
	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
}

// rebase returns a copy of r whose loaded version equals its current version,
// as if it had just been read from storage.
func rebase(r *resource.Resource) *resource.Resource {
	restored, err := resource.RestoreResource(r.ID(), r.Kind(), r.Name(), r.TotalSections(), r.LeasedBy(), r.Version())
	if err != nil {
		return r.Clone()
	}
	return restored
}
