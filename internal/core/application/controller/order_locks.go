package controller

import (
	"sync"

	"pickingpacking/internal/core/domain/model/kernel"
)

// OrderLocks is a keyed mutex: at most one goroutine of the process works on a
// given order at a time. Entries are dropped once nobody holds or waits for
// them, so the map only grows with the number of orders in flight.
type OrderLocks struct {
	mu    sync.Mutex
	locks map[kernel.UUID]*orderLock
}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

func NewOrderLocks() *OrderLocks {
	return &OrderLocks{locks: make(map[kernel.UUID]*orderLock)}
}

// Lock blocks until the order is free and returns the function releasing it.
func (l *OrderLocks) Lock(orderID kernel.UUID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[orderID]
	if !ok {
		entry = &orderLock{}
		l.locks[orderID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, orderID)
			}
			l.mu.Unlock()
		})
	}
}

// Len returns the number of orders currently locked or waited for.
func (l *OrderLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
