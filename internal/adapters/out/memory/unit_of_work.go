package memory

import (
	"context"
	"errors"

	"pickingpacking/internal/core/ports"
)

// ErrInvalidTransaction is returned by Commit and Rollback without an active
// transaction.
var ErrInvalidTransaction = errors.New("invalid transaction")

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork is not safe for concurrent use; create one per operation.
type UnitOfWork struct {
	store *Store
	tx    *state
}

// Begin blocks until no other transaction is active. Calling it twice is a no-op.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.txMu.Lock()
	u.tx = u.store.committed().fork()
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return ErrInvalidTransaction
	}
	u.store.publish(u.tx)
	u.tx = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return ErrInvalidTransaction
	}
	u.tx = nil
	u.store.txMu.Unlock()
	return nil
}

// current returns the transaction state, or the committed state for reads
// outside a transaction.
func (u *UnitOfWork) current() *state {
	if u.tx != nil {
		return u.tx
	}
	return u.store.committed()
}

// writable returns the transaction state. Writes outside a transaction run in
// their own implicit transaction.
func (u *UnitOfWork) writable(fn func(s *state) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}

	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()
	next := u.store.committed().fork()
	if err := fn(next); err != nil {
		return err
	}
	u.store.publish(next)
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) EventRepository() ports.EventRepository {
	return &eventRepository{uow: u}
}

func (u *UnitOfWork) HistoryRepository() ports.HistoryRepository {
	return &historyRepository{uow: u}
}

func (u *UnitOfWork) SessionRepository() ports.SessionRepository {
	return &sessionRepository{uow: u}
}

func (u *UnitOfWork) ResourceRepository() ports.ResourceRepository {
	return &resourceRepository{uow: u}
}

func (u *UnitOfWork) ConnectorRepository() ports.ConnectorRepository {
	return &connectorRepository{uow: u}
}
