package memory

import (
	"context"
	"fmt"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		if _, ok := s.orders[o.ID()]; ok {
			return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("order %s already exists", o.ID()))
		}
		s.orders[o.ID()] = o.Clone()
		return nil
	})
}

func (r *orderRepository) Update(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		if _, ok := s.orders[o.ID()]; !ok {
			return errs.NewObjectNotFoundError("order", o.ID().String())
		}
		s.orders[o.ID()] = o.Clone()
		return nil
	})
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := r.uow.current().orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o.Clone(), nil
}

// GetForUpdate is Get: transactions are already serialized.
func (r *orderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r *orderRepository) ExistsByRemoteID(_ context.Context, connectorID *kernel.UUID, remoteID string) (bool, error) {
	for _, o := range r.uow.current().orders {
		if o.RemoteID() != remoteID {
			continue
		}
		switch {
		case connectorID == nil && o.ConnectorID() == nil:
			return true, nil
		case connectorID != nil && o.ConnectorID() != nil && o.ConnectorID().IsEqual(*connectorID):
			return true, nil
		}
	}
	return false, nil
}
