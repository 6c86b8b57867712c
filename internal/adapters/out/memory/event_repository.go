package memory

import (
	"context"
	"fmt"
	"slices"

	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
)

type eventRepository struct {
	uow *UnitOfWork
}

func (r *eventRepository) Add(_ context.Context, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		if _, ok := s.orders[e.OrderID()]; !ok {
			return errs.NewObjectNotFoundError("order", e.OrderID().String())
		}
		if _, ok := s.events[e.ID()]; ok {
			return errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("event %s already exists", e.ID()))
		}
		s.events[e.ID()] = e.Clone()
		return nil
	})
}

func (r *eventRepository) Update(_ context.Context, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		if _, ok := s.events[e.ID()]; !ok {
			return errs.NewObjectNotFoundError("event", e.ID().String())
		}
		s.events[e.ID()] = e.Clone()
		return nil
	})
}

func (r *eventRepository) Get(_ context.Context, id kernel.UUID) (*event.Event, error) {
	e, ok := r.uow.current().events[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("event", id.String())
	}
	return e.Clone(), nil
}

func (r *eventRepository) ListPending(_ context.Context, orderID kernel.UUID) ([]*event.Event, error) {
	var pending []*event.Event
	for _, e := range r.uow.current().events {
		if e.OrderID().IsEqual(orderID) && e.IsPending() {
			pending = append(pending, e.Clone())
		}
	}
	slices.SortFunc(pending, event.Compare)
	return pending, nil
}

func (r *eventRepository) GetLastProcessed(_ context.Context, orderID kernel.UUID) (*event.Event, error) {
	var last *event.Event
	for _, e := range r.uow.current().events {
		if !e.OrderID().IsEqual(orderID) || e.IsPending() {
			continue
		}
		if last == nil || e.Processed().Compare(*last.Processed()) > 0 {
			last = e
		}
	}
	if last == nil {
		return nil, errs.NewObjectNotFoundError("processed event of order", orderID.String())
	}
	return last.Clone(), nil
}

// ListOrdersWithPending orders the result by the oldest pending event of each
// order.
func (r *eventRepository) ListOrdersWithPending(_ context.Context) ([]kernel.UUID, error) {
	oldest := make(map[kernel.UUID]kernel.Stamp)
	for _, e := range r.uow.current().events {
		if !e.IsPending() {
			continue
		}
		if at, ok := oldest[e.OrderID()]; !ok || e.Created().Compare(at) < 0 {
			oldest[e.OrderID()] = e.Created()
		}
	}

	ids := make([]kernel.UUID, 0, len(oldest))
	for id := range oldest {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b kernel.UUID) int {
		return oldest[a].Compare(oldest[b])
	})
	return ids, nil
}

func (r *eventRepository) MaxSeq(_ context.Context) (int64, error) {
	var maxSeq int64
	for _, e := range r.uow.current().events {
		maxSeq = max(maxSeq, e.Created().Seq())
		if p := e.Processed(); p != nil {
			maxSeq = max(maxSeq, p.Seq())
		}
	}
	return maxSeq, nil
}
