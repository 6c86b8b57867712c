package memory

import (
	"context"
	"slices"

	"pickingpacking/internal/core/domain/model/history"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
)

type historyRepository struct {
	uow *UnitOfWork
}

func (r *historyRepository) Add(_ context.Context, entry *history.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		if _, ok := s.orders[entry.OrderID()]; !ok {
			return errs.NewObjectNotFoundError("order", entry.OrderID().String())
		}
		entries := s.history[entry.OrderID()]
		s.history[entry.OrderID()] = append(slices.Clip(entries), entry)
		return nil
	})
}

func (r *historyRepository) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*history.Entry, error) {
	entries := slices.Clone(r.uow.current().history[orderID])
	slices.SortStableFunc(entries, func(a, b *history.Entry) int { return a.Compare(b) })
	return entries, nil
}

func (r *historyRepository) MaxSeq(_ context.Context) (int64, error) {
	var maxSeq int64
	for _, entries := range r.uow.current().history {
		for _, e := range entries {
			maxSeq = max(maxSeq, e.Created().Seq())
		}
	}
	return maxSeq, nil
}
