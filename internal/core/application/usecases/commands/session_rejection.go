package commands

import (
	"context"
	"errors"
	"fmt"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
)

// isDomainRejection reports whether a direct session operation failed on a
// state machine guard. Such attempts are audited before the error is returned.
func isDomainRejection(err error) bool {
	return errors.Is(err, order.ErrInvalidTransition) ||
		errors.Is(err, order.ErrOutOfSequenceLineUpdate) ||
		errors.Is(err, session.ErrInvalidTransition) ||
		errors.Is(err, resource.ErrResourceLeaseViolation)
}

// reject records a failed attempt in a unit of work that has not written
// anything else, commits it and returns cause.
func (r HistoryRecorder) reject(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	stamp kernel.Stamp,
	status order.Status,
	attempt string,
	cause error,
) error {
	description := fmt.Sprintf("%s rejected: %v", attempt, cause)
	if err := r.Record(ctx, uow.HistoryRepository(), orderID, stamp, description, status, status, nil); err != nil {
		return errors.Join(cause, err)
	}
	if err := uow.Commit(ctx); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
