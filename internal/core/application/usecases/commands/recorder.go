package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pickingpacking/internal/core/domain/model/history"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/core/ports"
)

// Clock issues the creation stamps of events and history entries.
// *kernel.Clock implements it.
type Clock interface {
	Next() (kernel.Stamp, error)
}

// PassTrigger asks the fulfillment controller for an early pass, e.g. after a
// resource was released or an event was submitted.
type PassTrigger interface {
	Kick()
}

// HistoryRecorder appends audit entries for every transition attempt.
//
// Example:
//
//	stamp, _ := recorder.Stamp()
//	err := recorder.Record(ctx, uow.HistoryRepository(), o.ID(), stamp,
//	    "CANCEL applied", before, o.Status(), &eventID)
type HistoryRecorder struct {
	clock  Clock
	logger *slog.Logger
}

func NewHistoryRecorder(clock Clock, logger *slog.Logger) HistoryRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return HistoryRecorder{clock: clock, logger: logger.With("component", "history-recorder")}
}

// Stamp draws the next stamp from the clock.
func (r HistoryRecorder) Stamp() (kernel.Stamp, error) {
	return r.clock.Next()
}

// Record appends one entry in the caller's unit of work.
func (r HistoryRecorder) Record(
	ctx context.Context,
	repo ports.HistoryRepository,
	orderID kernel.UUID,
	stamp kernel.Stamp,
	description string,
	before, after order.Status,
	eventID *kernel.UUID,
) error {
	entry, err := history.NewEntry(kernel.NewUUID(), orderID, stamp, description, before, after, eventID)
	if err != nil {
		return err
	}
	return repo.Add(ctx, entry)
}

// leaseViolation logs err when it reports an attempt to use a resource leased
// to another session. s may be nil when no session was created yet.
func (r HistoryRecorder) leaseViolation(ctx context.Context, err error, orderID kernel.UUID, s *session.Session) {
	if !errors.Is(err, resource.ErrResourceLeaseViolation) {
		return
	}
	attrs := []any{"order", orderID.String()}
	if s != nil {
		attrs = append(attrs, "session", s.ID().String())
		if s.ResourceID() != nil {
			attrs = append(attrs, "resource", s.ResourceID().String())
		}
	}
	r.logger.WarnContext(ctx, "resource lease violation", append(attrs, "error", err)...)
}

// StatusFeed publishes committed order status changes. Failures are logged and
// otherwise ignored: the transition is already committed.
type StatusFeed struct {
	publisher ports.StatusChangePublisher
	logger    *slog.Logger
}

// NewStatusFeed wraps a publisher. A nil publisher disables the feed.
func NewStatusFeed(publisher ports.StatusChangePublisher, logger *slog.Logger) StatusFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return StatusFeed{publisher: publisher, logger: logger.With("component", "status-feed")}
}

// Changed publishes the transition if the status actually changed.
func (f StatusFeed) Changed(ctx context.Context, o *order.Order, before order.Status, at time.Time) {
	if f.publisher == nil || before == o.Status() {
		return
	}

	change := ports.StatusChange{
		OrderID:      o.ID(),
		ConnectorID:  o.ConnectorID(),
		RemoteID:     o.RemoteID(),
		StatusBefore: before,
		StatusAfter:  o.Status(),
		OccurredAt:   at,
	}
	if err := f.publisher.Publish(ctx, change); err != nil {
		f.logger.ErrorContext(ctx, "failed to publish status change",
			"order", o.ID().String(),
			"status", o.Status().String(),
			"error", err,
		)
	}
}

type noopTrigger struct{}

func (noopTrigger) Kick() {}

func triggerOrNoop(t PassTrigger) PassTrigger {
	if t == nil {
		return noopTrigger{}
	}
	return t
}
