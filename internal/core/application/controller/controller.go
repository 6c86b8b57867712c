// Package controller runs the fulfillment loop: it finds orders with pending
// events and drains each of them through the order event processor, many
// orders in parallel and every single order strictly in sequence.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"pickingpacking/internal/core/application/usecases/commands"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	instrumentationName = "pickingpacking/internal/core/application/controller"

	// DefaultPoolSize is the number of orders drained concurrently.
	DefaultPoolSize = 4

	// maxRounds bounds the retries of one pass. A round is repeated only while
	// some order was deferred and another one made progress, since progress
	// (a CANCEL) may have released the resource the deferred order waits for.
	maxRounds = 8
)

// OrderProcessor drains the eligible events of one order.
// commands.ProcessOrderEventsCommandHandler implements it.
type OrderProcessor interface {
	Handle(ctx context.Context, cmd commands.ProcessOrderEventsCommand) (commands.ProcessOutcome, error)
}

// PassSummary aggregates the outcomes of one pass.
type PassSummary struct {
	Rounds   int
	Orders   int
	Applied  int
	Rejected int
	Deferred int
	Held     int
}

func (s *PassSummary) add(o commands.ProcessOutcome) {
	s.Orders++
	s.Applied += o.Applied
	s.Rejected += o.Rejected
	if o.Deferred {
		s.Deferred++
	}
	if o.Held {
		s.Held++
	}
}

// Controller is the fulfillment controller.
//
// Key responsibilities:
//   - Listing the orders that still have pending events
//   - Draining them on a bounded worker pool
//   - Serializing work on the same order inside the process
//   - Running an early pass whenever it is kicked
//
// A failure on one order is reported but does not stop the other orders of
// the pass.
//
// Example usage:
//
//	ctrl := controller.New(uowFactory, processHandler,
//	    controller.WithPoolSize(8),
//	    controller.WithLogger(logger),
//	)
//	go func() { _ = ctrl.Run(ctx) }()
//	ctrl.Kick()
type Controller struct {
	uowFactory ports.UnitOfWorkFactory
	processor  OrderProcessor
	locks      *OrderLocks
	poolSize   int
	kicks      chan struct{}

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics controllerMetrics
}

type Option func(*Controller)

// WithPoolSize sets the number of orders drained concurrently. Values below
// one are ignored.
func WithPoolSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer injects the tracer used for pass and order spans.
func WithTracer(tr trace.Tracer) Option {
	return func(c *Controller) {
		if tr != nil {
			c.tracer = tr
		}
	}
}

// WithMeter injects the meter used to create the event counters.
func WithMeter(m metric.Meter) Option {
	return func(c *Controller) {
		if m != nil {
			c.metrics = newControllerMetrics(m)
		}
	}
}

func New(uowFactory ports.UnitOfWorkFactory, processor OrderProcessor, opts ...Option) *Controller {
	c := &Controller{
		uowFactory: uowFactory,
		processor:  processor,
		locks:      NewOrderLocks(),
		poolSize:   DefaultPoolSize,
		kicks:      make(chan struct{}, 1),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:     nooptrace.NewTracerProvider().Tracer(instrumentationName),
		metrics:    newControllerMetrics(metricnoop.NewMeterProvider().Meter(instrumentationName)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = c.logger.With("component", "fulfillment_controller")
	return c
}

// Kick requests an early pass. It never blocks; kicks arriving while a pass
// is already requested collapse into one.
func (c *Controller) Kick() {
	select {
	case c.kicks <- struct{}{}:
	default:
	}
}

// Run performs a pass on start and after every kick until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	c.Kick()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.kicks:
			summary, err := c.RunPass(ctx)
			if err != nil && ctx.Err() == nil {
				c.logger.ErrorContext(ctx, "fulfillment pass failed", "error", err)
			}
			if summary.Orders > 0 {
				c.logger.InfoContext(ctx, "fulfillment pass finished",
					"rounds", summary.Rounds,
					"orders", summary.Orders,
					"applied", summary.Applied,
					"rejected", summary.Rejected,
					"deferred", summary.Deferred,
					"held", summary.Held,
				)
			}
		}
	}
}

// RunPass drains every order that has pending events.
//
// Returns:
//   - PassSummary: totals over every round of the pass
//   - error: the joined per-order failures, or the failure to list orders
func (c *Controller) RunPass(ctx context.Context) (PassSummary, error) {
	ctx, span := c.tracer.Start(ctx, "Controller.RunPass")
	defer span.End()

	var (
		summary PassSummary
		errs    []error
	)
	for summary.Rounds < maxRounds {
		ids, err := c.uowFactory.Create().EventRepository().ListOrdersWithPending(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return summary, fmt.Errorf("list orders with pending events: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		summary.Rounds++

		round, err := c.runRound(ctx, ids)
		summary.Orders += round.Orders
		summary.Applied += round.Applied
		summary.Rejected += round.Rejected
		summary.Deferred += round.Deferred
		summary.Held += round.Held
		if err != nil {
			errs = append(errs, err)
		}

		if round.Deferred == 0 || round.Applied == 0 || ctx.Err() != nil {
			break
		}
	}

	span.SetAttributes(
		attribute.Int("pass.rounds", summary.Rounds),
		attribute.Int("pass.orders", summary.Orders),
		attribute.Int("pass.applied", summary.Applied),
	)
	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return summary, err
}

func (c *Controller) runRound(ctx context.Context, ids []kernel.UUID) (PassSummary, error) {
	var (
		mu      sync.Mutex
		summary PassSummary
		errs    []error
	)

	g := new(errgroup.Group)
	g.SetLimit(c.poolSize)
	for _, id := range ids {
		g.Go(func() error {
			outcome, err := c.ProcessOrder(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			summary.add(outcome)
			if err != nil {
				errs = append(errs, fmt.Errorf("order %s: %w", id, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return summary, errors.Join(errs...)
}

// ProcessOrder drains one order while holding its in-process lock.
func (c *Controller) ProcessOrder(ctx context.Context, orderID kernel.UUID) (commands.ProcessOutcome, error) {
	ctx, span := c.tracer.Start(ctx, "Controller.ProcessOrder",
		trace.WithAttributes(attribute.String("order.id", orderID.String())),
	)
	defer span.End()

	unlock := c.locks.Lock(orderID)
	defer unlock()

	cmd, err := commands.NewProcessOrderEventsCommand(orderID)
	if err != nil {
		return commands.ProcessOutcome{}, err
	}

	outcome, err := c.processor.Handle(ctx, cmd)
	c.metrics.record(ctx, outcome)
	span.SetAttributes(
		attribute.Int("events.applied", outcome.Applied),
		attribute.Int("events.rejected", outcome.Rejected),
		attribute.Bool("order.deferred", outcome.Deferred),
		attribute.Bool("order.held", outcome.Held),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.ErrorContext(ctx, "failed to process order events", "order", orderID.String(), "error", err)
		return outcome, err
	}
	if outcome.Deferred {
		c.logger.DebugContext(ctx, "order deferred until a resource is free", "order", orderID.String())
	}
	return outcome, nil
}

type controllerMetrics struct {
	applied  metric.Int64Counter
	rejected metric.Int64Counter
	deferred metric.Int64Counter
}

func newControllerMetrics(m metric.Meter) controllerMetrics {
	applied, _ := m.Int64Counter("fulfillment.events.applied", metric.WithDescription("Number of events applied to orders"))
	rejected, _ := m.Int64Counter("fulfillment.events.rejected", metric.WithDescription("Number of events consumed with a rejection"))
	deferred, _ := m.Int64Counter("fulfillment.orders.deferred", metric.WithDescription("Number of order drains stopped for lack of a free resource"))
	return controllerMetrics{applied: applied, rejected: rejected, deferred: deferred}
}

func (m controllerMetrics) record(ctx context.Context, o commands.ProcessOutcome) {
	addCounter(ctx, m.applied, int64(o.Applied))
	addCounter(ctx, m.rejected, int64(o.Rejected))
	if o.Deferred {
		addCounter(ctx, m.deferred, 1)
	}
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64) {
	if counter == nil || value == 0 {
		return
	}
	counter.Add(ctx, value)
}
