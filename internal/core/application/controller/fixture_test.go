package controller_test

import (
	"testing"
	"time"

	"pickingpacking/internal/adapters/out/memory"
	"pickingpacking/internal/core/application/controller"
	"pickingpacking/internal/core/application/usecases/commands"
	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/history"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type uowFactory struct{ ports.UnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.UnitOfWorkFactory.Create() }

type eventUoWFactory struct{ ports.UnitOfWorkFactory }

func (f eventUoWFactory) Create() commands.EventUoW { return f.UnitOfWorkFactory.Create() }

type ingestUoWFactory struct{ ports.UnitOfWorkFactory }

func (f ingestUoWFactory) Create() commands.IngestUoW { return f.UnitOfWorkFactory.Create() }

// floor is a warehouse floor driven by a controller over an in-memory store.
type floor struct {
	t      *testing.T
	store  ports.UnitOfWorkFactory
	clock  *kernel.Clock
	ctrl   *controller.Controller
	ingest commands.IngestOrderCommandHandler
	events commands.SubmitEventCommandHandler
	step   commands.ReportStepCommandHandler
	change commands.ChangeSessionCommandHandler
}

func newFloor(t *testing.T, opts ...controller.Option) *floor {
	t.Helper()
	store := memory.NewUnitOfWorkFactory(memory.NewStore())
	clock := kernel.NewClock(kernel.NewAtomicSequence(0), kernel.WithNow(func() time.Time { return t0 }))
	recorder := commands.NewHistoryRecorder(clock, nil)
	feed := commands.NewStatusFeed(memory.NewStatusFeed(), nil)

	process := commands.NewProcessOrderEventsCommandHandler(uowFactory{store}, recorder, feed)
	ctrl := controller.New(store, process, opts...)

	return &floor{
		t:      t,
		store:  store,
		clock:  clock,
		ctrl:   ctrl,
		ingest: commands.NewIngestOrderCommandHandler(ingestUoWFactory{store}, recorder),
		events: commands.NewSubmitEventCommandHandler(eventUoWFactory{store}, clock, ctrl),
		step:   commands.NewReportStepCommandHandler(uowFactory{store}, recorder, feed, ctrl),
		change: commands.NewChangeSessionCommandHandler(uowFactory{store}, recorder, feed, ctrl),
	}
}

func (f *floor) order(remoteID string, products ...string) *order.Order {
	f.t.Helper()
	lines := make([]commands.LineInput, len(products))
	for i, p := range products {
		lines[i] = commands.LineInput{ProductName: p, Quantity: decimal.NewFromInt(1), Location: i + 1}
	}
	cmd, err := commands.NewIngestOrderCommand(kernel.NewUUID(), nil, remoteID, "Main St 1", lines)
	require.NoError(f.t, err)
	require.NoError(f.t, f.ingest.Handle(f.t.Context(), cmd))
	return f.reload(cmd.OrderID())
}

func (f *floor) cart(name string) *resource.Resource {
	f.t.Helper()
	r, err := resource.NewPickCart(kernel.NewUUID(), name, 4)
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.Create().ResourceRepository().Add(f.t.Context(), r))
	return r
}

func (f *floor) station(name string) *resource.Resource {
	f.t.Helper()
	r, err := resource.NewPackingStation(kernel.NewUUID(), name)
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.Create().ResourceRepository().Add(f.t.Context(), r))
	return r
}

func (f *floor) submit(orderID kernel.UUID, typ event.Type, priority int, p event.Payload) kernel.UUID {
	f.t.Helper()
	cmd, err := commands.NewSubmitEventCommand(kernel.NewUUID(), orderID, typ, priority, p.Encode())
	require.NoError(f.t, err)
	require.NoError(f.t, f.events.Handle(f.t.Context(), cmd))
	return cmd.EventID()
}

func (f *floor) pass() controller.PassSummary {
	f.t.Helper()
	summary, err := f.ctrl.RunPass(f.t.Context())
	require.NoError(f.t, err)
	return summary
}

func (f *floor) reportStep(sessionID, lineID kernel.UUID) {
	f.t.Helper()
	cmd, err := commands.NewReportStepCommand(sessionID, lineID)
	require.NoError(f.t, err)
	require.NoError(f.t, f.step.Handle(f.t.Context(), cmd))
}

// completeSession reports a step for every line of the order.
func (f *floor) completeSession(orderID, sessionID kernel.UUID) {
	f.t.Helper()
	for _, l := range f.reload(orderID).Lines() {
		f.reportStep(sessionID, l.ID())
	}
}

func (f *floor) reload(id kernel.UUID) *order.Order {
	f.t.Helper()
	o, err := f.store.Create().OrderRepository().Get(f.t.Context(), id)
	require.NoError(f.t, err)
	return o
}

func (f *floor) event(id kernel.UUID) *event.Event {
	f.t.Helper()
	e, err := f.store.Create().EventRepository().Get(f.t.Context(), id)
	require.NoError(f.t, err)
	return e
}

func (f *floor) resource(id kernel.UUID) *resource.Resource {
	f.t.Helper()
	r, err := f.store.Create().ResourceRepository().Get(f.t.Context(), id)
	require.NoError(f.t, err)
	return r
}

func (f *floor) session(id kernel.UUID) *session.Session {
	f.t.Helper()
	s, err := f.store.Create().SessionRepository().Get(f.t.Context(), id)
	require.NoError(f.t, err)
	return s
}

func (f *floor) pending(orderID kernel.UUID) []*event.Event {
	f.t.Helper()
	events, err := f.store.Create().EventRepository().ListPending(f.t.Context(), orderID)
	require.NoError(f.t, err)
	return events
}

func (f *floor) history(orderID kernel.UUID) []*history.Entry {
	f.t.Helper()
	entries, err := f.store.Create().HistoryRepository().ListByOrder(f.t.Context(), orderID)
	require.NoError(f.t, err)
	return entries
}
