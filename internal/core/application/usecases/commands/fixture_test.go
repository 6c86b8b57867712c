package commands_test

import (
	"bytes"
	"log/slog"
	"testing"

	"pickingpacking/internal/adapters/out/memory"
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

type uowFactory struct {
	factory ports.UnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW {
	return f.factory.Create()
}

// warehouse wires the command handlers to an in-memory store.
type warehouse struct {
	t        *testing.T
	ports    ports.UnitOfWorkFactory
	clock    *kernel.Clock
	feed     *memory.StatusFeed
	trigger  *countingTrigger
	process  commands.ProcessOrderEventsCommandHandler
	assign   commands.AssignSessionCommandHandler
	step     commands.ReportStepCommandHandler
	change   commands.ChangeSessionCommandHandler
	recorder commands.HistoryRecorder
	logs     *bytes.Buffer
}

func newWarehouse(t *testing.T) *warehouse {
	t.Helper()
	w := &warehouse{
		t:       t,
		ports:   memory.NewUnitOfWorkFactory(memory.NewStore()),
		clock:   frozenClock(),
		feed:    memory.NewStatusFeed(),
		trigger: &countingTrigger{},
		logs:    &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(w.logs, nil))
	w.recorder = commands.NewHistoryRecorder(w.clock, logger)
	feed := commands.NewStatusFeed(w.feed, nil)
	factory := uowFactory{factory: w.ports}

	w.process = commands.NewProcessOrderEventsCommandHandler(factory, w.recorder, feed)
	w.assign = commands.NewAssignSessionCommandHandler(factory, w.recorder, feed)
	w.step = commands.NewReportStepCommandHandler(factory, w.recorder, feed, w.trigger)
	w.change = commands.NewChangeSessionCommandHandler(factory, w.recorder, feed, w.trigger)
	return w
}

func (w *warehouse) order(lines int) *order.Order {
	w.t.Helper()
	items := make([]*order.Line, lines)
	for i := range items {
		l, err := order.NewLine(kernel.NewUUID(), "Item", decimal.NewFromInt(1), i+1, "")
		require.NoError(w.t, err)
		items[i] = l
	}
	o, err := order.NewOrder(kernel.NewUUID(), nil, "REM-"+kernel.NewUUID().String()[:8], "Main St 1", items)
	require.NoError(w.t, err)
	require.NoError(w.t, w.ports.Create().OrderRepository().Add(w.t.Context(), o))
	return o
}

func (w *warehouse) cart(name string, sections int) *resource.Resource {
	w.t.Helper()
	r, err := resource.NewPickCart(kernel.NewUUID(), name, sections)
	require.NoError(w.t, err)
	require.NoError(w.t, w.ports.Create().ResourceRepository().Add(w.t.Context(), r))
	return r
}

func (w *warehouse) station(name string) *resource.Resource {
	w.t.Helper()
	r, err := resource.NewPackingStation(kernel.NewUUID(), name)
	require.NoError(w.t, err)
	require.NoError(w.t, w.ports.Create().ResourceRepository().Add(w.t.Context(), r))
	return r
}

func (w *warehouse) submit(orderID kernel.UUID, typ event.Type, priority int, payload []byte) kernel.UUID {
	w.t.Helper()
	stamp, err := w.clock.Next()
	require.NoError(w.t, err)
	e, err := event.NewEvent(kernel.NewUUID(), orderID, typ, priority, payload, stamp)
	require.NoError(w.t, err)
	require.NoError(w.t, w.ports.Create().EventRepository().Add(w.t.Context(), e))
	return e.ID()
}

func (w *warehouse) drain(orderID kernel.UUID) commands.ProcessOutcome {
	w.t.Helper()
	cmd, err := commands.NewProcessOrderEventsCommand(orderID)
	require.NoError(w.t, err)
	outcome, err := w.process.Handle(w.t.Context(), cmd)
	require.NoError(w.t, err)
	return outcome
}

func (w *warehouse) reload(id kernel.UUID) *order.Order {
	w.t.Helper()
	o, err := w.ports.Create().OrderRepository().Get(w.t.Context(), id)
	require.NoError(w.t, err)
	return o
}

func (w *warehouse) event(id kernel.UUID) *event.Event {
	w.t.Helper()
	e, err := w.ports.Create().EventRepository().Get(w.t.Context(), id)
	require.NoError(w.t, err)
	return e
}

func (w *warehouse) resource(id kernel.UUID) *resource.Resource {
	w.t.Helper()
	r, err := w.ports.Create().ResourceRepository().Get(w.t.Context(), id)
	require.NoError(w.t, err)
	return r
}

func (w *warehouse) session(id kernel.UUID) *session.Session {
	w.t.Helper()
	s, err := w.ports.Create().SessionRepository().Get(w.t.Context(), id)
	require.NoError(w.t, err)
	return s
}

func (w *warehouse) history(orderID kernel.UUID) []*history.Entry {
	w.t.Helper()
	entries, err := w.ports.Create().HistoryRepository().ListByOrder(w.t.Context(), orderID)
	require.NoError(w.t, err)
	return entries
}

func (w *warehouse) reportStep(sessionID, lineID kernel.UUID) error {
	w.t.Helper()
	cmd, err := commands.NewReportStepCommand(sessionID, lineID)
	require.NoError(w.t, err)
	return w.step.Handle(w.t.Context(), cmd)
}

func (w *warehouse) changeSession(sessionID kernel.UUID, action commands.SessionAction, user string) error {
	w.t.Helper()
	cmd, err := commands.NewChangeSessionCommand(sessionID, action, user)
	require.NoError(w.t, err)
	return w.change.Handle(w.t.Context(), cmd)
}

func payload(p event.Payload) []byte {
	return p.Encode()
}
