package commands_test

import (
	"context"
	"sync/atomic"

	"pickingpacking/internal/core/application/usecases/commands"
	"pickingpacking/internal/core/domain/model/connector"
	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/history"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ExistsByRemoteID(ctx context.Context, connectorID *kernel.UUID, remoteID string) (bool, error) {
	args := m.Called(ctx, connectorID, remoteID)
	return args.Bool(0), args.Error(1)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Add(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Get(ctx context.Context, id kernel.UUID) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListPending(ctx context.Context, orderID kernel.UUID) ([]*event.Event, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetLastProcessed(ctx context.Context, orderID kernel.UUID) (*event.Event, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListOrdersWithPending(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockEventRepository) MaxSeq(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) Add(ctx context.Context, entry *history.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*history.Entry, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*history.Entry), args.Error(1)
}

func (m *MockHistoryRepository) MaxSeq(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockConnectorRepository struct{ mock.Mock }

func (m *MockConnectorRepository) Add(ctx context.Context, c *connector.Connector) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConnectorRepository) Get(ctx context.Context, id kernel.UUID) (*connector.Connector, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connector.Connector), args.Error(1)
}

func (m *MockConnectorRepository) FindByName(ctx context.Context, name string) (*connector.Connector, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connector.Connector), args.Error(1)
}

// MockTx implements the transaction half of every unit of work.
type MockTx struct{ mock.Mock }

func (m *MockTx) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockIngestUoW struct {
	MockTx
}

func (m *MockIngestUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockIngestUoW) ConnectorRepository() ports.ConnectorRepository {
	args := m.Called()
	return args.Get(0).(ports.ConnectorRepository)
}

func (m *MockIngestUoW) HistoryRepository() ports.HistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.HistoryRepository)
}

type MockIngestUoWFactory struct{ mock.Mock }

func (m *MockIngestUoWFactory) Create() commands.IngestUoW {
	args := m.Called()
	return args.Get(0).(commands.IngestUoW)
}

type MockEventUoW struct {
	MockTx
}

func (m *MockEventUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockEventUoW) EventRepository() ports.EventRepository {
	args := m.Called()
	return args.Get(0).(ports.EventRepository)
}

type MockEventUoWFactory struct{ mock.Mock }

func (m *MockEventUoWFactory) Create() commands.EventUoW {
	args := m.Called()
	return args.Get(0).(commands.EventUoW)
}

// countingTrigger counts controller kicks.
type countingTrigger struct {
	kicks atomic.Int32
}

func (c *countingTrigger) Kick() {
	c.kicks.Add(1)
}

func (c *countingTrigger) Count() int {
	return int(c.kicks.Load())
}
