package rabbitmq_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pickingpacking/internal/adapters/out/rabbitmq"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestNewStatusPublisher_DeclaresDurableTopicExchange(t *testing.T) {
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", rabbitmq.DefaultExchange, "topic", true, false, false, false, amqp.Table(nil)).Return(nil).Once()

	_, err := rabbitmq.NewStatusPublisher(ch, "")

	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestNewStatusPublisher_DeclareFails(t *testing.T) {
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", "wms", "topic", true, false, false, false, amqp.Table(nil)).
		Return(errors.New("channel closed"))

	_, err := rabbitmq.NewStatusPublisher(ch, "wms")

	require.ErrorContains(t, err, "declare exchange wms")
}

func TestStatusPublisher_Publish(t *testing.T) {
	connectorID := kernel.NewUUID()
	change := ports.StatusChange{
		OrderID:      kernel.NewUUID(),
		ConnectorID:  &connectorID,
		RemoteID:     "AMZ-1001",
		StatusBefore: order.New,
		StatusAfter:  order.PickingInProgress,
		OccurredAt:   time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}

	ch := new(MockChannel)
	ch.On("ExchangeDeclare", "wms", "topic", true, false, false, false, amqp.Table(nil)).Return(nil)

	var published amqp.Publishing
	ch.On("PublishWithContext", mock.Anything, "wms", "order.status.picking_in_progress", false, false, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(5).(amqp.Publishing) }).
		Return(nil).Once()

	publisher, err := rabbitmq.NewStatusPublisher(ch, "wms")
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(t.Context(), change))
	ch.AssertExpectations(t)

	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, amqp.Persistent, published.DeliveryMode)

	var msg rabbitmq.StatusMessage
	require.NoError(t, json.Unmarshal(published.Body, &msg))
	assert.Equal(t, change.OrderID.String(), msg.OrderID)
	assert.Equal(t, connectorID.String(), msg.ConnectorID)
	assert.Equal(t, "NEW_ORDER", msg.StatusBefore)
	assert.Equal(t, "PICKING_IN_PROGRESS", msg.StatusAfter)
	assert.True(t, change.OccurredAt.Equal(msg.OccurredAt))
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "order.status.shipped", rabbitmq.RoutingKey(ports.StatusChange{StatusAfter: order.Shipped}))
	assert.Equal(t, "order.status.canceled", rabbitmq.RoutingKey(ports.StatusChange{StatusAfter: order.Canceled}))
}
