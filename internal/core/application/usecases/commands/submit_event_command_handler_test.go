package commands_test

import (
	"errors"
	"testing"

	"pickingpacking/internal/core/application/usecases/commands"
	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubmitEventCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o, err := order.NewOrder(kernel.NewUUID(), nil, "AMZ-1", "", nil)
	require.NoError(t, err)
	cmd, err := commands.NewSubmitEventCommand(kernel.NewUUID(), o.ID(), event.Hold, 7, []byte(`{"user":"alice"}`))
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	events := new(MockEventRepository)
	uow := new(MockEventUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("EventRepository").Return(events).Once(),
		events.On("Add", ctx, mock.MatchedBy(func(e *event.Event) bool {
			return e.ID().IsEqual(cmd.EventID()) && e.IsPending() && e.Priority() == 7 && e.Created().Seq() == 1
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockEventUoWFactory)
	factory.On("Create").Return(uow).Once()
	trigger := &countingTrigger{}

	h := commands.NewSubmitEventCommandHandler(factory, frozenClock(), trigger)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, trigger.Count())
	orders.AssertExpectations(t)
	events.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestSubmitEventCommandHandler_Handle_UnknownOrder(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewSubmitEventCommand(kernel.NewUUID(), orderID, event.Cancel, 0, nil)
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	uow := new(MockEventUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("order", orderID.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockEventUoWFactory)
	factory.On("Create").Return(uow).Once()
	trigger := &countingTrigger{}

	h := commands.NewSubmitEventCommandHandler(factory, frozenClock(), trigger)
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Zero(t, trigger.Count())
	uow.AssertExpectations(t)
}

func TestSubmitEventCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	o, err := order.NewOrder(kernel.NewUUID(), nil, "AMZ-1", "", nil)
	require.NoError(t, err)
	cmd, err := commands.NewSubmitEventCommand(kernel.NewUUID(), o.ID(), event.Cancel, 0, nil)
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	events := new(MockEventRepository)
	uow := new(MockEventUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("EventRepository").Return(events).Once(),
		events.On("Add", ctx, mock.AnythingOfType("*event.Event")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockEventUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitEventCommandHandler(factory, frozenClock(), nil)
	err = h.Handle(ctx, cmd)

	require.EqualError(t, err, "add error")
	uow.AssertExpectations(t)
}

func TestNewSubmitEventCommand(t *testing.T) {
	t.Run("should copy the payload", func(t *testing.T) {
		payload := []byte(`{"user":"alice"}`)
		cmd, err := commands.NewSubmitEventCommand(kernel.NewUUID(), kernel.NewUUID(), event.PickingSessionAssignment, 3, payload)
		require.NoError(t, err)

		payload[0] = 'X'

		assert.JSONEq(t, `{"user":"alice"}`, string(cmd.Payload()))
		assert.Equal(t, event.PickingSessionAssignment, cmd.Type())
		assert.Equal(t, 3, cmd.Priority())
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		_, err := commands.NewSubmitEventCommand(kernel.NewUUID(), kernel.NewUUID(), event.UnknownType, 0, nil)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should refuse a zero command", func(t *testing.T) {
		require.ErrorIs(t, commands.SubmitEventCommand{}.Validate(), commands.ErrSubmitEventCommandIsNotConstructed)
	})
}
