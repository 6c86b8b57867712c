package commands_test

import (
	"testing"

	"pickingpacking/internal/core/application/usecases/commands"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/core/domain/services"
	"pickingpacking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (w *warehouse) assignSession(orderID kernel.UUID, kind session.Kind, resourceID *kernel.UUID, user string) (kernel.UUID, error) {
	w.t.Helper()
	sessionID := kernel.NewUUID()
	cmd, err := commands.NewAssignSessionCommand(sessionID, orderID, kind, resourceID, user, nil)
	require.NoError(w.t, err)
	return sessionID, w.assign.Handle(w.t.Context(), cmd)
}

func TestAssignSessionCommandHandler(t *testing.T) {
	t.Run("should lease the requested cart", func(t *testing.T) {
		w := newWarehouse(t)
		w.cart("CART-01", 2)
		wanted := w.cart("CART-02", 2)
		o := w.order(1)
		wantedID := wanted.ID()

		sessionID, err := w.assignSession(o.ID(), session.Picking, &wantedID, "alice")

		require.NoError(t, err)
		assert.True(t, w.resource(wanted.ID()).IsHeldBy(sessionID))
		got := w.reload(o.ID())
		assert.Equal(t, order.PickingInProgress, got.Status())
		assert.True(t, got.PickingSessionID().IsEqual(sessionID))
		entries := w.history(o.ID())
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Description(), "assigned to alice on CART-02")
		assert.Len(t, w.feed.Changes(), 1)
	})

	t.Run("should report a busy cart without recording anything", func(t *testing.T) {
		w := newWarehouse(t)
		cart := w.cart("CART-01", 2)
		cartID := cart.ID()
		first := w.order(1)
		second := w.order(1)
		_, err := w.assignSession(first.ID(), session.Picking, &cartID, "alice")
		require.NoError(t, err)

		_, err = w.assignSession(second.ID(), session.Picking, &cartID, "bob")

		require.ErrorIs(t, err, services.ErrResourceUnavailable)
		assert.Equal(t, order.New, w.reload(second.ID()).Status())
		assert.Empty(t, w.history(second.ID()))
	})

	t.Run("should audit a rejected assignment", func(t *testing.T) {
		w := newWarehouse(t)
		w.cart("CART-01", 2)
		w.station("PACK-01")
		o := w.order(1)

		_, err := w.assignSession(o.ID(), session.Packing, nil, "alice")

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		entries := w.history(o.ID())
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Description(), "PACKING session by alice rejected")
		assert.Equal(t, order.New, entries[0].StatusAfter())
	})

	t.Run("should refuse an order without lines", func(t *testing.T) {
		w := newWarehouse(t)
		w.cart("CART-01", 2)
		o := w.order(0)

		_, err := w.assignSession(o.ID(), session.Picking, nil, "alice")

		require.ErrorIs(t, err, order.ErrOrderHasNoLines)
	})
}

func TestReportStepCommandHandler(t *testing.T) {
	t.Run("should complete picking on the last line and release the cart", func(t *testing.T) {
		w := newWarehouse(t)
		cart := w.cart("CART-01", 2)
		o := w.order(2)
		sessionID, err := w.assignSession(o.ID(), session.Picking, nil, "alice")
		require.NoError(t, err)
		lines := o.Lines()

		require.NoError(t, w.reportStep(sessionID, lines[1].ID()))
		assert.Equal(t, order.PickingInProgress, w.reload(o.ID()).Status())
		assert.Zero(t, w.trigger.Count())

		require.NoError(t, w.reportStep(sessionID, lines[0].ID()))

		assert.Equal(t, order.PickingCompleted, w.reload(o.ID()).Status())
		s := w.session(sessionID)
		assert.Equal(t, session.Completed, s.Status())
		assert.Equal(t, 2, s.CompletedSteps())
		assert.True(t, w.resource(cart.ID()).IsFree())
		assert.Equal(t, 1, w.trigger.Count())
	})

	t.Run("should audit an out of sequence scan", func(t *testing.T) {
		w := newWarehouse(t)
		w.cart("CART-01", 2)
		o := w.order(2)
		sessionID, err := w.assignSession(o.ID(), session.Picking, nil, "alice")
		require.NoError(t, err)
		line := o.Lines()[0].ID()
		require.NoError(t, w.reportStep(sessionID, line))

		err = w.reportStep(sessionID, line)

		require.ErrorIs(t, err, order.ErrOutOfSequenceLineUpdate)
		assert.Equal(t, 1, w.session(sessionID).CompletedSteps())
		entries := w.history(o.ID())
		require.Len(t, entries, 3)
		assert.Contains(t, entries[2].Description(), "rejected")
	})

	t.Run("should refuse steps on a paused session", func(t *testing.T) {
		w := newWarehouse(t)
		w.cart("CART-01", 2)
		o := w.order(1)
		sessionID, err := w.assignSession(o.ID(), session.Picking, nil, "alice")
		require.NoError(t, err)
		require.NoError(t, w.changeSession(sessionID, commands.PauseSession, ""))

		err = w.reportStep(sessionID, o.Lines()[0].ID())

		require.ErrorIs(t, err, session.ErrInvalidTransition)
		assert.Equal(t, order.PickingInProgress, w.reload(o.ID()).Status())
	})

	t.Run("should return not found for unknown sessions", func(t *testing.T) {
		w := newWarehouse(t)

		err := w.reportStep(kernel.NewUUID(), kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestChangeSessionCommandHandler(t *testing.T) {
	t.Run("should pause, hand off and resume", func(t *testing.T) {
		w := newWarehouse(t)
		cart := w.cart("CART-01", 2)
		o := w.order(1)
		sessionID, err := w.assignSession(o.ID(), session.Picking, nil, "alice")
		require.NoError(t, err)

		require.NoError(t, w.changeSession(sessionID, commands.PauseSession, ""))
		assert.Equal(t, session.Paused, w.session(sessionID).Status())
		assert.True(t, w.resource(cart.ID()).IsHeldBy(sessionID))

		require.NoError(t, w.changeSession(sessionID, commands.HandOffSession, "bob"))
		require.NoError(t, w.changeSession(sessionID, commands.ResumeSession, ""))

		s := w.session(sessionID)
		assert.Equal(t, session.InProgress, s.Status())
		assert.Equal(t, "alice", s.CreatedBy())
		assert.Equal(t, "bob", s.CurrentUser())
		assert.Len(t, w.history(o.ID()), 4)
		assert.Zero(t, w.trigger.Count())
	})

	t.Run("should audit resuming a running session", func(t *testing.T) {
		w := newWarehouse(t)
		w.cart("CART-01", 2)
		o := w.order(1)
		sessionID, err := w.assignSession(o.ID(), session.Picking, nil, "alice")
		require.NoError(t, err)

		err = w.changeSession(sessionID, commands.ResumeSession, "")

		require.ErrorIs(t, err, session.ErrInvalidTransition)
		assert.Len(t, w.history(o.ID()), 2)
	})

	t.Run("should log and audit resuming after the lease was lost", func(t *testing.T) {
		w := newWarehouse(t)
		cart := w.cart("CART-01", 2)
		o := w.order(1)
		sessionID, err := w.assignSession(o.ID(), session.Picking, nil, "alice")
		require.NoError(t, err)
		require.NoError(t, w.changeSession(sessionID, commands.PauseSession, ""))

		stolen := w.resource(cart.ID())
		require.NoError(t, stolen.Release(sessionID))
		require.NoError(t, stolen.Acquire(kernel.NewUUID()))
		require.NoError(t, w.ports.Create().ResourceRepository().Update(t.Context(), stolen))

		err = w.changeSession(sessionID, commands.ResumeSession, "")

		require.ErrorIs(t, err, resource.ErrResourceLeaseViolation)
		assert.Equal(t, session.Paused, w.session(sessionID).Status())
		assert.Len(t, w.history(o.ID()), 3)
		logs := w.logs.String()
		assert.Contains(t, logs, "level=WARN")
		assert.Contains(t, logs, "resource lease violation")
		assert.Contains(t, logs, "session="+sessionID.String())
		assert.Contains(t, logs, "resource="+cart.ID().String())
		assert.Contains(t, logs, "order="+o.ID().String())
	})

	t.Run("should not log ordinary rejections as lease violations", func(t *testing.T) {
		w := newWarehouse(t)
		w.cart("CART-01", 2)
		o := w.order(1)
		sessionID, err := w.assignSession(o.ID(), session.Picking, nil, "alice")
		require.NoError(t, err)

		require.ErrorIs(t, w.changeSession(sessionID, commands.ResumeSession, ""), session.ErrInvalidTransition)

		assert.NotContains(t, w.logs.String(), "resource lease violation")
	})

	t.Run("should cancel and let a shorter session replace it", func(t *testing.T) {
		w := newWarehouse(t)
		cart := w.cart("CART-01", 2)
		o := w.order(3)
		sessionID, err := w.assignSession(o.ID(), session.Picking, nil, "alice")
		require.NoError(t, err)
		require.NoError(t, w.reportStep(sessionID, o.Lines()[0].ID()))

		require.NoError(t, w.changeSession(sessionID, commands.CancelSession, ""))

		assert.Equal(t, session.Canceled, w.session(sessionID).Status())
		assert.True(t, w.resource(cart.ID()).IsFree())
		assert.Equal(t, order.New, w.reload(o.ID()).Status())
		assert.Equal(t, 1, w.trigger.Count())

		replacement, err := w.assignSession(o.ID(), session.Picking, nil, "bob")
		require.NoError(t, err)
		assert.Equal(t, 2, w.session(replacement).TotalSteps())
	})

	t.Run("should refuse a second cancel", func(t *testing.T) {
		w := newWarehouse(t)
		w.cart("CART-01", 2)
		o := w.order(1)
		sessionID, err := w.assignSession(o.ID(), session.Picking, nil, "alice")
		require.NoError(t, err)
		require.NoError(t, w.changeSession(sessionID, commands.CancelSession, ""))

		err = w.changeSession(sessionID, commands.CancelSession, "")

		require.ErrorIs(t, err, session.ErrInvalidTransition)
	})
}

func TestSessionCommands_Constructors(t *testing.T) {
	t.Run("should require a user for assignments", func(t *testing.T) {
		_, err := commands.NewAssignSessionCommand(kernel.NewUUID(), kernel.NewUUID(), session.Picking, nil, " ", nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject cart sections below one", func(t *testing.T) {
		section := 0
		_, err := commands.NewAssignSessionCommand(kernel.NewUUID(), kernel.NewUUID(), session.Picking, nil, "alice", &section)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should require a user for hand-offs only", func(t *testing.T) {
		_, err := commands.NewChangeSessionCommand(kernel.NewUUID(), commands.HandOffSession, "")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		cmd, err := commands.NewChangeSessionCommand(kernel.NewUUID(), commands.PauseSession, "")
		require.NoError(t, err)
		assert.Equal(t, "pause", cmd.Action().String())
	})

	t.Run("should reject unknown actions", func(t *testing.T) {
		_, err := commands.NewChangeSessionCommand(kernel.NewUUID(), commands.UnknownSessionAction, "")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should refuse zero commands", func(t *testing.T) {
		require.ErrorIs(t, commands.ReportStepCommand{}.Validate(), commands.ErrReportStepCommandIsNotConstructed)
		require.ErrorIs(t, commands.ChangeSessionCommand{}.Validate(), commands.ErrChangeSessionCommandIsNotConstructed)
		require.ErrorIs(t, commands.AssignSessionCommand{}.Validate(), commands.ErrAssignSessionCommandIsNotConstructed)
	})
}
