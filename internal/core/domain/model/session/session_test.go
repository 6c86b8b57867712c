package session_test

import (
	"testing"
	"time"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newPicking(t *testing.T, steps int) *session.Session {
	t.Helper()
	s, err := session.NewSession(kernel.NewUUID(), session.Picking, kernel.NewUUID(), kernel.NewUUID(), "alice", steps, t0)
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	t.Run("should create an in-progress session", func(t *testing.T) {
		orderID := kernel.NewUUID()
		cartID := kernel.NewUUID()

		s, err := session.NewSession(kernel.NewUUID(), session.Picking, orderID, cartID, " alice ", 3, t0)

		require.NoError(t, err)
		require.NoError(t, s.Validate())
		assert.Equal(t, session.InProgress, s.Status())
		assert.True(t, s.IsActive())
		assert.Equal(t, "alice", s.CreatedBy())
		assert.Equal(t, "alice", s.CurrentUser())
		assert.Equal(t, 3, s.TotalSteps())
		assert.Zero(t, s.CompletedSteps())
		assert.True(t, s.OrderID().IsEqual(orderID))
		require.NotNil(t, s.ResourceID())
		assert.True(t, s.ResourceID().IsEqual(cartID))
		assert.Equal(t, t0, s.CreatedAt())
	})

	t.Run("should reject zero steps", func(t *testing.T) {
		_, err := session.NewSession(kernel.NewUUID(), session.Packing, kernel.NewUUID(), kernel.NewUUID(), "bob", 0, t0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "totalSteps")
	})

	t.Run("should require a resource and a kind", func(t *testing.T) {
		_, err := session.NewSession(kernel.NewUUID(), session.Picking, kernel.NewUUID(), kernel.UUID{}, "bob", 1, t0)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

		_, err = session.NewSession(kernel.NewUUID(), session.UnknownKind, kernel.NewUUID(), kernel.NewUUID(), "bob", 1, t0)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRestoreSession(t *testing.T) {
	t.Run("should restore a released session without a resource", func(t *testing.T) {
		s, err := session.RestoreSession(session.Snapshot{
			ID:             kernel.NewUUID(),
			Kind:           session.Packing,
			OrderID:        kernel.NewUUID(),
			CreatedBy:      "alice",
			CurrentUser:    "bob",
			TotalSteps:     2,
			CompletedSteps: 2,
			Status:         session.Completed,
			CreatedAt:      t0,
			UpdatedAt:      t0.Add(time.Minute),
		})

		require.NoError(t, err)
		assert.Nil(t, s.ResourceID())
		assert.False(t, s.IsActive())
		assert.Equal(t, "bob", s.CurrentUser())
	})

	t.Run("should reject completed steps beyond the total", func(t *testing.T) {
		_, err := session.RestoreSession(session.Snapshot{
			ID:             kernel.NewUUID(),
			Kind:           session.Picking,
			OrderID:        kernel.NewUUID(),
			TotalSteps:     1,
			CompletedSteps: 2,
			Status:         session.InProgress,
			CreatedAt:      t0,
		})

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestSession_RecordStep(t *testing.T) {
	t.Run("should complete on the last step", func(t *testing.T) {
		s := newPicking(t, 2)

		require.NoError(t, s.RecordStep(t0.Add(time.Second)))
		assert.Equal(t, session.InProgress, s.Status())
		assert.Equal(t, 1, s.CompletedSteps())

		require.NoError(t, s.RecordStep(t0.Add(2*time.Second)))
		assert.Equal(t, session.Completed, s.Status())
		assert.Equal(t, 2, s.CompletedSteps())
		assert.False(t, s.IsActive())
		assert.Equal(t, t0.Add(2*time.Second), s.UpdatedAt())
	})

	t.Run("should refuse steps while paused", func(t *testing.T) {
		s := newPicking(t, 2)
		require.NoError(t, s.Pause(t0))

		err := s.RecordStep(t0)

		require.ErrorIs(t, err, session.ErrInvalidTransition)
		assert.Zero(t, s.CompletedSteps())
	})

	t.Run("should refuse steps after completion", func(t *testing.T) {
		s := newPicking(t, 1)
		require.NoError(t, s.RecordStep(t0))

		require.ErrorIs(t, s.RecordStep(t0), session.ErrInvalidTransition)
		assert.Equal(t, 1, s.CompletedSteps())
	})
}

func TestSession_Lifecycle(t *testing.T) {
	t.Run("should pause and resume", func(t *testing.T) {
		s := newPicking(t, 1)

		require.NoError(t, s.Pause(t0))
		assert.Equal(t, session.Paused, s.Status())
		assert.True(t, s.IsActive())

		require.ErrorIs(t, s.Pause(t0), session.ErrInvalidTransition)

		require.NoError(t, s.Resume(t0))
		assert.Equal(t, session.InProgress, s.Status())
	})

	t.Run("should cancel from paused", func(t *testing.T) {
		s := newPicking(t, 1)
		require.NoError(t, s.Pause(t0))

		require.NoError(t, s.Cancel(t0))

		assert.Equal(t, session.Canceled, s.Status())
		require.ErrorIs(t, s.Resume(t0), session.ErrInvalidTransition)
		require.ErrorIs(t, s.Cancel(t0), session.ErrInvalidTransition)
	})

	t.Run("should never move updatedAt backwards", func(t *testing.T) {
		s := newPicking(t, 1)

		require.NoError(t, s.Pause(t0.Add(-time.Hour)))

		assert.Equal(t, t0, s.UpdatedAt())
	})
}

func TestSession_HandOff(t *testing.T) {
	t.Run("should change the current user only", func(t *testing.T) {
		s := newPicking(t, 1)

		require.NoError(t, s.HandOff("bob", t0))

		assert.Equal(t, "alice", s.CreatedBy())
		assert.Equal(t, "bob", s.CurrentUser())
	})

	t.Run("should refuse finished sessions and empty users", func(t *testing.T) {
		s := newPicking(t, 1)
		require.ErrorIs(t, s.HandOff(" ", t0), errs.ErrValueIsRequired)

		require.NoError(t, s.Cancel(t0))
		require.ErrorIs(t, s.HandOff("bob", t0), session.ErrInvalidTransition)
	})
}

func TestSession_Clone(t *testing.T) {
	s := newPicking(t, 2)

	c := s.Clone()
	require.NoError(t, c.RecordStep(t0))

	assert.Zero(t, s.CompletedSteps())
	assert.Equal(t, 1, c.CompletedSteps())
	assert.NotSame(t, s.ResourceID(), c.ResourceID())
}

func TestKind(t *testing.T) {
	assert.Equal(t, resource.PickCart, session.Picking.ResourceKind())
	assert.Equal(t, resource.PackingStation, session.Packing.ResourceKind())
	assert.Equal(t, order.LinePicked, session.Picking.TargetLineStatus())
	assert.Equal(t, order.LinePacked, session.Packing.TargetLineStatus())

	k, err := session.ParseKind("PACKING")
	require.NoError(t, err)
	assert.Equal(t, session.Packing, k)

	_, err = session.ParseKind("SHIPPING")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Parse(t *testing.T) {
	for _, st := range []session.Status{session.InProgress, session.Completed, session.Canceled, session.Paused} {
		parsed, err := session.ParseStatus(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}
	require.Error(t, session.UnknownStatus.Validate())
}
