package connector_test

import (
	"testing"

	"pickingpacking/internal/core/domain/model/connector"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnector(t *testing.T) {
	t.Run("should start stopped", func(t *testing.T) {
		c, err := connector.NewConnector(kernel.NewUUID(), " amazon-eu ")

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, "amazon-eu", c.Name())
		assert.Equal(t, connector.Stopped, c.Status())
		assert.Equal(t, connector.Stop, c.Command())
	})

	t.Run("should require a name", func(t *testing.T) {
		_, err := connector.NewConnector(kernel.NewUUID(), "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRestoreConnector(t *testing.T) {
	c, err := connector.RestoreConnector(kernel.NewUUID(), "shopify", connector.Failed, connector.Run)
	require.NoError(t, err)
	assert.Equal(t, connector.Failed, c.Status())

	_, err = connector.RestoreConnector(kernel.NewUUID(), "shopify", connector.UnknownStatus, connector.UnknownCommand)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestParse(t *testing.T) {
	s, err := connector.ParseStatus("RUNNING")
	require.NoError(t, err)
	assert.Equal(t, connector.Running, s)

	cmd, err := connector.ParseCommand("STOP")
	require.NoError(t, err)
	assert.Equal(t, connector.Stop, cmd)

	_, err = connector.ParseStatus("PAUSED")
	require.Error(t, err)
}
