package cmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"pickingpacking/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 4, cfg.WorkerPoolSize)
	assert.Equal(t, "*/5 * * * * *", cfg.Schedule)
	assert.Equal(t, "fulfillment_topic", cfg.AMQPExchange)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoadConfig_EnvironmentOverridesDotenv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HTTP_PORT=9090\nDB_HOST=db.local\nLOG_LEVEL=DEBUG\n"), 0o600))
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("WORKER_POOL_SIZE", "16")
	t.Cleanup(func() {
		_ = os.Unsetenv("DB_HOST")
		_ = os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := cmd.LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.HTTPPort)
	assert.Equal(t, "db.local", cfg.DBHost)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 16, cfg.WorkerPoolSize)
	assert.True(t, cfg.UsesPostgres())
	assert.Contains(t, cfg.DSN(), "host=db.local port=5432")
}

func TestLoadConfig_RejectsEmptyPool(t *testing.T) {
	t.Setenv("WORKER_POOL_SIZE", "0")

	_, err := cmd.LoadConfig("")

	require.ErrorContains(t, err, "WORKER_POOL_SIZE")
}
