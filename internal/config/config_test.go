package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
player:
  tick_interval: 12ms
  metrics_addr: ":9102"
position_type: scalar
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 12*time.Millisecond, cfg.Player.TickInterval)
	assert.Equal(t, ":9102", cfg.Player.MetricsAddr)
	assert.Equal(t, PositionScalar, cfg.PositionType)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MOTION_LOGGING_LEVEL", "warn")
	t.Setenv("MOTION_PLAYER_TICK_INTERVAL", "20ms")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 20*time.Millisecond, cfg.Player.TickInterval)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "read config")

	t.Setenv("MOTION_POSITION_TYPE", "quaternion")
	_, err = Load("")
	require.ErrorContains(t, err, `unknown position_type "quaternion"`)
}

func TestReadSkipsValidation(t *testing.T) {
	t.Setenv("MOTION_POSITION_TYPE", "quaternion")

	cfg, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, "quaternion", cfg.PositionType)
	require.Error(t, cfg.Validate())

	cfg.PositionType = PositionScalar
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Player.TickInterval = 0
	require.ErrorContains(t, cfg.Validate(), "tick_interval")
}
