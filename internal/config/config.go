// Package config loads engine configuration from an optional file and
// MOTION_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cxd309/motion-engine/internal/logging"
)

// Position types a motion can drive.
const (
	PositionScalar = "scalar"
	PositionJoints = "joints"
)

// EnvPrefix prefixes every environment override, e.g. MOTION_LOGGING_LEVEL.
const EnvPrefix = "MOTION"

// Config is the engine configuration.
type Config struct {
	Logging logging.Config `mapstructure:"logging"`
	Player  PlayerConfig   `mapstructure:"player"`

	// PositionType selects how motion file positions are decoded.
	// Default: joints.
	PositionType string `mapstructure:"position_type"`
}

// PlayerConfig configures the real-time player.
type PlayerConfig struct {
	// TickInterval is the control cycle period and the time step of every tick.
	// Default: 10ms.
	TickInterval time.Duration `mapstructure:"tick_interval"`

	// MetricsAddr serves Prometheus metrics while playing when non-empty.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Logging: logging.Config{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Player: PlayerConfig{
			TickInterval: 10 * time.Millisecond,
		},
		PositionType: PositionJoints,
	}
}

// Load reads configuration from path (skipped when empty) and the environment,
// then validates it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply their own
// overrides (e.g. command-line flags) before validating.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("player.tick_interval", d.Player.TickInterval)
	v.SetDefault("player.metrics_addr", d.Player.MetricsAddr)
	v.SetDefault("position_type", d.PositionType)
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Player.TickInterval <= 0 {
		return errors.New("player.tick_interval must be greater than 0")
	}
	switch c.PositionType {
	case PositionScalar, PositionJoints:
	default:
		return fmt.Errorf("unknown position_type %q", c.PositionType)
	}
	return nil
}
