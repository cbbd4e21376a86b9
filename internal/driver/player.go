// Package driver plays a motion in real time, ticking the motion machine on a
// fixed control cycle and forwarding each commanded position to an actuator.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cxd309/motion-engine/internal/condition"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/motion"
	"github.com/cxd309/motion-engine/internal/telemetry"
)

// DefaultTickInterval is the control cycle used when Config leaves it unset.
const DefaultTickInterval = 10 * time.Millisecond

// Sensors supplies the snapshot conditions are evaluated against.
type Sensors interface {
	Read() condition.Input
}

// Actuator receives every commanded position.
type Actuator[T any] interface {
	Command(position T) error
}

// Config controls the player.
type Config struct {
	// TickInterval is the control cycle period. Every tick advances the
	// motion by exactly this amount regardless of scheduling jitter.
	TickInterval time.Duration
}

// Player drives one motion machine until it finishes, aborts, or the context
// is cancelled.
type Player[T kinematics.Vector[T]] struct {
	name     string
	machine  *motion.Machine[T]
	sensors  Sensors
	actuator Actuator[T]
	interval time.Duration
	log      zerolog.Logger
}

// NewPlayer creates a player for machine. name labels logs and metrics.
func NewPlayer[T kinematics.Vector[T]](name string, machine *motion.Machine[T], sensors Sensors, actuator Actuator[T], cfg Config) (*Player[T], error) {
	if machine == nil {
		return nil, errors.New("machine is required")
	}
	if sensors == nil {
		return nil, errors.New("sensors are required")
	}
	if actuator == nil {
		return nil, errors.New("actuator is required")
	}
	if cfg.TickInterval < 0 {
		return nil, fmt.Errorf("tick interval must not be negative (got %s)", cfg.TickInterval)
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	return &Player[T]{
		name:     name,
		machine:  machine,
		sensors:  sensors,
		actuator: actuator,
		interval: cfg.TickInterval,
		log:      logging.Component("player").With().Str("motion", name).Logger(),
	}, nil
}

// Run plays the motion and returns its final status. The current position is
// commanded once before the first tick. If ctx is cancelled first, Run
// returns StatusRunning and ctx.Err(); an actuator error stops playback too.
func (p *Player[T]) Run(ctx context.Context) (motion.Status, error) {
	if p.machine.IsFinished() {
		return p.machine.Status(), nil
	}
	if err := p.actuator.Command(p.machine.Value()); err != nil {
		return motion.StatusRunning, fmt.Errorf("commanding initial position: %w", err)
	}

	observer := telemetry.NewPhaseObserver[T](p.name, p.log, p.machine.Phase())
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info().Dur("tick_interval", p.interval).Msg("playback started")
	for {
		select {
		case <-ctx.Done():
			p.log.Info().Dur("elapsed", observer.Elapsed()).Msg("playback cancelled")
			return motion.StatusRunning, ctx.Err()
		case <-ticker.C:
			p.machine.AdvanceBy(p.interval, p.sensors.Read())
			observer.Observe(p.interval, p.machine.Phase())

			if err := p.actuator.Command(p.machine.Value()); err != nil {
				return p.machine.Status(), fmt.Errorf("commanding position: %w", err)
			}
			if p.machine.IsFinished() {
				return p.machine.Status(), nil
			}
		}
	}
}
