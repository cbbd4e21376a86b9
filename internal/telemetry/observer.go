package telemetry

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/cxd309/motion-engine/internal/motion"
)

// PhaseObserver turns the phase sequence of one motion run into logs and
// metrics. Call Observe after every tick.
type PhaseObserver[T any] struct {
	motion  string
	log     zerolog.Logger
	last    motion.Phase[T]
	elapsed time.Duration
	done    bool
}

// NewPhaseObserver starts observing from the initial phase.
func NewPhaseObserver[T any](motionName string, log zerolog.Logger, initial motion.Phase[T]) *PhaseObserver[T] {
	return &PhaseObserver[T]{
		motion: motionName,
		log:    log.With().Str("motion", sanitizeMotion(motionName)).Logger(),
		last:   initial,
	}
}

// Observe records a tick of dt that left the machine in phase p.
func (o *PhaseObserver[T]) Observe(dt time.Duration, p motion.Phase[T]) {
	if o.done {
		return
	}
	o.elapsed += dt
	RecordTick(o.motion)

	if changed[T](o.last, p) {
		RecordTransition(o.motion, o.last.Name(), p.Name())
		ev := o.log.Debug().
			Str("from", o.last.Name()).
			Str("to", p.Name())
		if i, ok := motion.FrameIndex[T](p); ok {
			ev = ev.Int("frame", i)
		}
		ev.Msg("phase transition")
	}
	o.last = p

	status := motion.StatusOf[T](p)
	if status == motion.StatusRunning {
		return
	}
	o.done = true
	RecordOutcome(o.motion, status.String(), o.elapsed)

	ev := o.log.Info()
	if status == motion.StatusAborted {
		ev = o.log.Warn().Stringer("phase", p.(motion.Aborted[T]))
	}
	ev.Str("outcome", status.String()).Dur("elapsed", o.elapsed).Msg("motion stopped")
}

// Elapsed returns the motion time observed so far.
func (o *PhaseObserver[T]) Elapsed() time.Duration {
	return o.elapsed
}

func changed[T any](prev, next motion.Phase[T]) bool {
	if prev.Name() != next.Name() {
		return true
	}
	pi, _ := motion.FrameIndex[T](prev)
	ni, _ := motion.FrameIndex[T](next)
	return pi != ni
}
