package condition

import (
	"math"
	"time"
)

// Discrete is a one-shot gating condition checked while a segment waits to be
// entered or left.
type Discrete interface {
	Evaluate(input Input) Response

	// Timeout reports whether a Wait that has lasted elapsed should be
	// escalated to Abort.
	Timeout(elapsed time.Duration) TimeOut
}

// Continuous is an interrupt condition checked on every tick while its
// segment is active.
type Continuous interface {
	Evaluate(input Input) Response
}

// Budget is an optional time limit on waiting for a discrete condition.
// A nil Limit never times out. Motion files set it with the "timeout" key.
type Budget struct {
	Limit *time.Duration
}

// Timeout escalates once elapsed reaches the limit.
func (b Budget) Timeout(elapsed time.Duration) TimeOut {
	if b.Limit != nil && elapsed >= *b.Limit {
		return TimeOutAbort
	}
	return TimeOutContinue
}

// StabilizedByAngle waits until the body's roll and pitch are within the
// configured tolerances. Unset tolerances are not checked.
type StabilizedByAngle struct {
	RollTolerance  *float64 `yaml:"roll_tolerance,omitempty"`
	PitchTolerance *float64 `yaml:"pitch_tolerance,omitempty"`
	Budget         `yaml:"-"`
}

func (c StabilizedByAngle) Evaluate(input Input) Response {
	if c.RollTolerance != nil && math.Abs(input.FilteredAngles.Roll) > *c.RollTolerance {
		return Wait
	}
	if c.PitchTolerance != nil && math.Abs(input.FilteredAngles.Pitch) > *c.PitchTolerance {
		return Wait
	}
	return Continue
}

// GroundContact waits until the feet report ground contact.
type GroundContact struct {
	Budget `yaml:"-"`
}

func (c GroundContact) Evaluate(input Input) Response {
	if input.GroundContact {
		return Continue
	}
	return Wait
}

// FallenAbort aborts the motion as soon as the body is no longer upright.
type FallenAbort struct{}

func (FallenAbort) Evaluate(input Input) Response {
	if input.Upright() {
		return Continue
	}
	return Abort
}

// AngularVelocityLimit responds with OnExceeded (Wait unless configured)
// while the angular velocity magnitude is above Max.
type AngularVelocityLimit struct {
	Max        float64   `yaml:"max"`
	OnExceeded *Response `yaml:"on_exceeded,omitempty"`
}

func (c AngularVelocityLimit) Evaluate(input Input) Response {
	if input.FilteredAngularVelocity.Norm() <= c.Max {
		return Continue
	}
	if c.OnExceeded != nil {
		return *c.OnExceeded
	}
	return Wait
}
