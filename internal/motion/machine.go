// Package motion sequences a body motion as a chain of conditioned spline
// segments.
//
// A Machine is driven once per control cycle with AdvanceBy. Each tick first
// folds the active segment's interrupt conditions: Abort freezes the current
// position into the Aborted phase, Wait stalls the whole tick without
// accumulating time anywhere, Continue lets the phase advance:
//
//	CheckEntry{i} -> Interpolating{i} -> CheckExit{i} -> CheckEntry{i+1} ... -> Finished
//
// Entry and exit gates wait on their discrete conditions, escalating to Abort
// when the condition's timeout rule says so.
//
// A Machine is not safe for concurrent use; each control loop owns its own.
package motion

import (
	"errors"
	"time"

	"github.com/cxd309/motion-engine/internal/condition"
	"github.com/cxd309/motion-engine/internal/kinematics"
)

// ErrEmptyMotion is returned when a machine is built without segments.
var ErrEmptyMotion = errors.New("motion has no segments")

// Segment is a time-parameterised interpolation from a start to an end
// position, clamped to [0, TotalDuration].
type Segment[T any] interface {
	StartPosition() T
	EndPosition() T
	ValueAt(elapsed time.Duration) T
	TotalDuration() time.Duration

	// SetInitialPositions overrides the start position.
	SetInitialPositions(position T)
}

// ConditionedSegment pairs a segment with the conditions gating and
// interrupting it. Nil entry and exit conditions always pass.
type ConditionedSegment[T any] struct {
	EntryCondition   condition.Discrete
	MotionInterrupts []condition.Continuous
	Segment          Segment[T]
	ExitCondition    condition.Discrete
}

// Machine is the motion state machine.
type Machine[T kinematics.Vector[T]] struct {
	frames []ConditionedSegment[T]
	phase  Phase[T]
}

// New creates a machine over frames, starting in CheckEntry{0, 0}.
// The frames slice is owned by the machine afterwards.
func New[T kinematics.Vector[T]](frames []ConditionedSegment[T]) (*Machine[T], error) {
	if len(frames) == 0 {
		return nil, ErrEmptyMotion
	}
	for i := range frames {
		if frames[i].Segment == nil {
			return nil, errors.New("motion segment is nil")
		}
	}
	return &Machine[T]{frames: frames, phase: CheckEntry{}}, nil
}

// AdvanceBy runs one control cycle of timeStep against input.
func (m *Machine[T]) AdvanceBy(timeStep time.Duration, input condition.Input) {
	if !m.checkInterrupts(input) {
		return
	}
	m.advancePhase(timeStep, input)
}

// checkInterrupts folds the active segment's interrupts and reports whether
// the tick may go on to advance the phase.
func (m *Machine[T]) checkInterrupts(input condition.Input) bool {
	index, ok := m.phase.frame()
	if !ok {
		return true
	}
	interrupts := m.frames[index].MotionInterrupts
	if len(interrupts) == 0 {
		return true
	}

	verdict := condition.Continue
	for _, c := range interrupts {
		verdict = condition.Combine(verdict, c.Evaluate(input))
	}

	switch verdict {
	case condition.Abort:
		m.phase = Aborted[T]{Position: m.Value()}
		return false
	case condition.Wait:
		return false
	default:
		return true
	}
}

func (m *Machine[T]) advancePhase(timeStep time.Duration, input condition.Input) {
	switch p := m.phase.(type) {
	case CheckEntry:
		frame := &m.frames[p.FrameIndex]
		switch gate(frame.EntryCondition, input, p.Elapsed) {
		case condition.Abort:
			m.phase = Aborted[T]{Position: m.Value()}
		case condition.Wait:
			m.phase = CheckEntry{FrameIndex: p.FrameIndex, Elapsed: p.Elapsed + timeStep}
		default:
			m.phase = Interpolating{FrameIndex: p.FrameIndex}
		}

	case Interpolating:
		if p.Elapsed >= m.frames[p.FrameIndex].Segment.TotalDuration() {
			m.phase = CheckExit{FrameIndex: p.FrameIndex}
		} else {
			m.phase = Interpolating{FrameIndex: p.FrameIndex, Elapsed: p.Elapsed + timeStep}
		}

	case CheckExit:
		frame := &m.frames[p.FrameIndex]
		switch gate(frame.ExitCondition, input, p.Elapsed) {
		case condition.Abort:
			m.phase = Aborted[T]{Position: m.Value()}
		case condition.Wait:
			m.phase = CheckExit{FrameIndex: p.FrameIndex, Elapsed: p.Elapsed + timeStep}
		default:
			if p.FrameIndex < len(m.frames)-1 {
				m.phase = CheckEntry{FrameIndex: p.FrameIndex + 1}
			} else {
				m.phase = Finished{}
			}
		}
	}
}

// gate evaluates an optional discrete condition with its timeout applied.
func gate(c condition.Discrete, input condition.Input, elapsed time.Duration) condition.Response {
	if c == nil {
		return condition.Continue
	}
	return c.Evaluate(input).WithTimeout(c.Timeout(elapsed))
}

// Value returns the commanded position for the current phase. Gating phases
// hold the segment's start or end position.
func (m *Machine[T]) Value() T {
	switch p := m.phase.(type) {
	case CheckEntry:
		return m.frames[p.FrameIndex].Segment.StartPosition()
	case Interpolating:
		return m.frames[p.FrameIndex].Segment.ValueAt(p.Elapsed)
	case CheckExit:
		return m.frames[p.FrameIndex].Segment.EndPosition()
	case Aborted[T]:
		return p.Position
	default:
		return m.frames[len(m.frames)-1].Segment.EndPosition()
	}
}

// IsFinished reports whether the motion has stopped, either by completing or
// by aborting. Use Status to tell the two apart.
func (m *Machine[T]) IsFinished() bool {
	return m.Status() != StatusRunning
}

// IsAborted reports whether the motion was aborted.
func (m *Machine[T]) IsAborted() bool {
	return m.Status() == StatusAborted
}

// Status classifies the current phase.
func (m *Machine[T]) Status() Status {
	return StatusOf[T](m.phase)
}

// Phase returns the current phase.
func (m *Machine[T]) Phase() Phase[T] {
	return m.phase
}

// Reset restarts the motion from the first segment's entry check.
func (m *Machine[T]) Reset() {
	m.phase = CheckEntry{}
}

// SetInitialPositions rebases the first segment to start at position, e.g.
// the pose the robot was measured in. Later segments chain from the first
// segment's end and are unaffected.
func (m *Machine[T]) SetInitialPositions(position T) {
	m.frames[0].Segment.SetInitialPositions(position)
}

// FrameCount returns the number of segments.
func (m *Machine[T]) FrameCount() int {
	return len(m.frames)
}

// Frame returns segment i. It panics if i is out of range.
func (m *Machine[T]) Frame(i int) ConditionedSegment[T] {
	return m.frames[i]
}
