package motion

import (
	"fmt"
	"time"
)

// Phase is the machine's current state. It is one of CheckEntry,
// Interpolating, CheckExit, Finished or Aborted[T]; no other type
// implements it.
type Phase[T any] interface {
	// Name returns a stable, lower-case phase name for logs and metrics.
	Name() string

	// frame returns the segment index the phase belongs to, if any.
	frame() (index int, ok bool)
}

// CheckEntry gates entry into segment FrameIndex. Elapsed counts the time
// spent waiting on the entry condition.
type CheckEntry struct {
	FrameIndex int
	Elapsed    time.Duration
}

// Interpolating plays segment FrameIndex; Elapsed is the time since
// interpolation of that segment began.
type Interpolating struct {
	FrameIndex int
	Elapsed    time.Duration
}

// CheckExit gates exit from segment FrameIndex. Elapsed counts the time spent
// waiting on the exit condition.
type CheckExit struct {
	FrameIndex int
	Elapsed    time.Duration
}

// Finished is reached after the last segment's exit check passes.
type Finished struct{}

// Aborted records the position commanded when the motion was aborted.
type Aborted[T any] struct {
	Position T
}

func (CheckEntry) Name() string    { return "check_entry" }
func (Interpolating) Name() string { return "interpolating" }
func (CheckExit) Name() string     { return "check_exit" }
func (Finished) Name() string      { return "finished" }
func (Aborted[T]) Name() string    { return "aborted" }

func (p CheckEntry) frame() (int, bool)    { return p.FrameIndex, true }
func (p Interpolating) frame() (int, bool) { return p.FrameIndex, true }
func (p CheckExit) frame() (int, bool)     { return p.FrameIndex, true }
func (Finished) frame() (int, bool)        { return 0, false }
func (Aborted[T]) frame() (int, bool)      { return 0, false }

func (p CheckEntry) String() string {
	return fmt.Sprintf("CheckEntry{%d, %s}", p.FrameIndex, p.Elapsed)
}

func (p Interpolating) String() string {
	return fmt.Sprintf("Interpolating{%d, %s}", p.FrameIndex, p.Elapsed)
}

func (p CheckExit) String() string {
	return fmt.Sprintf("CheckExit{%d, %s}", p.FrameIndex, p.Elapsed)
}

func (Finished) String() string { return "Finished" }

func (p Aborted[T]) String() string { return fmt.Sprintf("Aborted{%v}", p.Position) }

// FrameIndex returns the segment index p belongs to. ok is false for the
// terminal phases.
func FrameIndex[T any](p Phase[T]) (index int, ok bool) {
	return p.frame()
}

// ElapsedIn returns the time accumulated in a gating or interpolating phase,
// and zero for the terminal phases.
func ElapsedIn[T any](p Phase[T]) time.Duration {
	switch p := p.(type) {
	case CheckEntry:
		return p.Elapsed
	case Interpolating:
		return p.Elapsed
	case CheckExit:
		return p.Elapsed
	default:
		return 0
	}
}

// Status summarises a phase for callers that only need to know whether the
// motion is still running and, if not, whether it succeeded.
type Status int

const (
	StatusRunning Status = iota
	StatusFinished
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusFinished:
		return "finished"
	case StatusAborted:
		return "aborted"
	default:
		return "running"
	}
}

// StatusOf classifies p.
func StatusOf[T any](p Phase[T]) Status {
	switch p.(type) {
	case Finished:
		return StatusFinished
	case Aborted[T]:
		return StatusAborted
	default:
		return StatusRunning
	}
}
