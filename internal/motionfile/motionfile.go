// Package motionfile loads declarative motion descriptions: an initial pose,
// an interpolation mode and an ordered list of keyframe groups, each gated by
// its own conditions.
package motionfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cxd309/motion-engine/internal/condition"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/spline"
)

// ErrEmptyMotion is returned for a motion file without keyframe groups.
var ErrEmptyMotion = errors.New("motion must contain at least one keyframe group")

// MotionFile is the in-memory form of a motion description.
type MotionFile[T any] struct {
	InitialPositions  T                   `yaml:"initial_positions"`
	InterpolationMode kinematics.ModeSpec `yaml:"interpolation_mode"`
	Motion            []KeyframeGroup[T]  `yaml:"motion"`

	Source string `yaml:"-"` // file path, empty when parsed from memory
}

// KeyframeGroup is one conditioned stretch of a motion.
type KeyframeGroup[T any] struct {
	EntryCondition   *condition.DiscreteSpec    `yaml:"entry_condition,omitempty"`
	MotionInterrupts []condition.ContinuousSpec `yaml:"motion_interrupts,omitempty"`
	Keyframes        []spline.Keyframe[T]       `yaml:"keyframes"`
	ExitCondition    *condition.DiscreteSpec    `yaml:"exit_condition,omitempty"`
}

// Validate checks the structure the interpolator relies on. It does not build
// splines; spline construction reports its own errors.
func (m *MotionFile[T]) Validate() error {
	if m.InterpolationMode.Mode == nil {
		return fmt.Errorf("interpolation_mode is required")
	}
	if len(m.Motion) == 0 {
		return ErrEmptyMotion
	}
	for i, group := range m.Motion {
		if err := group.validate(); err != nil {
			return fmt.Errorf("motion group %d: %w", i+1, err)
		}
	}
	return nil
}

func (g KeyframeGroup[T]) validate() error {
	if len(g.Keyframes) == 0 {
		return spline.ErrNoKeyframes
	}
	for i, kf := range g.Keyframes {
		if kf.Duration <= 0 {
			return fmt.Errorf("keyframe %d: %w (got %s)", i+1, spline.ErrInvalidDuration, kf.Duration)
		}
	}
	return nil
}

// Name returns the file's base name without extension, or "" when the motion
// was parsed from memory.
func (m *MotionFile[T]) Name() string {
	if m.Source == "" {
		return ""
	}
	base := filepath.Base(m.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Entry returns the group's entry condition, or nil if none is configured.
func (g KeyframeGroup[T]) Entry() condition.Discrete {
	if g.EntryCondition == nil {
		return nil
	}
	return g.EntryCondition.Discrete
}

// Exit returns the group's exit condition, or nil if none is configured.
func (g KeyframeGroup[T]) Exit() condition.Discrete {
	if g.ExitCondition == nil {
		return nil
	}
	return g.ExitCondition.Discrete
}

// Interrupts returns the group's continuous conditions in file order.
func (g KeyframeGroup[T]) Interrupts() []condition.Continuous {
	if len(g.MotionInterrupts) == 0 {
		return nil
	}
	out := make([]condition.Continuous, len(g.MotionInterrupts))
	for i, spec := range g.MotionInterrupts {
		out[i] = spec.Continuous
	}
	return out
}

// LastPositions returns the final keyframe's positions.
// The group must have passed validation.
func (g KeyframeGroup[T]) LastPositions() T {
	return g.Keyframes[len(g.Keyframes)-1].Positions
}
