// Package spline builds time-parameterised splines through a sequence of
// keyframes. A TimedSpline is the interpolation unit a motion segment plays.
package spline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cxd309/motion-engine/internal/kinematics"
)

// Spline construction errors.
var (
	ErrNoKeyframes     = errors.New("at least one keyframe is required")
	ErrInvalidDuration = errors.New("keyframe duration must be greater than 0")
	ErrNoMode          = errors.New("interpolation mode is required")
)

// Keyframe is a target position reached Duration after the previous one.
type Keyframe[T any] struct {
	Duration  time.Duration
	Positions T
}

type keyframeYAML[T any] struct {
	Duration  kinematics.Duration `yaml:"duration"`
	Positions T                   `yaml:"positions"`
}

// UnmarshalYAML implements yaml.Unmarshaler for Keyframe. The duration is
// either seconds or a duration string.
func (k *Keyframe[T]) UnmarshalYAML(node *yaml.Node) error {
	var raw keyframeYAML[T]
	if err := node.Decode(&raw); err != nil {
		return err
	}
	k.Duration = raw.Duration.Std()
	k.Positions = raw.Positions
	return nil
}

// TimedSpline interpolates from a start position through every keyframe.
// points[0] is the start; points[i] is reached at ends[i-1].
type TimedSpline[T kinematics.Vector[T]] struct {
	points []T
	ends   []time.Duration // cumulative arrival time of points[1:]
	mode   kinematics.Mode
}

// TryNewWithStart builds a spline that starts at start and visits each keyframe
// in order. The keyframes slice is not retained.
func TryNewWithStart[T kinematics.Vector[T]](start T, keyframes []Keyframe[T], mode kinematics.Mode) (*TimedSpline[T], error) {
	if mode == nil {
		return nil, ErrNoMode
	}
	if len(keyframes) == 0 {
		return nil, ErrNoKeyframes
	}

	points := make([]T, 0, len(keyframes)+1)
	ends := make([]time.Duration, 0, len(keyframes))
	points = append(points, start)

	var total time.Duration
	for i, kf := range keyframes {
		if kf.Duration <= 0 {
			return nil, fmt.Errorf("keyframe %d: %w (got %s)", i+1, ErrInvalidDuration, kf.Duration)
		}
		total += kf.Duration
		points = append(points, kf.Positions)
		ends = append(ends, total)
	}

	return &TimedSpline[T]{points: points, ends: ends, mode: mode}, nil
}

// StartPosition returns the position at t = 0.
func (s *TimedSpline[T]) StartPosition() T { return s.points[0] }

// EndPosition returns the last keyframe's position.
func (s *TimedSpline[T]) EndPosition() T { return s.points[len(s.points)-1] }

// TotalDuration returns the sum of all keyframe durations.
func (s *TimedSpline[T]) TotalDuration() time.Duration { return s.ends[len(s.ends)-1] }

// ValueAt returns the interpolated position t after the start.
// t is clamped to [0, TotalDuration].
func (s *TimedSpline[T]) ValueAt(t time.Duration) T {
	if t <= 0 {
		return s.StartPosition()
	}
	if t >= s.TotalDuration() {
		return s.EndPosition()
	}

	// First interval whose arrival time lies beyond t.
	idx := sort.Search(len(s.ends), func(i int) bool { return s.ends[i] > t })

	begin := time.Duration(0)
	if idx > 0 {
		begin = s.ends[idx-1]
	}
	u := float64(t-begin) / float64(s.ends[idx]-begin)

	// Interval idx runs from points[idx] to points[idx+1]; the outer control
	// points are duplicated at the ends of the spline.
	p1 := s.points[idx]
	p2 := s.points[idx+1]
	p0 := p1
	if idx > 0 {
		p0 = s.points[idx-1]
	}
	p3 := p2
	if idx+2 < len(s.points) {
		p3 = s.points[idx+2]
	}

	return kinematics.Blend(s.mode, p0, p1, p2, p3, u)
}

// SetInitialPositions replaces the start position, e.g. with the measured pose
// the robot is actually in. Keyframe positions are untouched.
func (s *TimedSpline[T]) SetInitialPositions(position T) {
	s.points[0] = position
}
