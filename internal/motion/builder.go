package motion

import (
	"fmt"

	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/motionfile"
	"github.com/cxd309/motion-engine/internal/spline"
)

// FromMotionFile builds a machine from a motion description. The first
// segment starts at the file's initial positions; every later segment starts
// at the previous group's last keyframe. Any group that fails to build fails
// the whole construction.
func FromMotionFile[T kinematics.Vector[T]](mf *motionfile.MotionFile[T]) (*Machine[T], error) {
	if err := mf.Validate(); err != nil {
		return nil, err
	}
	mode := mf.InterpolationMode.Mode

	frames := make([]ConditionedSegment[T], 0, len(mf.Motion))
	start := mf.InitialPositions
	for i, group := range mf.Motion {
		s, err := spline.TryNewWithStart(start, group.Keyframes, mode)
		if err != nil {
			return nil, fmt.Errorf("motion group %d: %w", i+1, err)
		}
		frames = append(frames, ConditionedSegment[T]{
			EntryCondition:   group.Entry(),
			MotionInterrupts: group.Interrupts(),
			Segment:          s,
			ExitCondition:    group.Exit(),
		})
		start = group.LastPositions()
	}

	return New(frames)
}
