package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/motion"
	"github.com/cxd309/motion-engine/internal/motionfile"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <motion-file|dir>...",
	Short: "Check that motion files load and build",
	Long:  "Check that motion files load and build. Directories are expanded to the motion files they contain.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandMotionPaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no motion files found")
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range paths {
			summary, err := checkMotionFile(path, appConfig.PositionType)
			if err != nil {
				failed++
				fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(out, "ok   %s (%s)\n", path, summary)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d motion files invalid", failed, len(paths))
		}
		return nil
	},
}

// expandMotionPaths replaces directory arguments with the motion files in them.
func expandMotionPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		listed, err := motionfile.List(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, listed...)
	}
	return paths, nil
}

// motionSummary describes a motion that built successfully.
type motionSummary struct {
	Segments int
	Duration time.Duration
}

func (s motionSummary) String() string {
	return fmt.Sprintf("%d segments, %s interpolation", s.Segments, s.Duration)
}

// checkMotionFile loads path and builds its machine.
func checkMotionFile(path, positionType string) (motionSummary, error) {
	switch positionType {
	case config.PositionScalar:
		return checkTyped[kinematics.Scalar](path)
	case config.PositionJoints:
		return checkTyped[kinematics.Joints](path)
	default:
		return motionSummary{}, fmt.Errorf("unknown position_type %q", positionType)
	}
}

func checkTyped[T kinematics.Vector[T]](path string) (motionSummary, error) {
	mf, err := motionfile.Load[T](path)
	if err != nil {
		return motionSummary{}, err
	}
	m, err := motion.FromMotionFile(mf)
	if err != nil {
		return motionSummary{}, err
	}

	summary := motionSummary{Segments: m.FrameCount()}
	for i := 0; i < m.FrameCount(); i++ {
		summary.Duration += m.Frame(i).Segment.TotalDuration()
	}
	return summary, nil
}
