// Package engine implements offline motion playback.
//
// A simulation advances a motion machine in fixed timesteps. At each step the
// sensor snapshot in effect at the current time is read from the timeline,
// the machine is ticked with it and the resulting phase and commanded
// position are logged. The run ends after the first row in which the motion
// is no longer running, or when run_time is reached.
package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cxd309/motion-engine/internal/condition"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/motion"
	"github.com/cxd309/motion-engine/internal/telemetry"
)

// timeEpsilon absorbs float error when comparing step times with sample times.
const timeEpsilon = 1e-9

// NewSimulation constructs a Simulation from a SimulationInput, building the
// motion machine and rebasing it onto the measured position if one is given.
func NewSimulation[T kinematics.Vector[T]](input SimulationInput[T]) (*Simulation[T], error) {
	if err := validateMeta(input.Meta); err != nil {
		return nil, err
	}
	if err := ValidateTimeline(input.SensorTimeline); err != nil {
		return nil, err
	}

	machine, err := BuildMachine(&input)
	if err != nil {
		return nil, err
	}

	meta := input.Meta
	if strings.TrimSpace(meta.SimulationID) == "" {
		meta.SimulationID = uuid.NewString()
	}

	log := logging.Component("engine").With().Str("simulation_id", meta.SimulationID).Logger()
	return &Simulation[T]{
		meta:     meta,
		machine:  machine,
		timeline: input.SensorTimeline,
		observer: telemetry.NewPhaseObserver[T](input.Motion.Name(), log, machine.Phase()),
		log:      log,
	}, nil
}

// BuildMachine builds the motion machine described by input.
func BuildMachine[T kinematics.Vector[T]](input *SimulationInput[T]) (*motion.Machine[T], error) {
	machine, err := motion.FromMotionFile(&input.Motion)
	if err != nil {
		return nil, fmt.Errorf("building motion: %w", err)
	}
	if input.MeasuredPosition != nil {
		machine.SetInitialPositions(*input.MeasuredPosition)
	}
	return machine, nil
}

// Run executes the full simulation and returns the log.
func (s *Simulation[T]) Run() SimulationLog[T] {
	log := SimulationLog[T]{Meta: s.meta}
	steps := int(math.Floor(s.meta.RunTime/s.meta.TimeStep + timeEpsilon))

	s.log.Debug().
		Float64("run_time", s.meta.RunTime).
		Float64("time_step", s.meta.TimeStep).
		Int("frames", s.machine.FrameCount()).
		Msg("simulation started")

	for i := 0; i <= steps; i++ {
		s.curTime = float64(i) * s.meta.TimeStep
		log.Output = append(log.Output, s.step())
		if s.machine.IsFinished() {
			break
		}
	}

	log.Outcome = s.machine.Status().String()
	s.log.Info().
		Str("outcome", log.Outcome).
		Int("rows", len(log.Output)).
		Msg("simulation complete")
	return log
}

// step ticks the machine once at the current time and returns the resulting log row.
func (s *Simulation[T]) step() SimulationLogRow[T] {
	dt := seconds(s.meta.TimeStep)
	s.machine.AdvanceBy(dt, SampleAt(s.timeline, s.curTime))

	phase := s.machine.Phase()
	s.observer.Observe(dt, phase)

	row := SimulationLogRow[T]{
		Timestamp: s.curTime,
		Phase:     phase.Name(),
		Elapsed:   motion.ElapsedIn[T](phase).Seconds(),
		Position:  s.machine.Value(),
		Status:    motion.StatusOf[T](phase).String(),
	}
	if i, ok := motion.FrameIndex[T](phase); ok {
		row.FrameIndex = &i
	}
	return row
}

// SampleAt returns the input of the latest sample at or before t (seconds).
// Before the first sample the zero Input applies.
func SampleAt(timeline []SensorSample, t float64) condition.Input {
	idx := sort.Search(len(timeline), func(i int) bool {
		return timeline[i].At > t+timeEpsilon
	})
	if idx == 0 {
		return condition.Input{}
	}
	return timeline[idx-1].Input
}

func validateMeta(meta SimulationMeta) error {
	if meta.TimeStep <= 0 {
		return fmt.Errorf("time_step must be greater than 0 (got %g)", meta.TimeStep)
	}
	if meta.RunTime < 0 {
		return fmt.Errorf("run_time must not be negative (got %g)", meta.RunTime)
	}
	return nil
}

// ValidateTimeline checks that samples are sorted by time.
func ValidateTimeline(timeline []SensorSample) error {
	for i := 1; i < len(timeline); i++ {
		if timeline[i].At < timeline[i-1].At {
			return fmt.Errorf("sensor_timeline must be sorted by time: sample %d at %gs precedes sample %d at %gs",
				i+1, timeline[i].At, i, timeline[i-1].At)
		}
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// PositionTypeOf reads simulation_meta.position_type from a YAML or JSON
// document. An absent position type means joints.
func PositionTypeOf(data []byte) (string, error) {
	var probe struct {
		Meta SimulationMeta `yaml:"simulation_meta"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("invalid simulation input: %w", err)
	}

	switch pt := strings.ToLower(strings.TrimSpace(probe.Meta.PositionType)); pt {
	case "", PositionJoints:
		return PositionJoints, nil
	case PositionScalar:
		return PositionScalar, nil
	default:
		return "", fmt.Errorf("unknown position_type %q", probe.Meta.PositionType)
	}
}

// DecodeInput decodes a YAML or JSON simulation input.
func DecodeInput[T any](data []byte) (*SimulationInput[T], error) {
	var input SimulationInput[T]
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("invalid simulation input: %w", err)
	}
	return &input, nil
}

// RunJSON is the entry point shared by the CLI and WASM targets. It accepts a
// JSON (or YAML) encoded SimulationInput, runs the simulation, and returns a
// JSON-encoded SimulationLog.
func RunJSON(input string) (string, error) {
	data := []byte(input)
	positionType, err := PositionTypeOf(data)
	if err != nil {
		return "", err
	}

	switch positionType {
	case PositionScalar:
		return runTyped[kinematics.Scalar](data, positionType)
	default:
		return runTyped[kinematics.Joints](data, positionType)
	}
}

func runTyped[T kinematics.Vector[T]](data []byte, positionType string) (string, error) {
	input, err := DecodeInput[T](data)
	if err != nil {
		return "", err
	}
	input.Meta.PositionType = positionType

	sim, err := NewSimulation(*input)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(sim.Run())
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
