package engine

import (
	"github.com/rs/zerolog"

	"github.com/cxd309/motion-engine/internal/condition"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/motion"
	"github.com/cxd309/motion-engine/internal/motionfile"
	"github.com/cxd309/motion-engine/internal/telemetry"
)

// Position types accepted in SimulationMeta.PositionType.
const (
	PositionScalar = "scalar"
	PositionJoints = "joints"
)

// SimulationMeta holds the identity and timing parameters for a simulation run.
type SimulationMeta struct {
	SimulationID string  `json:"simulation_id" yaml:"simulation_id"`
	RunTime      float64 `json:"run_time" yaml:"run_time"`   // seconds
	TimeStep     float64 `json:"time_step" yaml:"time_step"` // seconds
	PositionType string  `json:"position_type" yaml:"position_type"`
}

// SensorSample is the sensor snapshot that holds from At (seconds) until the
// next sample.
type SensorSample struct {
	At    float64         `json:"at" yaml:"at"`
	Input condition.Input `json:"input" yaml:"input"`
}

// SimulationInput is the serialisable input to the engine.
type SimulationInput[T any] struct {
	Meta             SimulationMeta           `yaml:"simulation_meta"`
	Motion           motionfile.MotionFile[T] `yaml:"motion"`
	MeasuredPosition *T                       `yaml:"measured_position,omitempty"`
	SensorTimeline   []SensorSample           `yaml:"sensor_timeline,omitempty"`
}

// SimulationLogRow is the machine state after the tick at Timestamp.
type SimulationLogRow[T any] struct {
	Timestamp  float64 `json:"timestamp"` // seconds
	Phase      string  `json:"phase"`
	FrameIndex *int    `json:"frame_index,omitempty"`
	Elapsed    float64 `json:"elapsed"` // seconds spent in the phase
	Position   T       `json:"position"`
	Status     string  `json:"status"`
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog[T any] struct {
	Meta    SimulationMeta        `json:"simulation_meta"`
	Outcome string                `json:"outcome"`
	Output  []SimulationLogRow[T] `json:"output"`
}

// Simulation replays a motion against a sensor timeline.
type Simulation[T kinematics.Vector[T]] struct {
	meta     SimulationMeta
	machine  *motion.Machine[T]
	timeline []SensorSample
	observer *telemetry.PhaseObserver[T]
	curTime  float64
	log      zerolog.Logger
}
