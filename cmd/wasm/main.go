//go:build js && wasm

// Command wasm exposes the motion engine to the browser via WebAssembly.
// After loading, it registers two global JavaScript functions:
//
//	runSimulation(inputString) -> jsonString
//	validateMotion(motionString, positionType) -> {segments, duration} | {error}
//
// runSimulation takes a JSON or YAML encoded SimulationInput and returns a
// JSON-encoded SimulationLog, the same contract as `motion-engine run`.
package main

import (
	"syscall/js"

	"github.com/cxd309/motion-engine/internal/engine"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/motion"
	"github.com/cxd309/motion-engine/internal/motionfile"
)

func main() {
	js.Global().Set("runSimulation", js.FuncOf(runSimulation))
	js.Global().Set("validateMotion", js.FuncOf(validateMotion))
	select {} // keep the WASM module alive until the page is closed
}

func runSimulation(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}

func validateMotion(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no motion provided"}
	}
	positionType := engine.PositionJoints
	if len(args) > 1 && args[1].Type() == js.TypeString {
		positionType = args[1].String()
	}

	data := []byte(args[0].String())
	switch positionType {
	case engine.PositionScalar:
		return describe[kinematics.Scalar](data)
	case engine.PositionJoints:
		return describe[kinematics.Joints](data)
	default:
		return map[string]any{"error": "unknown position type " + positionType}
	}
}

func describe[T kinematics.Vector[T]](data []byte) any {
	mf, err := motionfile.Parse[T](data)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	m, err := motion.FromMotionFile(mf)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}

	var total float64
	for i := 0; i < m.FrameCount(); i++ {
		total += m.Frame(i).Segment.TotalDuration().Seconds()
	}
	return map[string]any{"segments": m.FrameCount(), "duration": total}
}
