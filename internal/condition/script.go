package condition

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
)

// Variables a script expression can read.
const (
	scriptRoll          = "roll"
	scriptPitch         = "pitch"
	scriptGyroX         = "gyro_x"
	scriptGyroY         = "gyro_y"
	scriptGyroZ         = "gyro_z"
	scriptFallState     = "fall_state"
	scriptGroundContact = "ground_contact"
	scriptVerdict       = "__verdict"
)

// Script evaluates a tengo expression against the input snapshot. It serves as
// both a discrete and a continuous condition.
//
// The expression may yield a bool (true continues, false responds with
// OnFalse) or one of the strings "continue", "wait", "abort". A script that
// fails at run time aborts the motion.
//
// A Script holds compiled program state and must only be evaluated by one
// goroutine at a time, like the motion that owns it.
type Script struct {
	Expression string
	OnFalse    Response
	Budget

	compiled *tengo.Compiled
}

// NewScript compiles expression. onFalse is the verdict for a false result.
func NewScript(expression string, onFalse Response, budget Budget) (*Script, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("script expression is required")
	}

	script := tengo.NewScript([]byte(scriptVerdict + " := (" + expression + ")"))
	for name, value := range scriptVariables(Input{}) {
		if err := script.Add(name, value); err != nil {
			return nil, fmt.Errorf("script variable %s: %w", name, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile script %q: %w", expression, err)
	}

	return &Script{
		Expression: expression,
		OnFalse:    onFalse,
		Budget:     budget,
		compiled:   compiled,
	}, nil
}

func (s *Script) Evaluate(input Input) Response {
	r, err := s.run(input)
	if err != nil {
		return Abort
	}
	return r
}

func (s *Script) run(input Input) (Response, error) {
	for name, value := range scriptVariables(input) {
		if err := s.compiled.Set(name, value); err != nil {
			return Abort, fmt.Errorf("set %s: %w", name, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return Abort, fmt.Errorf("run script %q: %w", s.Expression, err)
	}

	switch v := s.compiled.Get(scriptVerdict).Value().(type) {
	case bool:
		if v {
			return Continue, nil
		}
		return s.OnFalse, nil
	case string:
		r, err := ParseResponse(v)
		if err != nil {
			return Abort, fmt.Errorf("script %q: %w", s.Expression, err)
		}
		return r, nil
	default:
		return Abort, fmt.Errorf("script %q yielded %T, want bool or string", s.Expression, v)
	}
}

func scriptVariables(input Input) map[string]any {
	fall := input.FallState
	if fall == "" {
		fall = FallStateUpright
	}
	return map[string]any{
		scriptRoll:          input.FilteredAngles.Roll,
		scriptPitch:         input.FilteredAngles.Pitch,
		scriptGyroX:         input.FilteredAngularVelocity.X,
		scriptGyroY:         input.FilteredAngularVelocity.Y,
		scriptGyroZ:         input.FilteredAngularVelocity.Z,
		scriptFallState:     string(fall),
		scriptGroundContact: input.GroundContact,
	}
}
