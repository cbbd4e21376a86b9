// Package kinematics defines the position types a motion can drive and the
// interpolation modes used to blend between keyframes.
//
// Adding a new interpolation mode requires only implementing Mode and registering
// it in ParseMode below; the spline and state machine never need to change.
package kinematics

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode is the blending contract every interpolation mode must satisfy.
// A mode blends four control points (p0, p1, p2, p3) where the curve runs from
// p1 at u = 0 to p2 at u = 1; p0 and p2's successor p3 shape the tangents.
type Mode interface {
	// Name returns the discriminator string used in motion files.
	Name() string

	// Weights returns the basis weights applied to (p0, p1, p2, p3) for the
	// local parameter u in [0, 1]. The weights always sum to 1.
	Weights(u float64) [4]float64
}

// Blend combines the four control points with the weights mode assigns to u.
func Blend[T Vector[T]](mode Mode, p0, p1, p2, p3 T, u float64) T {
	w := mode.Weights(clampUnit(u))
	return p0.Scale(w[0]).
		Add(p1.Scale(w[1])).
		Add(p2.Scale(w[2])).
		Add(p3.Scale(w[3]))
}

// ParseMode resolves a discriminator string into a built-in Mode.
//
// Supported modes:
//   - "linear": straight-line blend between neighbouring keyframes.
//   - "smooth": smoothstep easing, zero velocity at every keyframe.
//   - "catmull_rom": uniform Catmull-Rom spline through every keyframe.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LinearModeName:
		return Linear{}, nil
	case SmoothModeName:
		return Smooth{}, nil
	case CatmullRomModeName:
		return CatmullRom{}, nil
	case "":
		return nil, fmt.Errorf("interpolation mode is required")
	default:
		return nil, fmt.Errorf("unknown interpolation mode %q", name)
	}
}

// ModeSpec wraps a Mode so it can be decoded from its discriminator string.
type ModeSpec struct {
	Mode
}

// UnmarshalYAML implements yaml.Unmarshaler for ModeSpec.
func (m *ModeSpec) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return fmt.Errorf("interpolation mode: %w", err)
	}
	mode, err := ParseMode(name)
	if err != nil {
		return err
	}
	m.Mode = mode
	return nil
}

// MarshalYAML implements yaml.Marshaler for ModeSpec.
func (m ModeSpec) MarshalYAML() (any, error) {
	if m.Mode == nil {
		return nil, nil
	}
	return m.Name(), nil
}

func clampUnit(u float64) float64 {
	switch {
	case u < 0:
		return 0
	case u > 1:
		return 1
	default:
		return u
	}
}
