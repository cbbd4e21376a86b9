package condition

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// FallState is the fall detector's classification of the body.
type FallState string

const (
	FallStateUpright FallState = "upright"
	FallStateFalling FallState = "falling"
	FallStateFallen  FallState = "fallen"
)

// UnmarshalYAML implements yaml.Unmarshaler for FallState.
func (f *FallState) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	state := FallState(strings.ToLower(strings.TrimSpace(s)))
	switch state {
	case "":
		*f = FallStateUpright
	case FallStateUpright, FallStateFalling, FallStateFallen:
		*f = state
	default:
		return fmt.Errorf("unknown fall state %q", s)
	}
	return nil
}

// Angles holds filtered body orientation in radians.
type Angles struct {
	Roll  float64 `yaml:"roll" json:"roll"`
	Pitch float64 `yaml:"pitch" json:"pitch"`
}

// AngularVelocity holds filtered gyroscope readings in rad/s.
type AngularVelocity struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Norm returns the magnitude of the angular velocity.
func (v AngularVelocity) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Input is the sensor-derived snapshot conditions are evaluated against.
// The zero value describes an upright, motionless body without ground contact.
type Input struct {
	FilteredAngles          Angles          `yaml:"filtered_angles" json:"filtered_angles"`
	FilteredAngularVelocity AngularVelocity `yaml:"filtered_angular_velocity" json:"filtered_angular_velocity"`
	FallState               FallState       `yaml:"fall_state" json:"fall_state"`
	GroundContact           bool            `yaml:"ground_contact" json:"ground_contact"`
}

// Upright reports whether the fall detector considers the body upright.
// An unset fall state counts as upright.
func (in Input) Upright() bool {
	return in.FallState == "" || in.FallState == FallStateUpright
}
