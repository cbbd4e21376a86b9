package condition

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cxd309/motion-engine/internal/kinematics"
)

// Condition kind discriminators used in motion files.
const (
	KindStabilizedByAngle    = "stabilized_by_angle"
	KindGroundContact        = "ground_contact"
	KindFallenAbort          = "fallen_abort"
	KindAngularVelocityLimit = "angular_velocity_limit"
	KindScript               = "script"
)

// kindDisc is the minimum structure needed to read the kind discriminator.
type kindDisc struct {
	Type string `yaml:"type"`
}

// budgetYAML is the optional timeout shared by discrete kinds, in seconds or
// as a duration string.
type budgetYAML struct {
	Timeout *kinematics.Duration `yaml:"timeout"`
}

// scriptYAML is the raw shape of a script condition before compilation.
type scriptYAML struct {
	Expression string               `yaml:"expression"`
	OnFalse    *Response            `yaml:"on_false"`
	Timeout    *kinematics.Duration `yaml:"timeout"`
}

// DiscreteSpec is a discrete condition decoded from a motion file.
type DiscreteSpec struct {
	Kind string
	Discrete
}

// UnmarshalYAML implements yaml.Unmarshaler for DiscreteSpec.
// The mapping must contain a "type" discriminator that selects the concrete
// kind; the rest of the mapping is decoded by that kind.
//
// Supported kinds:
//   - "stabilized_by_angle": roll_tolerance / pitch_tolerance, optional timeout.
//   - "ground_contact": optional timeout.
//   - "script": expression, optional on_false and timeout.
func (s *DiscreteSpec) UnmarshalYAML(node *yaml.Node) error {
	var disc kindDisc
	if err := node.Decode(&disc); err != nil {
		return fmt.Errorf("reading condition type: %w", err)
	}

	switch disc.Type {
	case KindStabilizedByAngle:
		var c StabilizedByAngle
		if err := node.Decode(&c); err != nil {
			return fmt.Errorf("parsing %s condition: %w", disc.Type, err)
		}
		budget, err := decodeBudget(node)
		if err != nil {
			return fmt.Errorf("parsing %s condition: %w", disc.Type, err)
		}
		c.Budget = budget
		s.Discrete = c
	case KindGroundContact:
		budget, err := decodeBudget(node)
		if err != nil {
			return fmt.Errorf("parsing %s condition: %w", disc.Type, err)
		}
		s.Discrete = GroundContact{Budget: budget}
	case KindScript:
		c, err := decodeScript(node)
		if err != nil {
			return err
		}
		s.Discrete = c
	case "":
		return fmt.Errorf("condition is missing \"type\" field")
	default:
		return fmt.Errorf("unknown discrete condition type %q", disc.Type)
	}
	s.Kind = disc.Type
	return nil
}

// ContinuousSpec is a continuous interrupt condition decoded from a motion file.
type ContinuousSpec struct {
	Kind string
	Continuous
}

// UnmarshalYAML implements yaml.Unmarshaler for ContinuousSpec.
//
// Supported kinds:
//   - "fallen_abort": no parameters.
//   - "angular_velocity_limit": max, optional on_exceeded.
//   - "script": expression, optional on_false.
func (s *ContinuousSpec) UnmarshalYAML(node *yaml.Node) error {
	var disc kindDisc
	if err := node.Decode(&disc); err != nil {
		return fmt.Errorf("reading condition type: %w", err)
	}

	switch disc.Type {
	case KindFallenAbort:
		s.Continuous = FallenAbort{}
	case KindAngularVelocityLimit:
		var c AngularVelocityLimit
		if err := node.Decode(&c); err != nil {
			return fmt.Errorf("parsing %s condition: %w", disc.Type, err)
		}
		if c.Max <= 0 {
			return fmt.Errorf("%s condition: max must be greater than 0", disc.Type)
		}
		s.Continuous = c
	case KindScript:
		c, err := decodeScript(node)
		if err != nil {
			return err
		}
		s.Continuous = c
	case "":
		return fmt.Errorf("condition is missing \"type\" field")
	default:
		return fmt.Errorf("unknown continuous condition type %q", disc.Type)
	}
	s.Kind = disc.Type
	return nil
}

func decodeScript(node *yaml.Node) (*Script, error) {
	var raw scriptYAML
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing %s condition: %w", KindScript, err)
	}
	onFalse := Wait
	if raw.OnFalse != nil {
		onFalse = *raw.OnFalse
	}
	return NewScript(raw.Expression, onFalse, budgetYAML{Timeout: raw.Timeout}.budget())
}

func decodeBudget(node *yaml.Node) (Budget, error) {
	var raw budgetYAML
	if err := node.Decode(&raw); err != nil {
		return Budget{}, err
	}
	return raw.budget(), nil
}

func (b budgetYAML) budget() Budget {
	if b.Timeout == nil {
		return Budget{}
	}
	limit := b.Timeout.Std()
	return Budget{Limit: &limit}
}
