package kinematics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time span read from a motion document, either as a number of
// seconds (1, 0.25) or as a Go duration string ("250ms").
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be seconds or a duration string", node.Line)
	}

	switch node.ShortTag() {
	case "!!int", "!!float":
		var secs float64
		if err := node.Decode(&secs); err != nil {
			return err
		}
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return fmt.Errorf("line %d: invalid duration %q", node.Line, node.Value)
		}
		*d = Duration(math.Round(secs * float64(time.Second)))
	case "!!str":
		parsed, err := time.ParseDuration(strings.TrimSpace(node.Value))
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("line %d: duration must be seconds or a duration string", node.Line)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
