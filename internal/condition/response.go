// Package condition defines the verdicts motion conditions produce and the
// built-in condition kinds a motion file can configure.
//
// A discrete condition gates entry into or exit from a motion segment and may
// escalate a sustained Wait into an Abort once its time budget runs out. A
// continuous condition is checked on every tick while its segment is active and
// interrupts the motion by stalling (Wait) or terminating (Abort) it.
package condition

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Response is the verdict of evaluating a condition against one input snapshot.
type Response int

const (
	Continue Response = iota
	Wait
	Abort
)

func (r Response) String() string {
	switch r {
	case Continue:
		return "continue"
	case Wait:
		return "wait"
	case Abort:
		return "abort"
	default:
		return fmt.Sprintf("response(%d)", int(r))
	}
}

// ParseResponse parses the motion file spelling of a Response.
func ParseResponse(s string) (Response, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "continue":
		return Continue, nil
	case "wait":
		return Wait, nil
	case "abort":
		return Abort, nil
	default:
		return Continue, fmt.Errorf("unknown response %q", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler for Response.
func (r *Response) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseResponse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Response.
func (r Response) MarshalYAML() (any, error) { return r.String(), nil }

// WithTimeout escalates a Wait to Abort when the timeout rule says the
// condition has waited too long. Continue and Abort pass through unchanged.
func (r Response) WithTimeout(timeout TimeOut) Response {
	if r == Wait && timeout == TimeOutAbort {
		return Abort
	}
	return r
}

// TimeOut is the escalation rule a discrete condition reports for the time
// spent waiting on it so far.
type TimeOut int

const (
	// TimeOutContinue keeps waiting.
	TimeOutContinue TimeOut = iota
	// TimeOutAbort turns a pending Wait into Abort.
	TimeOutAbort
)

func (t TimeOut) String() string {
	if t == TimeOutAbort {
		return "abort"
	}
	return "continue"
}

// Combine reduces simultaneous verdicts into one: Abort beats Wait, Wait beats
// Continue. No verdicts at all combine to Continue.
func Combine(responses ...Response) Response {
	combined := Continue
	for _, r := range responses {
		combined = dominant(combined, r)
	}
	return combined
}

func dominant(accumulated, current Response) Response {
	switch {
	case accumulated == Abort || current == Abort:
		return Abort
	case accumulated == Wait || current == Wait:
		return Wait
	default:
		return accumulated
	}
}
