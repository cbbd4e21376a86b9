package kinematics

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Joint indexes into a Joints array.
type Joint int

const (
	HeadYaw Joint = iota
	HeadPitch
	LeftShoulderPitch
	LeftShoulderRoll
	LeftElbowYaw
	LeftElbowRoll
	LeftWristYaw
	LeftHand
	RightShoulderPitch
	RightShoulderRoll
	RightElbowYaw
	RightElbowRoll
	RightWristYaw
	RightHand
	LeftHipYawPitch
	LeftHipRoll
	LeftHipPitch
	LeftKneePitch
	LeftAnklePitch
	LeftAnkleRoll
	RightHipYawPitch
	RightHipRoll
	RightHipPitch
	RightKneePitch
	RightAnklePitch
	RightAnkleRoll

	JointCount
)

var jointNames = [JointCount]string{
	"head_yaw",
	"head_pitch",
	"left_shoulder_pitch",
	"left_shoulder_roll",
	"left_elbow_yaw",
	"left_elbow_roll",
	"left_wrist_yaw",
	"left_hand",
	"right_shoulder_pitch",
	"right_shoulder_roll",
	"right_elbow_yaw",
	"right_elbow_roll",
	"right_wrist_yaw",
	"right_hand",
	"left_hip_yaw_pitch",
	"left_hip_roll",
	"left_hip_pitch",
	"left_knee_pitch",
	"left_ankle_pitch",
	"left_ankle_roll",
	"right_hip_yaw_pitch",
	"right_hip_roll",
	"right_hip_pitch",
	"right_knee_pitch",
	"right_ankle_pitch",
	"right_ankle_roll",
}

var jointByName = func() map[string]Joint {
	m := make(map[string]Joint, JointCount)
	for i, name := range jointNames {
		m[name] = Joint(i)
	}
	return m
}()

// String returns the motion file name of the joint.
func (j Joint) String() string {
	if j < 0 || j >= JointCount {
		return fmt.Sprintf("joint(%d)", int(j))
	}
	return jointNames[j]
}

// Joints holds one angle (radians) per body joint. It is a value type, so two
// Joints compare equal when every angle matches.
type Joints [JointCount]float64

// FillJoints returns Joints with every angle set to value.
func FillJoints(value float64) Joints {
	var j Joints
	for i := range j {
		j[i] = value
	}
	return j
}

func (j Joints) Add(other Joints) Joints {
	for i := range j {
		j[i] += other[i]
	}
	return j
}

func (j Joints) Scale(factor float64) Joints {
	for i := range j {
		j[i] *= factor
	}
	return j
}

// Map returns the angles keyed by joint name.
func (j Joints) Map() map[string]float64 {
	m := make(map[string]float64, JointCount)
	for i, name := range jointNames {
		m[name] = j[i]
	}
	return m
}

// JointsFromMap builds Joints from a name-to-angle mapping. Every joint must be
// present and unknown names are rejected, so a typo can never silently command 0.
func JointsFromMap(m map[string]float64) (Joints, error) {
	var j Joints
	for name, angle := range m {
		idx, ok := jointByName[name]
		if !ok {
			return Joints{}, fmt.Errorf("unknown joint %q", name)
		}
		j[idx] = angle
	}
	for _, name := range jointNames {
		if _, ok := m[name]; !ok {
			return Joints{}, fmt.Errorf("missing joint %q", name)
		}
	}
	return j, nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Joints.
func (j *Joints) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]float64
	if err := node.Decode(&m); err != nil {
		return fmt.Errorf("joints: %w", err)
	}
	parsed, err := JointsFromMap(m)
	if err != nil {
		return fmt.Errorf("joints: %w", err)
	}
	*j = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Joints.
func (j Joints) MarshalYAML() (any, error) {
	return j.Map(), nil
}

// MarshalJSON implements json.Marshaler for Joints.
func (j Joints) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Map())
}
