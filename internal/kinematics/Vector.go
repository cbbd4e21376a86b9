package kinematics

// Vector is the minimal capability a position type needs to be interpolated:
// linear combination and value equality.
type Vector[T any] interface {
	comparable
	Add(other T) T
	Scale(factor float64) T
}

// Scalar is a single-axis position, e.g. one joint angle in radians.
type Scalar float64

func (s Scalar) Add(other Scalar) Scalar { return s + other }

func (s Scalar) Scale(factor float64) Scalar { return Scalar(float64(s) * factor) }
