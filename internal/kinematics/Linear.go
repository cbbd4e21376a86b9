package kinematics

// Mode discriminator strings.
const (
	LinearModeName     = "linear"
	SmoothModeName     = "smooth"
	CatmullRomModeName = "catmull_rom"
)

// Linear blends neighbouring keyframes along a straight line.
type Linear struct{}

func (Linear) Name() string { return LinearModeName }

func (Linear) Weights(u float64) [4]float64 {
	return [4]float64{0, 1 - u, u, 0}
}

// Smooth eases in and out of every keyframe with a smoothstep profile.
// The path is the same as Linear; only the timing along it changes.
type Smooth struct{}

func (Smooth) Name() string { return SmoothModeName }

func (Smooth) Weights(u float64) [4]float64 {
	s := u * u * (3 - 2*u)
	return [4]float64{0, 1 - s, s, 0}
}

// CatmullRom passes through every keyframe with tangents taken from the
// neighbouring keyframes. At the ends of a spline the outer control point is
// duplicated, so the first and last tangents are halved.
type CatmullRom struct{}

func (CatmullRom) Name() string { return CatmullRomModeName }

func (CatmullRom) Weights(u float64) [4]float64 {
	u2 := u * u
	u3 := u2 * u
	return [4]float64{
		0.5 * (-u + 2*u2 - u3),
		0.5 * (2 - 5*u2 + 3*u3),
		0.5 * (u + 4*u2 - 3*u3),
		0.5 * (-u2 + u3),
	}
}
