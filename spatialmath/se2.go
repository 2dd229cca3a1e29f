package spatialmath

import "math"

// SE2 is a planar rigid-body pose (x, y, theta), stored as a small value type with no
// interior mutability, per §4.1 / §9's "SE(2)/SE(3) as value types" guidance.
type SE2 struct {
	X, Y, Theta float64
}

// IdentitySE2 returns the planar identity pose.
func IdentitySE2() SE2 {
	return SE2{}
}

// Compose returns a ⊞ b: applying increment b in a's frame, expressed in the world frame.
// This is the group operation for which Inc is the right-inverse: a.Compose(Inc(a, b)) == b.
func (a SE2) Compose(b SE2) SE2 {
	sinT, cosT := math.Sin(a.Theta), math.Cos(a.Theta)
	return SE2{
		X:     a.X + cosT*b.X - sinT*b.Y,
		Y:     a.Y + sinT*b.X + cosT*b.Y,
		Theta: Period(a.Theta+b.Theta, -math.Pi, math.Pi),
	}
}

// Inverse returns the inverse planar pose.
func (a SE2) Inverse() SE2 {
	sinT, cosT := math.Sin(a.Theta), math.Cos(a.Theta)
	return SE2{
		X:     -cosT*a.X - sinT*a.Y,
		Y:     sinT*a.X - cosT*a.Y,
		Theta: Period(-a.Theta, -math.Pi, math.Pi),
	}
}

// Inc computes b ⊟ a, the group right-difference in the plane: the increment that,
// applied in a's frame, produces b. This is the SE(2) subtraction used for odometry
// increments (§3 invariants, §4.1): Δ = a⁻¹·b expressed in a's frame.
func Inc(a, b SE2) SE2 {
	return a.Inverse().Compose(b)
}

// Dist returns the Euclidean translation norm of the pose, interpreted as an increment.
func (s SE2) Dist() float64 {
	return math.Hypot(s.X, s.Y)
}

// ThetaAbs returns the absolute value of the heading component.
func (s SE2) ThetaAbs() float64 {
	return math.Abs(s.Theta)
}

// Ratio returns the signed ratio theta/dist used to classify an odometry increment as
// small-rotation vs. large-rotation (§4.3.3). Returns +Inf (signed by Theta) when Dist is zero
// and Theta is not, and 0 when both are zero.
func (s SE2) Ratio() float64 {
	d := s.Dist()
	if d == 0 {
		if s.Theta == 0 {
			return 0
		}
		if s.Theta > 0 {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return s.Theta / d
}
