package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// SE3 is a rigid-body transform in 3D: a rotation (stored as a unit quaternion, converted
// to/from the rotation-vector minimal form at the interface per §4.1) and a translation.
// SE3 is a small value type; it is never mutated in place.
type SE3 struct {
	Rotation    quat.Number
	Translation r3.Vector
}

// NewSE3FromRVec builds an SE3 from a Rodrigues rotation vector and a translation.
func NewSE3FromRVec(rvec, t r3.Vector) SE3 {
	return SE3{Rotation: R3ToR4(rvec).ToQuat(), Translation: t}
}

// RVec returns the minimal Rodrigues rotation-vector form of the rotation.
func (s SE3) RVec() r3.Vector {
	return QuatToR4AA(s.Rotation).ToR3()
}

// RotationMatrix returns the 3x3 rotation matrix equivalent to s.Rotation.
func (s SE3) RotationMatrix() mgl64.Mat3 {
	return QuatToMat3(s.Rotation)
}

// TransformByMatrix applies the transform using its rotation-matrix form directly, for
// callers (e.g. the essential-matrix pose recovery in rimage/transform) that already hold
// a raw 3x3 rotation and want to avoid a matrix->quaternion->matrix round trip.
func (s SE3) TransformByMatrix(p r3.Vector) r3.Vector {
	return s.Translation.Add(mulMat3Vec(s.RotationMatrix(), p))
}

// IdentitySE3 returns the identity transform.
func IdentitySE3() SE3 {
	return SE3{Rotation: quat.Number{Real: 1}, Translation: r3.Vector{}}
}

// Compose returns a ⊕ b, i.e. the transform that first applies b then a:
// a point p in b's frame maps to a.Rotate(b.Rotate(p) + b.Translation)... expressed as a
// single SE3 whose rotation is a.Rotation*b.Rotation and whose translation is
// a.Rotation applied to b.Translation, plus a.Translation.
func (a SE3) Compose(b SE3) SE3 {
	return SE3{
		Rotation:    quat.Mul(a.Rotation, b.Rotation),
		Translation: a.Translation.Add(a.Rotate(b.Translation)),
	}
}

// Inverse returns the inverse transform.
func (a SE3) Inverse() SE3 {
	inv := quat.Conj(a.Rotation)
	negT := a.Translation.Mul(-1)
	return SE3{Rotation: inv, Translation: rotateByQuat(inv, negT)}
}

// Rotate applies only the rotation part of the transform to v.
func (a SE3) Rotate(v r3.Vector) r3.Vector {
	return rotateByQuat(a.Rotation, v)
}

// Transform applies the full rigid transform to a point.
func (a SE3) Transform(p r3.Vector) r3.Vector {
	return a.Translation.Add(a.Rotate(p))
}

func rotateByQuat(q quat.Number, v r3.Vector) r3.Vector {
	vq := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rq := quat.Mul(quat.Mul(q, vq), quat.Conj(q))
	return r3.Vector{X: rq.Imag, Y: rq.Jmag, Z: rq.Kmag}
}

// LiftSE2 embeds a planar SE(2) pose into SE(3) with z=0 and rotation about Z only,
// per §4.1's SE3::lift_from_SE2.
func LiftSE2(s SE2) SE3 {
	return SE3{
		Rotation:    Mat3ToQuat(RotationMatrixRZ(s.Theta)),
		Translation: r3.Vector{X: s.X, Y: s.Y, Z: 0},
	}
}
