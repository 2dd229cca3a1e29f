package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// QuatToMat3 converts a unit quaternion to a 3x3 rotation matrix.
func QuatToMat3(q quat.Number) mgl64.Mat3 {
	glQuat := mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}
	return glQuat.Mat4().Mat3()
}

// Mat3ToQuat converts a 3x3 rotation matrix to a unit quaternion.
func Mat3ToQuat(m mgl64.Mat3) quat.Number {
	glQuat := mgl64.Mat4ToQuat(m.Mat4())
	return quat.Number{Real: glQuat.W, Imag: glQuat.V[0], Jmag: glQuat.V[1], Kmag: glQuat.V[2]}
}

// Rodrigues converts a rotation vector (axis scaled by angle, in radians) to its
// equivalent 3x3 rotation matrix.
func Rodrigues(rvec r3.Vector) mgl64.Mat3 {
	aa := R3ToR4(rvec)
	return QuatToMat3(aa.ToQuat())
}

// InverseRodrigues converts a 3x3 rotation matrix back to a rotation vector.
func InverseRodrigues(m mgl64.Mat3) r3.Vector {
	aa := QuatToR4AA(Mat3ToQuat(m))
	return aa.ToR3()
}

// RotationMatrixRZ returns the rotation matrix for a rotation of theta radians about the Z axis,
// i.e. R_z(theta) in the planar-lift convention used by SE(2)->SE(3).
func RotationMatrixRZ(theta float64) mgl64.Mat3 {
	return Rodrigues(r3.Vector{X: 0, Y: 0, Z: theta})
}

// Period wraps x into the half-open interval (lo, hi], matching the convention used to
// normalize yaw residuals into (-pi, pi].
func Period(x, lo, hi float64) float64 {
	span := hi - lo
	for x <= lo {
		x += span
	}
	for x > hi {
		x -= span
	}
	return x
}

func mulMat3Vec(m mgl64.Mat3, v r3.Vector) r3.Vector {
	glv := m.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return r3.Vector{X: glv[0], Y: glv[1], Z: glv[2]}
}

// RotateVector applies rotation matrix m to v directly, for callers (the closed-form
// initializer's ground-plane frame math) that build up rotations as mgl64.Mat3 rather
// than quaternions.
func RotateVector(m mgl64.Mat3, v r3.Vector) r3.Vector {
	return mulMat3Vec(m, v)
}
