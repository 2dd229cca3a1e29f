package initializer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// ProjectionFrame builds the D<-camera transform T_dc such that D's z-axis is n and its
// x/y axes span the ground plane, per §4.3.2. n must be a unit vector.
func ProjectionFrame(n r3.Vector) spatialmath.SE3 {
	a := leastAlignedAxis(n)
	rx := n.Cross(a).Normalize()
	ry := n.Cross(rx)
	rz := n

	// R_cd expressed column-major: columns are r_x, r_y, r_z in camera coordinates.
	rcd := mgl64.Mat3{
		rx.X, rx.Y, rx.Z,
		ry.X, ry.Y, ry.Z,
		rz.X, rz.Y, rz.Z,
	}
	rdc := rcd.Transpose()

	return spatialmath.SE3{
		Rotation:    spatialmath.Mat3ToQuat(rdc),
		Translation: r3.Vector{},
	}
}

// leastAlignedAxis returns whichever world basis axis is least aligned with n, used as the
// auxiliary vector to build an orthonormal frame from a single normal direction.
func leastAlignedAxis(n r3.Vector) r3.Vector {
	axes := []r3.Vector{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	best := axes[0]
	bestDot := math.Abs(n.Dot(best))
	for _, a := range axes[1:] {
		d := math.Abs(n.Dot(a))
		if d < bestDot {
			bestDot = d
			best = a
		}
	}
	return best
}
