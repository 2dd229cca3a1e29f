package optimize

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func testIntrinsics() *transform.PinholeCameraIntrinsics {
	return &transform.PinholeCameraIntrinsics{Width: 640, Height: 480, Fx: 100, Fy: 100, Ppx: 50, Ppy: 50}
}

func TestVisualResidualZeroWhenPixelMatchesProjection(t *testing.T) {
	t.Parallel()
	kfPose := spatialmath.SE2{}
	extrinsic := spatialmath.IdentitySE3()
	intrinsics := testIntrinsics()

	// A point directly ahead of the camera at z=1 projects to exactly (ppx, ppy).
	lmPos := r3.Vector{X: 0, Y: 0, Z: 1}
	pixel := r2.Point{X: 50, Y: 50}

	du, dv := visualResidual(kfPose, extrinsic, lmPos, pixel, intrinsics)
	test.That(t, du, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, dv, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestVisualResidualNonzeroWhenPixelOffset(t *testing.T) {
	t.Parallel()
	kfPose := spatialmath.SE2{}
	extrinsic := spatialmath.IdentitySE3()
	intrinsics := testIntrinsics()

	lmPos := r3.Vector{X: 1, Y: 0, Z: 1}
	pixel := r2.Point{X: 50, Y: 50}

	du, dv := visualResidual(kfPose, extrinsic, lmPos, pixel, intrinsics)
	test.That(t, du, test.ShouldAlmostEqual, 100, 1e-9)
	test.That(t, dv, test.ShouldAlmostEqual, 0, 1e-9)
}
