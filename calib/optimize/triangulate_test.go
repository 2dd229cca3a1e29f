package optimize

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func TestClampBoundsToRange(t *testing.T) {
	t.Parallel()
	test.That(t, clamp(2, -1, 1), test.ShouldEqual, 1.0)
	test.That(t, clamp(-2, -1, 1), test.ShouldEqual, -1.0)
	test.That(t, clamp(0.5, -1, 1), test.ShouldEqual, 0.5)
}

// TestTriangulatePairRecoversKnownPoint places a world point at (0,0,3) and two cameras
// offset along X, both looking down +Z, and checks the triangulated position is close to
// the known point with non-trivial parallax.
func TestTriangulatePairRecoversKnownPoint(t *testing.T) {
	t.Parallel()
	intrinsics := testIntrinsics()

	cam1 := spatialmath.IdentitySE3()
	cam2 := spatialmath.IdentitySE3()
	cam2.Translation.X = 1 // second camera offset 1m along X in world frame

	point := struct{ X, Y, Z float64 }{0, 0, 3}

	px1 := r2.Point{X: intrinsics.Fx*(point.X/point.Z) + intrinsics.Ppx, Y: intrinsics.Fy*(point.Y/point.Z) + intrinsics.Ppy}
	// In cam2's frame, the point's X shifts by -1 (cam2 sees a point 1m to its left).
	shiftedX := point.X - cam2.Translation.X
	px2 := r2.Point{X: intrinsics.Fx*(shiftedX/point.Z) + intrinsics.Ppx, Y: intrinsics.Fy*(point.Y/point.Z) + intrinsics.Ppy}

	worldPos, parallax, ok := triangulatePair(cam1, cam2, px1, px2, intrinsics)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, worldPos.Z > 0, test.ShouldBeTrue)
	test.That(t, math.Abs(worldPos.Z-point.Z) < 0.5, test.ShouldBeTrue)
	test.That(t, parallax > 0, test.ShouldBeTrue)
	test.That(t, math.IsNaN(parallax), test.ShouldBeFalse)
}
