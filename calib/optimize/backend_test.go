package optimize

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func identityInfo3() [3][3]float64 {
	return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// TestDenseLMBackendConvergesOnAlreadyConsistentGraph builds a tiny marker-style graph
// that is already perfectly self-consistent (zero residual at the seed values), so
// Optimize should leave every vertex where it started.
func TestDenseLMBackendConvergesOnAlreadyConsistentGraph(t *testing.T) {
	t.Parallel()
	extrinsic := spatialmath.IdentitySE3()
	kfPose := spatialmath.SE2{X: 2, Y: 0, Theta: 0}
	measurement := r3.Vector{X: 1, Y: 0, Z: 0}
	cameraWorld := spatialmath.LiftSE2(kfPose).Compose(extrinsic)
	lmPos := cameraWorld.Transform(measurement)

	backend := NewDenseLMBackend(nil, nil)
	backend.AddVertexSE3(extrinsic)
	backend.AddVertexSE2(calib.KeyframeID(0), kfPose)
	backend.AddVertexPoint3(calib.LandmarkID(10), lmPos)
	backend.AddEdgeProject3(calib.KeyframeID(0), calib.LandmarkID(10), measurement, identityInfo3())

	err := backend.Optimize(context.Background(), 10)
	test.That(t, err, test.ShouldBeNil)

	gotPose, ok := backend.ReadKeyframePose(calib.KeyframeID(0))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, gotPose.X, test.ShouldAlmostEqual, kfPose.X, 1e-6)

	gotPos, ok := backend.ReadLandmarkPosition(calib.LandmarkID(10))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, gotPos.X, test.ShouldAlmostEqual, lmPos.X, 1e-6)
}
