package optimize

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func TestOdometryResidualZeroWhenMeasurementMatchesPredicted(t *testing.T) {
	t.Parallel()
	head := spatialmath.SE2{X: 1, Y: 0, Theta: 0}
	tail := spatialmath.SE2{X: 1, Y: 1, Theta: 1.5707963267948966}
	measurement := spatialmath.Inc(head, tail)

	err := odometryResidual(head, tail, measurement)
	test.That(t, err.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, err.Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, err.Theta, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestMarkerResidualZeroWhenLandmarkAtPredictedPosition(t *testing.T) {
	t.Parallel()
	kfPose := spatialmath.SE2{X: 2, Y: 0, Theta: 0}
	extrinsic := spatialmath.IdentitySE3()
	cameraWorld := spatialmath.LiftSE2(kfPose).Compose(extrinsic)
	measurement := r3.Vector{X: 1, Y: 0.5, Z: 0.2}
	lmPos := cameraWorld.Transform(measurement)

	err := markerResidual(kfPose, extrinsic, lmPos, measurement)
	test.That(t, err.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, err.Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, err.Z, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestMarkerResidualNonzeroWhenLandmarkOffset(t *testing.T) {
	t.Parallel()
	kfPose := spatialmath.SE2{}
	extrinsic := spatialmath.IdentitySE3()
	measurement := r3.Vector{X: 1, Y: 0, Z: 0}
	lmPos := r3.Vector{X: 5, Y: 0, Z: 0}

	err := markerResidual(kfPose, extrinsic, lmPos, measurement)
	test.That(t, err.X, test.ShouldAlmostEqual, 4.0, 1e-9)
}
