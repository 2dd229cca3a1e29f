package testutils

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func TestStraightLineDatasetHasZeroResidualMarkEdges(t *testing.T) {
	t.Parallel()
	extrinsic := spatialmath.NewSE3FromRVec(r3.Vector{X: 0.1}, r3.Vector{X: 0.2, Z: 0.3})
	landmarks := []r3.Vector{{X: 1, Y: 0, Z: 0}, {X: 2, Y: 1, Z: 0}}
	d := StraightLineDataset(4, 1.0, extrinsic, landmarks, DefaultNoise())

	test.That(t, len(d.OdometryEdges()), test.ShouldEqual, 3)

	edge, ok := d.MarkEdgeFor(0, 0)
	test.That(t, ok, test.ShouldBeTrue)
	kf0, _ := d.Keyframe(0)
	cameraWorld := spatialmath.LiftSE2(kf0.MeasuredBasePose).Compose(extrinsic)
	want := cameraWorld.Inverse().Transform(landmarks[0])
	test.That(t, edge.Measurement.X, test.ShouldAlmostEqual, want.X, 1e-9)
	test.That(t, edge.Measurement.Y, test.ShouldAlmostEqual, want.Y, 1e-9)
	test.That(t, edge.Measurement.Z, test.ShouldAlmostEqual, want.Z, 1e-9)
}

func TestRotateInPlaceDatasetHasZeroDistanceOdometry(t *testing.T) {
	t.Parallel()
	extrinsic := spatialmath.IdentitySE3()
	landmarks := []r3.Vector{{X: 1, Y: 0, Z: 0}}
	d := RotateInPlaceDataset(5, 0.3, extrinsic, landmarks, DefaultNoise())

	for _, e := range d.OdometryEdges() {
		test.That(t, e.Measurement.Dist(), test.ShouldAlmostEqual, 0.0, 1e-12)
	}
}
