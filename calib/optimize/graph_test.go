package optimize

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func TestVertexLayoutPackUnpackRoundTrips(t *testing.T) {
	t.Parallel()
	d := calib.NewDataset()
	d.AddKeyframe(0, spatialmath.SE2{X: 1, Y: 2, Theta: 0.3})
	d.AddKeyframe(1, spatialmath.SE2{X: 4, Y: -1, Theta: -0.7})
	d.AddLandmark(10, r3.Vector{X: 1, Y: 2, Z: 3})

	extrinsic := spatialmath.NewSE3FromRVec(r3.Vector{X: 0.1, Y: 0.2, Z: -0.1}, r3.Vector{X: 0.5, Y: 0, Z: 1.2})

	layout := NewVertexLayout(d, true)
	x := layout.Pack(extrinsic, d)
	test.That(t, len(x), test.ShouldEqual, layout.Dim())

	d2 := calib.NewDataset()
	d2.AddKeyframe(0, spatialmath.SE2{})
	d2.AddKeyframe(1, spatialmath.SE2{})
	d2.AddLandmark(10, r3.Vector{})

	got := layout.Unpack(x, d2)
	test.That(t, got.Translation.X, test.ShouldAlmostEqual, extrinsic.Translation.X, 1e-9)
	test.That(t, got.Translation.Z, test.ShouldAlmostEqual, extrinsic.Translation.Z, 1e-9)

	kf0, _ := d2.Keyframe(0)
	test.That(t, kf0.BasePose.X, test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, kf0.BasePose.Theta, test.ShouldAlmostEqual, 0.3, 1e-9)

	kf1, _ := d2.Keyframe(1)
	test.That(t, kf1.BasePose.Y, test.ShouldAlmostEqual, -1.0, 1e-9)

	lm, _ := d2.Landmark(10)
	test.That(t, lm.Position.Z, test.ShouldAlmostEqual, 3.0, 1e-9)
}

func TestVertexLayoutExcludesLandmarksWhenNotRequested(t *testing.T) {
	t.Parallel()
	d := calib.NewDataset()
	d.AddKeyframe(0, spatialmath.SE2{})
	d.AddLandmark(10, r3.Vector{X: 1})

	withLandmarks := NewVertexLayout(d, true)
	withoutLandmarks := NewVertexLayout(d, false)

	test.That(t, withLandmarks.Dim(), test.ShouldEqual, withoutLandmarks.Dim()+3)
}
