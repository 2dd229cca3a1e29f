package optimize

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func TestUndistortUVEdgesNoOpWithNilModel(t *testing.T) {
	t.Parallel()
	d := calib.NewDataset()
	d.AddKeyframe(calib.KeyframeID(0), spatialmath.SE2{})
	d.AddLandmark(calib.LandmarkID(0), r3.Vector{})
	pixel := r2.Point{X: 12, Y: 34}
	test.That(t, d.AddUVEdge(calib.UVEdge{KF: 0, LM: 0, Pixel: pixel}), test.ShouldBeNil)

	UndistortUVEdges(d, nil)
	test.That(t, d.UVEdges()[0].Pixel, test.ShouldResemble, pixel)
}

func TestUndistortUVEdgesRewritesPixelsThroughModel(t *testing.T) {
	t.Parallel()
	d := calib.NewDataset()
	d.AddKeyframe(calib.KeyframeID(0), spatialmath.SE2{})
	d.AddLandmark(calib.LandmarkID(0), r3.Vector{})
	test.That(t, d.AddUVEdge(calib.UVEdge{KF: 0, LM: 0, Pixel: r2.Point{X: 330, Y: 250}}), test.ShouldBeNil)

	distortion, err := transform.NewInverseBrownConrady([]float64{-0.1, 0, 0, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	model := &transform.PinholeCameraModel{
		PinholeCameraIntrinsics: testIntrinsics(),
		Distortion:              distortion,
	}

	UndistortUVEdges(d, model)
	got := d.UVEdges()[0].Pixel
	test.That(t, got, test.ShouldNotResemble, r2.Point{X: 330, Y: 250})
}

func TestUndistortRawMatchesNoOpWithNilModel(t *testing.T) {
	t.Parallel()
	matches := []RawMatch{{KF1: 0, KF2: 1, Pixel1: r2.Point{X: 1, Y: 2}, Pixel2: r2.Point{X: 3, Y: 4}}}
	got := undistortRawMatches(matches, nil)
	test.That(t, got, test.ShouldResemble, matches)
}
