package odometry

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func testNoise() NoiseModel {
	return NoiseModel{
		LinRatio:    0.05,
		LinMin:      0.001,
		RotRatio:    0.02,
		RotRatioLin: 1.0 / 5000,
		RotMin:      1e-4,
	}
}

func TestBuildProducesConsecutiveEdgesOnly(t *testing.T) {
	t.Parallel()
	d := calib.NewDataset()
	d.AddKeyframe(0, spatialmath.SE2{})
	d.AddKeyframe(1, spatialmath.SE2{X: 1})
	d.AddKeyframe(2, spatialmath.SE2{X: 2})

	Build(d, testNoise())
	edges := d.OdometryEdges()

	test.That(t, len(edges), test.ShouldEqual, 2)
	test.That(t, edges[0].Head, test.ShouldEqual, calib.KeyframeID(0))
	test.That(t, edges[0].Tail, test.ShouldEqual, calib.KeyframeID(1))
	test.That(t, edges[1].Head, test.ShouldEqual, calib.KeyframeID(1))
	test.That(t, edges[1].Tail, test.ShouldEqual, calib.KeyframeID(2))
}

func TestBuildEmptyOrSingleKeyframeYieldsNoEdges(t *testing.T) {
	t.Parallel()
	d := calib.NewDataset()
	Build(d, testNoise())
	test.That(t, len(d.OdometryEdges()), test.ShouldEqual, 0)

	d.AddKeyframe(0, spatialmath.SE2{})
	Build(d, testNoise())
	test.That(t, len(d.OdometryEdges()), test.ShouldEqual, 0)
}

func TestInformationMatrixFloorsAtMinima(t *testing.T) {
	t.Parallel()
	noise := testNoise()
	info := informationMatrix(spatialmath.SE2{}, noise)

	wantXY := 1 / (noise.LinMin * noise.LinMin)
	wantTheta := 1 / (noise.RotMin * noise.RotMin)
	test.That(t, info.At(0, 0), test.ShouldAlmostEqual, wantXY, 1e-6)
	test.That(t, info.At(1, 1), test.ShouldAlmostEqual, wantXY, 1e-6)
	test.That(t, info.At(2, 2), test.ShouldAlmostEqual, wantTheta, 1e-6)
}

func TestInformationMatrixRotationGrowsWithDistanceEvenAtZeroHeading(t *testing.T) {
	t.Parallel()
	noise := testNoise()
	// Long straight-line motion with zero commanded rotation: sigma_theta must still be
	// driven up by the distance-linked term (the corrected r_rot_lin formula), not floor
	// out at RotMin.
	delta := spatialmath.SE2{X: 100, Y: 0, Theta: 0}
	info := informationMatrix(delta, noise)

	sigmaThetaFromDist := delta.Dist() * noise.RotRatioLin
	wantTheta := 1 / (sigmaThetaFromDist * sigmaThetaFromDist)
	test.That(t, info.At(2, 2), test.ShouldAlmostEqual, wantTheta, 1e-6)
	test.That(t, math.Abs(info.At(2, 2)-1/(noise.RotMin*noise.RotMin)) > 1, test.ShouldBeTrue)
}
