package initializer

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func TestExtractTranslationRecoversKnownTranslation(t *testing.T) {
	t.Parallel()
	rbc := identity3()
	tbcTrue := [2]float64{2, -1}

	thetas := []float64{math.Pi / 2, math.Pi}
	var edges []HyperEdge
	for _, theta := range thetas {
		r := spatialmath.RotationMatrixRZ(theta)
		// t_b1b2 = (I - R_b1b2) . t_bc_true, with t_c1m = t_c2m = 0 so the rest of the
		// right-hand side of §4.3.5's equation vanishes.
		tb1b2X := tbcTrue[0] - (r[0]*tbcTrue[0] + r[3]*tbcTrue[1])
		tb1b2Y := tbcTrue[1] - (r[1]*tbcTrue[0] + r[4]*tbcTrue[1])

		edges = append(edges, HyperEdge{
			Odo: calib.OdoEdge{Measurement: spatialmath.SE2{X: tb1b2X, Y: tb1b2Y, Theta: theta}},
		})
	}

	result, err := ExtractTranslation(edges, rbc)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.TBD.X, test.ShouldAlmostEqual, tbcTrue[0], 1e-9)
	test.That(t, result.TBD.Y, test.ShouldAlmostEqual, tbcTrue[1], 1e-9)
	test.That(t, result.ResidualNorm, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestExtractTranslationFailsWithFewerThanTwoEdges(t *testing.T) {
	t.Parallel()
	_, err := ExtractTranslation([]HyperEdge{{}}, identity3())
	test.That(t, err, test.ShouldEqual, calib.ErrDegenerateGeometry)
}
