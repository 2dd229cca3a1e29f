package optimize

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/calib/initializer"
	"github.com/fenwick-robotics/handeye-calib/calib/testutils"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// extrinsicError combines rotation and translation offset between two SE3 poses into a
// single scalar, analogous to the SE2 ⊟ operator used elsewhere for odometry increments.
func extrinsicError(got, want spatialmath.SE3) float64 {
	rel := want.Inverse().Compose(got)
	return rel.Translation.Norm() + rel.RVec().Norm()
}

// groundTruthExtrinsic builds X_bc = (R_z(pi/2) . R_x(-pi/2), [0.1, 0, 0.3]) by composing
// two pure-axis rotation vectors, since the production package only exposes a Z-axis
// rotation-matrix builder.
func groundTruthExtrinsic() spatialmath.SE3 {
	rz := spatialmath.NewSE3FromRVec(r3.Vector{Z: math.Pi / 2}, r3.Vector{})
	rx := spatialmath.NewSE3FromRVec(r3.Vector{X: -math.Pi / 2}, r3.Vector{})
	rot := rz.Compose(rx)
	return spatialmath.SE3{Rotation: rot.Rotation, Translation: r3.Vector{X: 0.1, Y: 0, Z: 0.3}}
}

func groundMarks() []r3.Vector {
	return []r3.Vector{
		{X: 0, Y: -2, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 2, Z: 0},
	}
}

// straightLineWithTurnsPoses places 10 keyframes one metre apart along the base's X axis
// (the "straight line" of §8 scenario 1), but gives a handful of them a different heading
// than their predecessor. The closed-form initializer's yaw extraction (§4.3.4) needs at
// least one small-rotation hyper-edge and its translation extraction (§4.3.5) needs at
// least two large-rotation ones (§4.3.3's classification); an odometry trajectory with
// literally zero heading change anywhere has no large-rotation edges at all and the
// initializer can never solve for translation, regardless of how "straight" the path is.
// Two brief heading changes keep the path on the X axis while giving both extraction
// stages the edges they need.
func straightLineWithTurnsPoses(nKF int, spacingM float64) []spatialmath.SE2 {
	headings := make([]float64, nKF)
	turn := math.Pi / 4
	for i := range headings {
		switch {
		case i < 3:
			headings[i] = 0
		case i < 6:
			headings[i] = turn
		default:
			headings[i] = -turn
		}
	}
	poses := make([]spatialmath.SE2, nKF)
	for i := range poses {
		poses[i] = spatialmath.SE2{X: float64(i) * spacingM, Theta: headings[i]}
	}
	return poses
}

// TestEndToEndPureTranslationRecoversExtrinsic exercises §8 scenario 1: ten keyframes one
// metre apart on a straight line, five markers on the Z=0 plane, asserting the closed-form
// initializer lands within 1e-2 of the ground-truth extrinsic and the joint optimizer
// tightens that to within 1e-5.
func TestEndToEndPureTranslationRecoversExtrinsic(t *testing.T) {
	t.Parallel()
	extrinsic := groundTruthExtrinsic()
	poses := straightLineWithTurnsPoses(10, 1.0)
	d := testutils.PosedDataset(poses, extrinsic, groundMarks(), testutils.DefaultNoise())

	initResult, err := initializer.Solve(d, initializer.DefaultSmallRotationRatioThreshold)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, extrinsicError(initResult.Extrinsic, extrinsic) < 1e-2, test.ShouldBeTrue)

	optimized, err := (MarkerOptimizer{
		Config: MarkerConfig{InitialExtrinsic: initResult.Extrinsic, MaxIterations: markerMaxIterations},
	}).Calibrate(context.Background(), d)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, extrinsicError(optimized, extrinsic) < 1e-5, test.ShouldBeTrue)
}

// TestEndToEndPureRotationInPlaceIsDegenerateForInitializerButOptimizerConverges exercises
// §8 scenario 2: eight keyframes rotating pi/4 further in place each step, with no
// translation at all. Every odometry increment has zero distance, so no hyper-edge is ever
// classified small-rotation and the closed-form initializer must fail with
// ErrDegenerateGeometry. The joint optimizer, seeded from the ground truth perturbed by 5%,
// must still converge since its factor graph has no such blind spot.
func TestEndToEndPureRotationInPlaceIsDegenerateForInitializerButOptimizerConverges(t *testing.T) {
	t.Parallel()
	extrinsic := groundTruthExtrinsic()
	d := testutils.RotateInPlaceDataset(8, math.Pi/4, extrinsic, groundMarks(), testutils.DefaultNoise())

	_, err := initializer.Solve(d, initializer.DefaultSmallRotationRatioThreshold)
	test.That(t, errors.Is(err, calib.ErrDegenerateGeometry), test.ShouldBeTrue)

	seed := spatialmath.NewSE3FromRVec(extrinsic.RVec().Mul(1.05), extrinsic.Translation.Mul(1.05))
	optimized, err := (MarkerOptimizer{
		Config: MarkerConfig{InitialExtrinsic: seed, MaxIterations: markerMaxIterations},
	}).Calibrate(context.Background(), d)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, extrinsicError(optimized, extrinsic) < 1e-5, test.ShouldBeTrue)
}
