// Package testutils builds synthetic keyframe/landmark fixtures with a known ground-truth
// extrinsic, shared by the closed-form initializer's and the joint optimizer's end-to-end
// tests so neither package has to hand-roll trajectory generation.
package testutils

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/calib/odometry"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// MarkSigma is the per-axis noise sigma baked into every synthetic MarkEdge's information
// matrix; small enough that a noise-free trajectory's residuals stay well inside solver
// tolerances.
const MarkSigma = 0.001

// DefaultNoise returns a representative odometry noise model, used by scenarios that do
// not exercise noise sensitivity directly.
func DefaultNoise() odometry.NoiseModel {
	return odometry.NoiseModel{
		LinRatio:    0.01,
		LinMin:      0.001,
		RotRatio:    0.01,
		RotRatioLin: 1.0 / 5000,
		RotMin:      1e-4,
	}
}

// StraightLineDataset builds nKF keyframes spaced spacingM apart along the base's X axis
// with a fixed heading, each observing every landmark in landmarks through extrinsic, with
// odometry edges built from the noise-free base trajectory via odometry.Build.
func StraightLineDataset(nKF int, spacingM float64, extrinsic spatialmath.SE3, landmarks []r3.Vector, noise odometry.NoiseModel) *calib.Dataset {
	poses := make([]spatialmath.SE2, nKF)
	for i := range poses {
		poses[i] = spatialmath.SE2{X: float64(i) * spacingM}
	}
	return PosedDataset(poses, extrinsic, landmarks, noise)
}

// RotateInPlaceDataset builds nKF keyframes at the origin, each rotated stepRad further
// than the last around the base's Z axis, observing every landmark in landmarks through
// extrinsic.
func RotateInPlaceDataset(nKF int, stepRad float64, extrinsic spatialmath.SE3, landmarks []r3.Vector, noise odometry.NoiseModel) *calib.Dataset {
	poses := make([]spatialmath.SE2, nKF)
	for i := range poses {
		poses[i] = spatialmath.SE2{Theta: spatialmath.Period(float64(i)*stepRad, -math.Pi, math.Pi)}
	}
	return PosedDataset(poses, extrinsic, landmarks, noise)
}

// PosedDataset places one keyframe per pose, one landmark per entry in landmarks, a mark
// edge from every keyframe to every landmark (measurement computed exactly from extrinsic,
// so the graph starts at zero residual), and odometry edges built from the same poses. It
// takes the base poses directly so callers that need a specific mix of small- and
// large-rotation odometry increments (§4.3.3's classification) aren't limited to the
// straight-line or in-place-rotation helpers above.
func PosedDataset(poses []spatialmath.SE2, extrinsic spatialmath.SE3, landmarks []r3.Vector, noise odometry.NoiseModel) *calib.Dataset {
	d := calib.NewDataset()
	for i, pose := range poses {
		d.AddKeyframe(calib.KeyframeID(i), pose)
	}
	for i, pos := range landmarks {
		d.AddLandmark(calib.LandmarkID(i), pos)
	}

	info := markInformation()
	for i, pose := range poses {
		cameraWorld := spatialmath.LiftSE2(pose).Compose(extrinsic)
		for j, worldPos := range landmarks {
			measurement := cameraWorld.Inverse().Transform(worldPos)
			_ = d.AddMarkEdge(calib.MarkEdge{
				KF:          calib.KeyframeID(i),
				LM:          calib.LandmarkID(j),
				Measurement: measurement,
				Information: info,
			})
		}
	}

	odometry.Build(d, noise)
	return d
}

func markInformation() *mat.Dense {
	v := 1 / (MarkSigma * MarkSigma)
	info := mat.NewDense(3, 3, nil)
	info.Set(0, 0, v)
	info.Set(1, 1, v)
	info.Set(2, 2, v)
	return info
}
