// Package initializer implements the closed-form marker-variant extrinsic initializer
// (§4.3): ground-plane recovery, camera-projection frame construction, hyper-edge
// assembly, yaw and XY-translation extraction, and sign disambiguation between the two
// candidate ground-plane orientations.
package initializer

import (
	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// Result is the output of Solve: the extrinsic estimate and the residual norm of the
// winning sign candidate, useful for diagnostics.
type Result struct {
	Extrinsic    calib.Extrinsic
	ResidualNorm float64
}

// Solve runs the full closed-form initializer over the dataset's mark edges and odometry
// edges, producing an initial X_bc. Returns ErrDegenerateGeometry per §4.3.7 when the
// ground-plane system is rank-deficient, no small-rotation hyper-edge exists, or fewer
// than two large-rotation hyper-edges exist. smallRotationRatioThreshold is in radians
// per meter of translation; pass DefaultSmallRotationRatioThreshold absent an override.
func Solve(d *calib.Dataset, smallRotationRatioThreshold float64) (Result, error) {
	normal, err := EstimateGroundPlane(d.MarkEdges())
	if err != nil {
		return Result{}, err
	}

	hyperEdges := BuildHyperEdges(d)
	small, large := Classify(hyperEdges, smallRotationRatioThreshold)

	candidate := func(n spatialmath.SE3) (Result, error) {
		return solveCandidate(n, small, large)
	}

	plusNormal := normal
	minusNormal := normal.Mul(-1)

	plusResult, plusErr := candidate(ProjectionFrame(plusNormal))
	minusResult, minusErr := candidate(ProjectionFrame(minusNormal))

	if plusErr != nil && minusErr != nil {
		return Result{}, plusErr
	}
	if plusErr != nil {
		return minusResult, nil
	}
	if minusErr != nil {
		return plusResult, nil
	}
	if plusResult.ResidualNorm <= minusResult.ResidualNorm {
		return plusResult, nil
	}
	return minusResult, nil
}

// solveCandidate runs 4.3.4 + 4.3.5 for one ground-plane sign candidate and composes the
// final extrinsic T_bc = T_bd . T_dc (§4.3.6).
func solveCandidate(tdc spatialmath.SE3, small, large []HyperEdge) (Result, error) {
	yaw, err := ExtractYaw(small, tdc)
	if err != nil {
		return Result{}, err
	}

	rdc := tdc.RotationMatrix()
	rbd := spatialmath.RotationMatrixRZ(yaw)
	// R_bc = R_bd . R_dc.
	rbc := rbd.Mul3(rdc)

	translation, err := ExtractTranslation(large, rbc)
	if err != nil {
		return Result{}, err
	}

	tbd := spatialmath.SE3{
		Rotation:    spatialmath.Mat3ToQuat(rbd),
		Translation: translation.TBD,
	}
	tbc := tbd.Compose(tdc)

	return Result{Extrinsic: tbc, ResidualNorm: translation.ResidualNorm}, nil
}
