package initializer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/optimize"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// ExtractYaw computes R_bd = R_z(yaw) from the small-rotation hyper-edges, per §4.3.4: an
// unweighted arithmetic mean over all edges' predicted-vs-measured heading offsets,
// polished by a bounded 1-D search over the same objective. Fails with
// ErrDegenerateGeometry if edges is empty (yaw undefined).
func ExtractYaw(edges []HyperEdge, tdc spatialmath.SE3) (yaw float64, err error) {
	if len(edges) == 0 {
		return 0, calib.ErrDegenerateGeometry
	}
	rdc := tdc.RotationMatrix()

	sum := 0.0
	for _, e := range edges {
		sum += edgeYaw(e, rdc)
	}
	mean := spatialmath.Period(sum/float64(len(edges)), -math.Pi, math.Pi)

	polished, polishErr := polishYaw(mean, edges, rdc)
	if polishErr != nil {
		// The line search is a refinement, not a requirement; fall back to the closed-form
		// mean rather than fail the initializer over a line-search hiccup.
		return mean, nil
	}
	return polished, nil
}

// edgeYaw computes yaw_edge = atan2(t_b1b2) - atan2(t̄_b1b2), wrapped to (-pi, pi] (§4.3.4).
func edgeYaw(e HyperEdge, rdc mgl64.Mat3) float64 {
	tBar := predictedTranslation(e, rdc)
	measured := math.Atan2(e.Odo.Measurement.Y, e.Odo.Measurement.X)
	predicted := math.Atan2(tBar.Y, tBar.X)
	return spatialmath.Period(measured-predicted, -math.Pi, math.Pi)
}

// predictedTranslation computes t̄_b1b2 = R_dc·t_c1m - R_b1b2·R_dc·t_c2m.
func predictedTranslation(e HyperEdge, rdc mgl64.Mat3) r3.Vector {
	rb1b2 := spatialmath.RotationMatrixRZ(e.Odo.Measurement.Theta)
	c1 := spatialmath.RotateVector(rdc, e.Head.Measurement)
	c2 := spatialmath.RotateVector(rdc, e.Tail.Measurement)
	return c1.Sub(spatialmath.RotateVector(rb1b2, c2))
}

// polishYaw runs a bounded Nelder-Mead line search over the single free yaw parameter,
// minimizing the sum of squared angular residuals across edges (§4.3.4).
func polishYaw(guess float64, edges []HyperEdge, rdc mgl64.Mat3) (float64, error) {
	objective := func(x []float64) float64 {
		yaw := x[0]
		sum := 0.0
		for _, e := range edges {
			tBar := predictedTranslation(e, rdc)
			measured := math.Atan2(e.Odo.Measurement.Y, e.Odo.Measurement.X)
			predicted := math.Atan2(tBar.Y, tBar.X)
			residual := spatialmath.Period(measured-predicted-yaw, -math.Pi, math.Pi)
			sum += residual * residual
		}
		return sum
	}

	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, []float64{guess}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, err
	}
	return spatialmath.Period(result.X[0], -math.Pi, math.Pi), nil
}
