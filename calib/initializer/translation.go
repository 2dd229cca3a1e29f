package initializer

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/calib/linalg"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// TranslationResult carries the XY translation extraction outcome and its residual norm,
// used by sign disambiguation (§4.3.6) to pick between the D+ and D- candidates.
type TranslationResult struct {
	TBD          r3.Vector
	ResidualNorm float64
}

// ExtractTranslation solves for t_bd = (x0, x1, 0) from the large-rotation hyper-edges,
// given the fixed rotation R_bc = R_bd . R_dc, per §4.3.5:
//
//	(I - R_b1b2) . t_bc = R_b1b2 . R_bc . t_c2m - R_bc . t_c1m + t_b1b2
//
// keeping only the top two rows and solving the stacked system by least squares. Fails
// with ErrDegenerateGeometry if fewer than two large-rotation edges are given.
func ExtractTranslation(edges []HyperEdge, rbc mgl64.Mat3) (TranslationResult, error) {
	if len(edges) < 2 {
		return TranslationResult{}, calib.ErrDegenerateGeometry
	}

	rows := 2 * len(edges)
	A := mat.NewDense(rows, 2, nil)
	b := mat.NewVecDense(rows, nil)

	for i, e := range edges {
		rb1b2 := spatialmath.RotationMatrixRZ(e.Odo.Measurement.Theta)

		lhs := identity3()
		for k := range lhs {
			lhs[k] -= rb1b2[k]
		}
		rhs := spatialmath.RotateVector(rb1b2, spatialmath.RotateVector(rbc, e.Tail.Measurement)).
			Sub(spatialmath.RotateVector(rbc, e.Head.Measurement)).
			Add(r3.Vector{X: e.Odo.Measurement.X, Y: e.Odo.Measurement.Y})

		A.Set(2*i, 0, lhs[0])
		A.Set(2*i, 1, lhs[3])
		A.Set(2*i+1, 0, lhs[1])
		A.Set(2*i+1, 1, lhs[4])
		b.SetVec(2*i, rhs.X)
		b.SetVec(2*i+1, rhs.Y)
	}

	w := linalg.Identity(rows)
	dx, _, err := linalg.SolveLS(A, b, w)
	if err != nil {
		return TranslationResult{}, calib.ErrNumericFailure
	}

	x0, x1 := dx.AtVec(0), dx.AtVec(1)

	var residual mat.VecDense
	residual.MulVec(A, mat.NewVecDense(2, []float64{x0, x1}))
	residual.SubVec(&residual, b)

	return TranslationResult{
		TBD:          r3.Vector{X: x0, Y: x1, Z: 0},
		ResidualNorm: mat.Norm(&residual, 2),
	}, nil
}

func identity3() mgl64.Mat3 {
	return mgl64.Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}
