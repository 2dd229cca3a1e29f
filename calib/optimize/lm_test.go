package optimize

import (
	"context"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

// TestRunSolvesLinearLeastSquares checks LM against a trivially linear problem (so a
// single Gauss-Newton-like step should converge in very few iterations): residual
// r(x) = A*x - b for a well-conditioned 2x2 A.
func TestRunSolvesLinearLeastSquares(t *testing.T) {
	t.Parallel()
	a := [2][2]float64{{2, 0}, {0, 3}}
	b := []float64{4, 9}

	residuals := func(x []float64) *mat.VecDense {
		r := mat.NewVecDense(2, nil)
		r.SetVec(0, a[0][0]*x[0]+a[0][1]*x[1]-b[0])
		r.SetVec(1, a[1][0]*x[0]+a[1][1]*x[1]-b[1])
		return r
	}

	problem := Problem{
		Dim:         2,
		ResidualDim: 2,
		Residuals:   residuals,
		Weights:     identitySym(2),
	}

	result, err := Run(context.Background(), problem, []float64{0, 0}, 50)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Converged, test.ShouldBeTrue)
	test.That(t, result.X[0], test.ShouldAlmostEqual, 2.0, 1e-6)
	test.That(t, result.X[1], test.ShouldAlmostEqual, 3.0, 1e-6)
}

func TestRunReturnsStartingCostWhenAlreadyOptimal(t *testing.T) {
	t.Parallel()
	residuals := func(x []float64) *mat.VecDense {
		r := mat.NewVecDense(1, nil)
		r.SetVec(0, x[0])
		return r
	}
	problem := Problem{
		Dim:         1,
		ResidualDim: 1,
		Residuals:   residuals,
		Weights:     identitySym(1),
	}

	result, err := Run(context.Background(), problem, []float64{0}, 10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.FinalCost, test.ShouldAlmostEqual, 0.0, 1e-9)
}

func identitySym(n int) *mat.SymDense {
	w := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		w.SetSym(i, i, 1)
	}
	return w
}
