// Package optimize implements the joint graph optimizer (§4.4): a hand-rolled dense
// Levenberg-Marquardt solver over gonum/mat, plus the marker- and visual-variant edge
// constructions and landmark bootstrap that sit on top of it.
package optimize

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/calib"
)

// Problem is a weighted nonlinear least-squares problem: minimize rᵗWr where r = Residuals(x).
// Weights must be block-diagonal positive definite, matching the per-edge information
// matrices assembled by the caller (§4.4's "sparse in the sense that each edge touches
// only its incident vertices" — realized here as a dense sum of those per-edge blocks).
type Problem struct {
	Dim         int
	ResidualDim int
	Residuals   func(x []float64) *mat.VecDense
	Weights     *mat.SymDense
}

// LMResult carries the solved parameter vector and basic convergence diagnostics.
type LMResult struct {
	X         []float64
	Iterations int
	FinalCost float64
	Converged bool
}

// lmInitialLambda and lmCostTolerance follow the standard Levenberg-Marquardt damping
// schedule: start conservative, shrink on a successful step, grow on a rejected one.
const (
	lmInitialLambda = 1e-3
	lmCostTolerance = 1e-10
	lmStepTolerance = 1e-12
)

// Run executes Levenberg-Marquardt on problem starting from x0, for at most maxIter
// iterations, reusing the normal-equations solve pattern grounded on
// mkhts-gortk/solvels.go: (JᵗWJ + λI)·δ = -JᵗWr, with a numerical Jacobian since no
// autodiff dependency exists anywhere in the reference pack.
func Run(ctx context.Context, problem Problem, x0 []float64, maxIter int) (LMResult, error) {
	x := append([]float64(nil), x0...)
	lambda := lmInitialLambda

	r := problem.Residuals(x)
	cost := weightedCost(r, problem.Weights)

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return LMResult{X: x, Iterations: iter, FinalCost: cost}, err
		}

		j := numericalJacobian(problem.Residuals, x, problem.ResidualDim)

		var wj mat.Dense
		wj.Mul(problem.Weights, j)
		var jtwj mat.Dense
		jtwj.Mul(j.T(), &wj)
		for i := 0; i < problem.Dim; i++ {
			jtwj.Set(i, i, jtwj.At(i, i)+lambda)
		}

		var jtw mat.Dense
		jtw.Mul(j.T(), problem.Weights)
		var jtwr mat.VecDense
		jtwr.MulVec(&jtw, r)

		var rhs mat.VecDense
		rhs.ScaleVec(-1, &jtwr)

		var delta mat.VecDense
		if err := delta.SolveVec(&jtwj, &rhs); err != nil {
			lambda *= 10
			continue
		}

		trial := make([]float64, problem.Dim)
		for i := range trial {
			trial[i] = x[i] + delta.AtVec(i)
		}
		trialR := problem.Residuals(trial)
		trialCost := weightedCost(trialR, problem.Weights)

		if trialCost < cost {
			x = trial
			r = trialR
			improved := cost - trialCost
			cost = trialCost
			lambda = math.Max(lambda/10, 1e-12)
			if improved < lmCostTolerance || mat.Norm(&delta, 2) < lmStepTolerance {
				return LMResult{X: x, Iterations: iter + 1, FinalCost: cost, Converged: true}, nil
			}
		} else {
			lambda *= 10
			if lambda > 1e12 {
				return LMResult{}, errors.Wrap(calib.ErrNumericFailure, "levenberg-marquardt diverged: damping exceeded bound")
			}
		}
	}

	return LMResult{X: x, Iterations: maxIter, FinalCost: cost, Converged: false}, nil
}

func weightedCost(r *mat.VecDense, w *mat.SymDense) float64 {
	var wr mat.VecDense
	wr.MulVec(w, r)
	return mat.Dot(r, &wr)
}

// numericalJacobian computes a central-difference Jacobian of residuals at x.
func numericalJacobian(residuals func([]float64) *mat.VecDense, x []float64, residualDim int) *mat.Dense {
	const eps = 1e-6
	n := len(x)
	j := mat.NewDense(residualDim, n, nil)
	perturbed := append([]float64(nil), x...)
	for col := 0; col < n; col++ {
		orig := perturbed[col]

		perturbed[col] = orig + eps
		rPlus := residuals(perturbed)

		perturbed[col] = orig - eps
		rMinus := residuals(perturbed)

		perturbed[col] = orig

		for row := 0; row < residualDim; row++ {
			j.Set(row, col, (rPlus.AtVec(row)-rMinus.AtVec(row))/(2*eps))
		}
	}
	return j
}
