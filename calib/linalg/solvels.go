// Package linalg holds the weighted least-squares solve shared by the closed-form
// initializer's XY translation extraction (§4.3.5), grounded on mkhts-gortk/solvels.go's
// standalone weighted-LS routine but resolved via thin SVD rather than normal equations,
// per §4.1's invariant that "all matrix solves (SVD, least-squares) must be performed...
// to avoid rank deficiencies near planar degeneracies" and §4.3.5's explicit "solve
// x = argmin‖Ax−b‖ by thin SVD."
package linalg

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// svdMinSingularValue floors which singular values are treated as numerically zero;
// directions below it are dropped from the solve rather than amplified by 1/sigma, the
// same rank-deficiency guard groundplane.go applies to its own SVD.
const svdMinSingularValue = 1e-9

// SolveLS solves the weighted least squares problem min (Ax-b)ᵗW(Ax-b) by pre-whitening
// with W's Cholesky factor and running a thin SVD on the whitened system, returning the
// solution alongside its covariance (AᵗWA)⁻¹, computed by inverting the whitened normal
// matrix (an error is returned when that matrix is singular).
// Passing a nil W is equivalent to ordinary least squares.
func SolveLS(A mat.Matrix, b mat.Vector, w mat.Matrix) (dx mat.Vector, cov mat.Matrix, err error) {
	rows, cols := A.Dims()
	if w == nil {
		w = Identity(rows)
	}
	wRows, wCols := w.Dims()
	if wRows != rows || wCols != rows {
		return nil, nil, errors.Errorf("invalid matrix size: A(%d x %d), W(%d x %d)", rows, cols, wRows, wCols)
	}
	if b.Len() != rows {
		return nil, nil, errors.Errorf("invalid matrix size: A(%d x %d), b(%d x 1)", rows, cols, b.Len())
	}

	var chol mat.Cholesky
	if !chol.Factorize(asSym(w)) {
		return nil, nil, errors.New("weight matrix is not positive definite")
	}
	var l mat.TriDense
	chol.LTo(&l)

	var whitenedA mat.Dense
	whitenedA.Mul(l.T(), A)
	var whitenedB mat.VecDense
	whitenedB.MulVec(l.T(), b)

	x, err := solveThinSVD(&whitenedA, &whitenedB)
	if err != nil {
		return nil, nil, err
	}

	var c mat.Dense
	var ata mat.Dense
	ata.Mul(whitenedA.T(), &whitenedA)
	if err := c.Inverse(&ata); err != nil {
		return nil, nil, errors.Wrap(err, "inverting normal-equations covariance")
	}

	return x, &c, nil
}

// solveThinSVD solves min ||Ax-b|| via x = V . diag(1/sigma_i) . Uᵗ . b, dropping
// singular directions below svdMinSingularValue instead of amplifying noise through them.
func solveThinSVD(a *mat.Dense, b mat.Vector) (*mat.VecDense, error) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, errors.New("thin SVD factorization failed")
	}

	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	n := len(values)
	var utb mat.VecDense
	utb.MulVec(u.T(), b)

	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if values[i] < svdMinSingularValue {
			continue
		}
		y.SetVec(i, utb.AtVec(i)/values[i])
	}

	var x mat.VecDense
	x.MulVec(&v, y)
	return &x, nil
}

func asSym(m mat.Matrix) mat.Symmetric {
	if sym, ok := m.(mat.Symmetric); ok {
		return sym
	}
	rows, _ := m.Dims()
	sym := mat.NewSymDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := i; j < rows; j++ {
			sym.SetSym(i, j, m.At(i, j))
		}
	}
	return sym
}

// Identity returns an n x n identity matrix, for callers that want an unweighted SolveLS.
func Identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
