package initializer

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/calib"
)

// groundPlaneMinNormal is the floor on ||v[0:3]|| below which a candidate right-singular
// vector is a pure landmark-offset combination, not a usable plane-normal candidate.
const groundPlaneMinNormal = 1e-9

// EstimateGroundPlane solves the ground-plane normal n_cg (in the camera frame) from every
// MarkEdge in the dataset, per §4.3.1: build A·v = 0 with columns (x, y, z, -d1, ..., -dM)
// and pick the right-singular vector minimizing sigma_i / ||v_i[0:3]||.
func EstimateGroundPlane(edges []*calib.MarkEdge) (r3.Vector, error) {
	if len(edges) == 0 {
		return r3.Vector{}, calib.ErrDegenerateGeometry
	}

	landmarkCol := make(map[calib.LandmarkID]int)
	for _, e := range edges {
		if _, ok := landmarkCol[e.LM]; !ok {
			landmarkCol[e.LM] = len(landmarkCol)
		}
	}

	cols := 3 + len(landmarkCol)
	rows := len(edges)
	if rows < cols {
		return r3.Vector{}, calib.ErrDegenerateGeometry
	}

	A := mat.NewDense(rows, cols, nil)
	for i, e := range edges {
		A.Set(i, 0, e.Measurement.X)
		A.Set(i, 1, e.Measurement.Y)
		A.Set(i, 2, e.Measurement.Z)
		A.Set(i, 3+landmarkCol[e.LM], 1)
	}

	// The position columns must have full rank, or the observations carry no plane signal.
	const positionRankCond = 1e-9
	var posSVD mat.SVD
	if !posSVD.Factorize(A.Slice(0, rows, 0, 3), mat.SVDThin) {
		return r3.Vector{}, calib.ErrNumericFailure
	}
	if posSVD.Rank(positionRankCond) < 3 {
		return r3.Vector{}, calib.ErrDegenerateGeometry
	}

	var svd mat.SVD
	if !svd.Factorize(A, mat.SVDFull) {
		return r3.Vector{}, calib.ErrNumericFailure
	}
	values := svd.Values(nil)
	var V mat.Dense
	svd.VTo(&V)

	bestScore := -1.0
	best := r3.Vector{}
	found := false
	for i, sigma := range values {
		col := V.ColView(i)
		n := r3.Vector{X: col.AtVec(0), Y: col.AtVec(1), Z: col.AtVec(2)}
		norm := n.Norm()
		if norm < groundPlaneMinNormal {
			continue
		}
		score := sigma / norm
		if !found || score < bestScore {
			bestScore = score
			best = n.Mul(1 / norm)
			found = true
		}
	}
	if !found {
		return r3.Vector{}, calib.ErrDegenerateGeometry
	}
	return best, nil
}

