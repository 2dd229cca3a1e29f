package optimize

import "gonum.org/v1/gonum/mat"

// setInfoBlock copies a square information matrix into a block-diagonal SymDense at the
// given row/column offset, one edge's contribution to the overall weight matrix.
func setInfoBlock(w *mat.SymDense, offset int, info *mat.Dense) {
	n, _ := info.Dims()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			w.SetSym(offset+i, offset+j, info.At(i, j))
		}
	}
}

// zeroInfoBlock clears a previously-set diagonal block, used when an edge is deactivated
// partway through a run so its weight no longer contributes to the cost (§7).
func zeroInfoBlock(w *mat.SymDense, offset, n int) {
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			w.SetSym(offset+i, offset+j, 0)
		}
	}
}

func setVec3(v *mat.VecDense, offset int, x, y, z float64) {
	v.SetVec(offset, x)
	v.SetVec(offset+1, y)
	v.SetVec(offset+2, z)
}

func setVec2(v *mat.VecDense, offset int, x, y float64) {
	v.SetVec(offset, x)
	v.SetVec(offset+1, y)
}
