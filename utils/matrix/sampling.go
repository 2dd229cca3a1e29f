package matrix

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// SampleNIntegersUniform samples n integers uniformly in [vMin, vMax], with replacement.
func SampleNIntegersUniform(n int, vMin, vMax float64) []int {
	z := make([]int, n)
	dist := distuv.Uniform{
		Min: vMin,
		Max: vMax,
	}
	for i := range z {
		val := math.Round(dist.Rand())
		for val < vMin || val > vMax {
			val = math.Round(dist.Rand())
		}
		z[i] = int(val)
	}

	return z
}

// SampleDistinctIndices samples k distinct indices from [0, n) uniformly without replacement,
// using the same rejection-sampling pattern as SampleNIntegersUniform. Used to draw RANSAC
// minimal-sample subsets from a match list.
func SampleDistinctIndices(k, n int) []int {
	if k > n {
		k = n
	}
	dist := distuv.Uniform{Min: 0, Max: float64(n)}
	seen := make(map[int]bool, k)
	out := make([]int, 0, k)
	for len(out) < k {
		idx := int(math.Floor(dist.Rand()))
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}
