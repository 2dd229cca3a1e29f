package utils

import (
	"math"
	"sort"
)

// Square is faster than math.Pow(n, 2).
func Square(n float64) float64 {
	return n * n
}

// SquareInt is faster than math.Pow(n, 2) for integers.
func SquareInt(n int) int {
	return n * n
}

func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}

func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Median returns the median of the given values, sorting a copy in place.
func Median(values ...float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}
