// Package visualfilter implements the two-stage outlier rejection the visual variant runs
// on pairwise keypoint matches before they become UVEdges (§4.5): a pixel-distance gate,
// then fundamental-matrix RANSAC.
package visualfilter

import (
	"context"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
	"github.com/fenwick-robotics/handeye-calib/utils"
	"github.com/fenwick-robotics/handeye-calib/utils/matrix"
)

// Match is a correspondence between an undistorted pixel in one keyframe's image and the
// same landmark's undistorted pixel in another keyframe's image.
type Match struct {
	A, B r2.Point
}

// Config holds the visual filter's tunable thresholds, per §6.
type Config struct {
	DistanceGatePx   float64
	RansacPixelGate  float64
	RansacConfidence float64
	MinMatches       int
}

// DefaultConfig returns the §4.5 defaults.
func DefaultConfig() Config {
	return Config{
		DistanceGatePx:   100,
		RansacPixelGate:  3.0,
		RansacConfidence: 0.99,
		MinMatches:       10,
	}
}

const fundamentalSampleSize = 8

// Filter runs the distance gate followed by fundamental-matrix RANSAC, returning the
// surviving inlier matches. Both stages require at least cfg.MinMatches inputs; an input
// of fewer is returned as an empty slice, not an error, matching §4.5's "otherwise the
// output is empty."
func Filter(ctx context.Context, matches []Match, cfg Config) ([]Match, error) {
	if len(matches) < cfg.MinMatches {
		return nil, nil
	}

	gated := distanceGate(matches, cfg.DistanceGatePx)
	if len(gated) < cfg.MinMatches {
		return nil, nil
	}

	return fundamentalRANSAC(ctx, gated, cfg)
}

// distanceGate drops matches whose undistorted pixel displacement exceeds maxPx, reusing
// utils.EuclideanDistance as the teacher's distance routine.
func distanceGate(matches []Match, maxPx float64) []Match {
	var kept []Match
	for _, m := range matches {
		d, err := utils.EuclideanDistance([]float64{m.A.X, m.A.Y}, []float64{m.B.X, m.B.Y})
		if err != nil {
			continue
		}
		if d <= maxPx {
			kept = append(kept, m)
		}
	}
	return kept
}

// fundamentalRANSAC draws random 8-point minimal samples, fits a fundamental matrix to
// each via ComputeFundamentalMatrixAllPoints, and keeps the sample's inlier set with the
// most members under the pixel reprojection gate. The iteration count follows the
// standard adaptive RANSAC bound for an 8-point model at cfg.RansacConfidence, assuming a
// conservative 50% starting inlier-ratio guess (refined as larger inlier sets are found).
func fundamentalRANSAC(ctx context.Context, matches []Match, cfg Config) ([]Match, error) {
	n := len(matches)
	if n < fundamentalSampleSize {
		return nil, nil
	}

	pts1 := make([]r2.Point, n)
	pts2 := make([]r2.Point, n)
	for i, m := range matches {
		pts1[i] = m.A
		pts2[i] = m.B
	}

	bestInliers := []int(nil)
	inlierRatio := 0.5
	trial := 0
	maxTrials := ransacTrialBound(inlierRatio, cfg.RansacConfidence)

	for trial < maxTrials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trial++
		idx := matrix.SampleDistinctIndices(fundamentalSampleSize, n)
		sample1 := make([]r2.Point, len(idx))
		sample2 := make([]r2.Point, len(idx))
		for i, j := range idx {
			sample1[i] = pts1[j]
			sample2[i] = pts2[j]
		}

		f, err := transform.ComputeFundamentalMatrixAllPoints(sample1, sample2, true)
		if err != nil {
			continue
		}

		inliers := fundamentalInliers(f, pts1, pts2, cfg.RansacPixelGate)
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
			ratio := float64(len(inliers)) / float64(n)
			if ratio > inlierRatio {
				inlierRatio = ratio
				maxTrials = ransacTrialBound(inlierRatio, cfg.RansacConfidence)
			}
		}
	}

	out := make([]Match, len(bestInliers))
	for i, idx := range bestInliers {
		out[i] = matches[idx]
	}
	return out, nil
}

// fundamentalInliers returns the indices of (pts1, pts2) pairs whose Sampson-style
// point-line distance x2ᵗ·F·x1 is within gatePx, approximated here by the unnormalized
// algebraic residual scaled by the epipolar line's gradient norm.
func fundamentalInliers(f *mat.Dense, pts1, pts2 []r2.Point, gatePx float64) []int {
	var inliers []int
	for i := range pts1 {
		x1 := []float64{pts1[i].X, pts1[i].Y, 1}
		x2 := []float64{pts2[i].X, pts2[i].Y, 1}

		line := matVec3(f, x1)
		num := line[0]*x2[0] + line[1]*x2[1] + line[2]*x2[2]
		denom := hypot2(line[0], line[1])
		if denom == 0 {
			continue
		}
		dist := math.Abs(num) / denom
		if dist <= gatePx {
			inliers = append(inliers, i)
		}
	}
	return inliers
}

func matVec3(m *mat.Dense, v []float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m.At(i, 0)*v[0] + m.At(i, 1)*v[1] + m.At(i, 2)*v[2]
	}
	return out
}

func hypot2(a, b float64) float64 {
	return math.Hypot(a, b)
}

// ransacTrialBound implements the standard adaptive-RANSAC trial count:
// N = log(1-confidence) / log(1-inlierRatio^sampleSize).
func ransacTrialBound(inlierRatio, confidence float64) int {
	denom := math.Log(1 - math.Pow(inlierRatio, fundamentalSampleSize))
	if denom >= 0 {
		return 1000
	}
	n := math.Log(1-confidence) / denom
	if n < 1 {
		return 1
	}
	if n > 5000 {
		return 5000
	}
	return int(n) + 1
}
