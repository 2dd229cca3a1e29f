package optimize

import (
	"context"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/calib/visualfilter"
	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
)

// RawMatch is one pairwise pixel correspondence between two keyframes' observed features,
// not yet associated with any landmark id -- the raw input visualfilter.Filter screens
// before new landmarks are created from the survivors, the Go analogue of the original
// solver's match-then-triangulate map point creation (§4.5).
type RawMatch struct {
	KF1, KF2       calib.KeyframeID
	Pixel1, Pixel2 r2.Point
}

// CreateLandmarksFromMatches groups raw matches by observing keyframe pair (a fundamental
// matrix is only meaningful for a single pair of views), runs each pair's matches through
// visualfilter.Filter, and triangulates + creates a brand new landmark, plus its two
// UVEdges, for every surviving match whose parallax clears minParallaxRadians. It returns
// the number of landmarks created.
func CreateLandmarksFromMatches(
	ctx context.Context,
	d *calib.Dataset,
	matches []RawMatch,
	intrinsics *transform.PinholeCameraIntrinsics,
	cfg visualfilter.Config,
	minParallaxRadians, sigmaPx float64,
) (int, error) {
	type pairKey struct {
		kf1, kf2 calib.KeyframeID
	}
	byPair := make(map[pairKey][]RawMatch)
	var order []pairKey
	for _, m := range matches {
		key := pairKey{m.KF1, m.KF2}
		if _, ok := byPair[key]; !ok {
			order = append(order, key)
		}
		byPair[key] = append(byPair[key], m)
	}

	nextID := nextLandmarkID(d)
	created := 0

	for _, pair := range order {
		kf1, ok1 := d.Keyframe(pair.kf1)
		kf2, ok2 := d.Keyframe(pair.kf2)
		if !ok1 || !ok2 {
			continue
		}

		pairMatches := byPair[pair]
		vmatches := make([]visualfilter.Match, len(pairMatches))
		for i, m := range pairMatches {
			vmatches[i] = visualfilter.Match{A: m.Pixel1, B: m.Pixel2}
		}

		inliers, err := visualfilter.Filter(ctx, vmatches, cfg)
		if err != nil {
			return created, err
		}

		for _, inlier := range inliers {
			worldPos, parallax, ok := triangulatePair(kf1.CameraPose, kf2.CameraPose, inlier.A, inlier.B, intrinsics)
			if !ok || parallax < minParallaxRadians {
				continue
			}

			lmID := nextID
			nextID++
			d.AddLandmark(lmID, worldPos)
			info := visualMatchInformation(sigmaPx)
			if err := d.AddUVEdge(calib.UVEdge{KF: pair.kf1, LM: lmID, Pixel: inlier.A, Information: info}); err != nil {
				continue
			}
			if err := d.AddUVEdge(calib.UVEdge{KF: pair.kf2, LM: lmID, Pixel: inlier.B, Information: info}); err != nil {
				continue
			}
			created++
		}
	}

	return created, nil
}

// visualMatchInformation converts a pixel-noise sigma into the diagonal 2x2 information
// matrix a new UVEdge carries, the same sigma-to-information conversion datasetio.go
// applies to UVEdges loaded from disk.
func visualMatchInformation(sigmaPx float64) *mat.Dense {
	info := mat.NewDense(2, 2, nil)
	v := 1 / (sigmaPx * sigmaPx)
	info.Set(0, 0, v)
	info.Set(1, 1, v)
	return info
}

func nextLandmarkID(d *calib.Dataset) calib.LandmarkID {
	next := calib.LandmarkID(0)
	for _, id := range d.OrderedLandmarkIDs() {
		if id+1 > next {
			next = id + 1
		}
	}
	return next
}
