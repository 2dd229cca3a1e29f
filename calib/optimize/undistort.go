package optimize

import (
	"github.com/golang/geo/r2"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
)

// UndistortUVEdges rewrites every UVEdge's pixel through model's UndistortPixel, so the
// visual residual and landmark bootstrap that follow operate on undistorted
// correspondences (§4.4.1, §4.5). A nil model, or one with no distortion coefficients,
// leaves the edges untouched.
func UndistortUVEdges(d *calib.Dataset, model *transform.PinholeCameraModel) {
	if model == nil || model.Distortion == nil {
		return
	}
	edges := d.UVEdges()
	undistorted := make([]calib.UVEdge, len(edges))
	for i, e := range edges {
		ux, uy := model.UndistortPixel(e.Pixel.X, e.Pixel.Y)
		e.Pixel = r2.Point{X: ux, Y: uy}
		undistorted[i] = e
	}
	d.SetUVEdges(undistorted)
}

// undistortRawMatches returns matches with both pixels run through model's
// UndistortPixel, leaving the input slice untouched. A nil model, or one with no
// distortion coefficients, returns matches as-is.
func undistortRawMatches(matches []RawMatch, model *transform.PinholeCameraModel) []RawMatch {
	if model == nil || model.Distortion == nil {
		return matches
	}
	out := make([]RawMatch, len(matches))
	for i, m := range matches {
		ux1, uy1 := model.UndistortPixel(m.Pixel1.X, m.Pixel1.Y)
		ux2, uy2 := model.UndistortPixel(m.Pixel2.X, m.Pixel2.Y)
		out[i] = RawMatch{
			KF1: m.KF1, KF2: m.KF2,
			Pixel1: r2.Point{X: ux1, Y: uy1},
			Pixel2: r2.Point{X: ux2, Y: uy2},
		}
	}
	return out
}
