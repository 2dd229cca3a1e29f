package initializer

import (
	"math"

	"github.com/fenwick-robotics/handeye-calib/calib"
)

// DefaultSmallRotationRatioThreshold is the |theta|/dist ratio, in radians per meter of
// translation, below which an odometry increment is classified small-rotation and used
// for yaw extraction; at or above it, the increment is large-rotation and used for XY
// translation extraction (§4.3.3). Configurable via Config.SmallRotationRatioThreshold.
const DefaultSmallRotationRatioThreshold = 1.0 / 5000

// HyperEdge couples one odometry increment with the two marker observations of a landmark
// co-visible from both of its endpoint keyframes.
type HyperEdge struct {
	Odo      calib.OdoEdge
	Head     calib.MarkEdge
	Tail     calib.MarkEdge
	Landmark calib.LandmarkID
}

// BuildHyperEdges emits one hyper-edge per (OdoEdge, co-visible landmark) pair (§4.3.3).
func BuildHyperEdges(d *calib.Dataset) []HyperEdge {
	var edges []HyperEdge
	for _, odo := range d.OdometryEdges() {
		for _, lm := range d.CoVisibleLandmarks(odo.Head, odo.Tail) {
			head, ok1 := d.MarkEdgeFor(odo.Head, lm)
			tail, ok2 := d.MarkEdgeFor(odo.Tail, lm)
			if !ok1 || !ok2 {
				continue
			}
			edges = append(edges, HyperEdge{Odo: odo, Head: *head, Tail: *tail, Landmark: lm})
		}
	}
	return edges
}

// Classify partitions hyper-edges into small-rotation (yaw extraction) and large-rotation
// (XY translation extraction) sets by |ratio| = |theta|/dist, against threshold (§4.3.3).
func Classify(edges []HyperEdge, threshold float64) (small, large []HyperEdge) {
	for _, e := range edges {
		if math.Abs(e.Odo.Measurement.Ratio()) < threshold {
			small = append(small, e)
		} else {
			large = append(large, e)
		}
	}
	return small, large
}
