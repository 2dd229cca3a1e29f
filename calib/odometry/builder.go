// Package odometry builds SE(2) increment edges between consecutive keyframes, with a
// distance- and rotation-aware information matrix (§4.2).
package odometry

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// NoiseModel holds the odometry noise parameters from configuration (§6): linear error
// grows with distance travelled, rotational error grows with heading change and, per the
// corrected formula, with distance travelled as well (long straight-line runs still
// accumulate heading drift even at near-zero commanded rotation).
type NoiseModel struct {
	LinRatio    float64 // r_lin
	LinMin      float64 // sigma_min_lin
	RotRatio    float64 // r_rot
	RotRatioLin float64 // r_rot_lin
	RotMin      float64 // sigma_min_rot
}

// Build produces one OdoEdge for every adjacent pair of ordered keyframes and installs the
// result on the dataset via SetOdometryEdges, replacing whatever edge set existed before.
func Build(d *calib.Dataset, noise NoiseModel) {
	ids := d.OrderedKeyframeIDs()
	if len(ids) < 2 {
		d.SetOdometryEdges(nil)
		return
	}

	edges := make([]calib.OdoEdge, 0, len(ids)-1)
	for i := 0; i+1 < len(ids); i++ {
		head, _ := d.Keyframe(ids[i])
		tail, _ := d.Keyframe(ids[i+1])

		delta := spatialmath.Inc(head.MeasuredBasePose, tail.MeasuredBasePose)
		info := informationMatrix(delta, noise)

		edges = append(edges, calib.OdoEdge{
			Head:        head.ID,
			Tail:        tail.ID,
			Measurement: delta,
			Information: info,
		})
	}
	d.SetOdometryEdges(edges)
}

// informationMatrix implements diag(1/sigma_xy^2, 1/sigma_xy^2, 1/sigma_theta^2) per §4.2.
func informationMatrix(delta spatialmath.SE2, noise NoiseModel) *mat.Dense {
	dist := delta.Dist()

	sigmaXY := dist * noise.LinRatio
	if sigmaXY < noise.LinMin {
		sigmaXY = noise.LinMin
	}

	sigmaTheta := delta.ThetaAbs() * noise.RotRatio
	if v := dist * noise.RotRatioLin; v > sigmaTheta {
		sigmaTheta = v
	}
	if sigmaTheta < noise.RotMin {
		sigmaTheta = noise.RotMin
	}

	info := mat.NewDense(3, 3, nil)
	info.Set(0, 0, 1/(sigmaXY*sigmaXY))
	info.Set(1, 1, 1/(sigmaXY*sigmaXY))
	info.Set(2, 2, 1/(sigmaTheta*sigmaTheta))
	return info
}
