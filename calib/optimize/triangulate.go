package optimize

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// BootstrapVisualLandmarks initialises each visual landmark via two-view triangulation
// between its first two observing keyframes, accepting only landmarks whose parallax
// exceeds minParallaxRadians, per §4.4.1's visual variant. Unlike the teacher's
// EstimateNewPose (which recovers an unknown relative pose from the essential matrix),
// the relative pose here is already known from odometry + extrinsic, so decomposition
// reduces to a direct linear triangulation call.
func BootstrapVisualLandmarks(d *calib.Dataset, intrinsics *transform.PinholeCameraIntrinsics, minParallaxRadians float64) {
	firstTwoByLandmark := make(map[calib.LandmarkID][]calib.UVEdge)
	for _, e := range d.UVEdges() {
		firstTwoByLandmark[e.LM] = append(firstTwoByLandmark[e.LM], e)
	}

	for lmID, edges := range firstTwoByLandmark {
		if len(edges) < 2 {
			continue
		}
		e1, e2 := edges[0], edges[1]
		kf1, ok1 := d.Keyframe(e1.KF)
		kf2, ok2 := d.Keyframe(e2.KF)
		if !ok1 || !ok2 {
			continue
		}

		worldPos, parallax, ok := triangulatePair(kf1.CameraPose, kf2.CameraPose, e1.Pixel, e2.Pixel, intrinsics)
		if !ok || parallax < minParallaxRadians {
			continue
		}

		if lm, ok := d.Landmark(lmID); ok {
			lm.Position = worldPos
		}
	}
}

func triangulatePair(cam1, cam2 spatialmath.SE3, px1, px2 r2.Point, intrinsics *transform.PinholeCameraIntrinsics) (r3.Vector, float64, bool) {
	relative := cam2.Inverse().Compose(cam1) // camera1-frame points -> camera2 frame

	pose := poseMatrix(relative)

	x1, y1, _ := intrinsics.PixelToPoint(px1.X, px1.Y, 1)
	x2, y2, _ := intrinsics.PixelToPoint(px2.X, px2.Y, 1)
	p1 := r3.Vector{X: x1, Y: y1, Z: 1}
	p2 := r3.Vector{X: x2, Y: y2, Z: 1}

	pts, err := transform.GetLinearTriangulatedPoints(pose, []r3.Vector{p1}, []r3.Vector{p2})
	if err != nil || len(pts) == 0 {
		return r3.Vector{}, 0, false
	}
	pointInCam1 := pts[0]
	worldPos := cam1.Transform(pointInCam1)

	center1 := cam1.Translation
	center2 := cam2.Translation
	toPoint1 := worldPos.Sub(center1)
	toPoint2 := worldPos.Sub(center2)
	cosAngle := toPoint1.Dot(toPoint2) / (toPoint1.Norm() * toPoint2.Norm())
	parallax := math.Acos(clamp(cosAngle, -1, 1))

	return worldPos, parallax, true
}

// poseMatrix builds the 3x4 [R|t] matrix transform.GetLinearTriangulatedPoints expects
// for the second camera, with the first camera implicitly at identity.
func poseMatrix(pose spatialmath.SE3) *mat.Dense {
	r := pose.RotationMatrix()
	m := mat.NewDense(3, 4, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.Set(row, col, r[col*3+row])
		}
	}
	m.Set(0, 3, pose.Translation.X)
	m.Set(1, 3, pose.Translation.Y)
	m.Set(2, 3, pose.Translation.Z)
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
