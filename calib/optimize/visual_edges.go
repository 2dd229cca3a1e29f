package optimize

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// visualResidual reprojects lmPos through the fixed camera intrinsics at the composed
// camera pose and compares against the observed pixel, per §4.4's visual-SLAM edge.
func visualResidual(kfPose spatialmath.SE2, extrinsic spatialmath.SE3, lmPos r3.Vector, pixel r2.Point, intrinsics *transform.PinholeCameraIntrinsics) (du, dv float64) {
	cameraWorld := spatialmath.LiftSE2(kfPose).Compose(extrinsic)
	predicted := cameraWorld.Inverse().Transform(lmPos)
	u, v := intrinsics.Project3D(predicted)
	return u - pixel.X, v - pixel.Y
}
