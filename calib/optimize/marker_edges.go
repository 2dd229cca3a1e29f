package optimize

import (
	"github.com/golang/geo/r3"

	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// odometryResidual implements error = SE2::inc(V_tail - V_head) ⊟ measurement (§4.4).
func odometryResidual(head, tail, measurement spatialmath.SE2) spatialmath.SE2 {
	predicted := spatialmath.Inc(head, tail)
	return spatialmath.Inc(measurement, predicted)
}

// markerResidual implements error = (composed_world_to_camera_transform . V_LM) -
// measurement, with camera_world = lift(V_KF) ⊕ V_X; predict = camera_world⁻¹ . V_LM.
func markerResidual(kfPose spatialmath.SE2, extrinsic spatialmath.SE3, lmPos, measurement r3.Vector) r3.Vector {
	cameraWorld := spatialmath.LiftSE2(kfPose).Compose(extrinsic)
	predicted := cameraWorld.Inverse().Transform(lmPos)
	return predicted.Sub(measurement)
}
