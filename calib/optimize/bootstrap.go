package optimize

import (
	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// RefreshKeyframePoses sets every keyframe's camera_pose := lift(base_pose) ⊕ extrinsic,
// per §4.4.2. Idempotent given fixed inputs.
func RefreshKeyframePoses(d *calib.Dataset, extrinsic spatialmath.SE3) {
	for _, id := range d.OrderedKeyframeIDs() {
		kf, _ := d.Keyframe(id)
		kf.CameraPose = spatialmath.LiftSE2(kf.BasePose).Compose(extrinsic)
	}
}

// BootstrapMarkerLandmarks initialises each landmark's position from its first observing
// keyframe (in ascending keyframe-id order) as
// camera_pose_of_first_observing_KF ⊕ observed_camera_frame_vector, per §4.4.1's marker
// variant. RefreshKeyframePoses must be called first so camera poses are current.
func BootstrapMarkerLandmarks(d *calib.Dataset) {
	seen := make(map[calib.LandmarkID]bool)
	for _, kfID := range d.OrderedKeyframeIDs() {
		kf, _ := d.Keyframe(kfID)
		for _, lmID := range d.LandmarksByKeyframe(kfID) {
			if seen[lmID] {
				continue
			}
			edge, ok := d.MarkEdgeFor(kfID, lmID)
			if !ok {
				continue
			}
			lm, ok := d.Landmark(lmID)
			if !ok {
				continue
			}
			lm.Position = kf.CameraPose.Transform(edge.Measurement)
			seen[lmID] = true
		}
	}
}
