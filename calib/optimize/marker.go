package optimize

import (
	"context"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/logging"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// markerMaxIterations is the default LM iteration cap for the marker variant (§4.4).
const markerMaxIterations = 100

// MarkerConfig configures a MarkerOptimizer.
type MarkerConfig struct {
	// InitialExtrinsic seeds the optimizer, normally the closed-form initializer's result.
	InitialExtrinsic spatialmath.SE3
	MaxIterations    int
	// Logger receives per-edge numeric-failure warnings from the optimizer (§7). A nil
	// Logger falls back to a blank logger.
	Logger logging.Logger
}

// DefaultMarkerConfig returns the §4.4 marker-variant defaults.
func DefaultMarkerConfig(initial spatialmath.SE3) MarkerConfig {
	return MarkerConfig{InitialExtrinsic: initial, MaxIterations: markerMaxIterations, Logger: logging.NewBlankLogger("optimize.marker")}
}

// MarkerOptimizer jointly refines the extrinsic, every keyframe pose, and every landmark
// position over the marker-projection factor graph (§4.4, marker variant).
type MarkerOptimizer struct {
	Config MarkerConfig
}

var _ calib.Solver = MarkerOptimizer{}

// Calibrate bootstraps landmark positions from o.Config.InitialExtrinsic, builds the
// combined odometry + marker-projection graph, and runs LM to convergence.
func (o MarkerOptimizer) Calibrate(ctx context.Context, d *calib.Dataset) (spatialmath.SE3, error) {
	if err := ctx.Err(); err != nil {
		return spatialmath.SE3{}, err
	}

	RefreshKeyframePoses(d, o.Config.InitialExtrinsic)
	BootstrapMarkerLandmarks(d)

	backend := NewDenseLMBackend(nil, o.Config.Logger)
	backend.AddVertexSE3(o.Config.InitialExtrinsic)
	for _, id := range d.OrderedKeyframeIDs() {
		kf, _ := d.Keyframe(id)
		backend.AddVertexSE2(id, kf.BasePose)
	}
	for _, id := range d.OrderedLandmarkIDs() {
		lm, _ := d.Landmark(id)
		backend.AddVertexPoint3(id, lm.Position)
	}
	for _, e := range d.OdometryEdges() {
		backend.AddEdgeSE2(e.Head, e.Tail, e.Measurement, denseToArray3(e.Information))
	}
	for _, e := range d.MarkEdges() {
		backend.AddEdgeProject3(e.KF, e.LM, e.Measurement, denseToArray3(e.Information))
	}

	maxIter := o.Config.MaxIterations
	if maxIter <= 0 {
		maxIter = markerMaxIterations
	}
	if err := backend.Optimize(ctx, maxIter); err != nil {
		return spatialmath.SE3{}, err
	}

	for _, id := range d.OrderedKeyframeIDs() {
		pose, _ := backend.ReadKeyframePose(id)
		kf, _ := d.Keyframe(id)
		kf.BasePose = pose
	}
	for _, id := range d.OrderedLandmarkIDs() {
		pos, _ := backend.ReadLandmarkPosition(id)
		lm, _ := d.Landmark(id)
		lm.Position = pos
	}

	extrinsic := backend.ReadExtrinsic()
	RefreshKeyframePoses(d, extrinsic)
	return extrinsic, nil
}
