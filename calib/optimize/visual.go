package optimize

import (
	"context"
	"math"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/calib/visualfilter"
	"github.com/fenwick-robotics/handeye-calib/logging"
	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// defaultVisualMatchSigmaPx is the per-axis pixel-noise sigma assigned to UVEdges that
// CreateLandmarksFromMatches builds from filtered raw matches.
const defaultVisualMatchSigmaPx = 1.0

// visualMaxIterations is the default LM iteration cap for the visual variant (§4.4):
// lower than the marker variant's because the visual graph's linearization around a
// triangulated bootstrap is typically already close to the optimum.
const visualMaxIterations = 15

// defaultMinParallaxRadians rejects triangulated landmarks whose two observing views are
// nearly collinear with the point, per §4.4.1's visual bootstrap.
const defaultMinParallaxRadians = 1.0 * math.Pi / 180

// VisualConfig configures a VisualOptimizer.
type VisualConfig struct {
	InitialExtrinsic   spatialmath.SE3
	Intrinsics         *transform.PinholeCameraIntrinsics
	MaxIterations      int
	MinParallaxRadians float64
	// Logger receives per-edge numeric-failure warnings from the optimizer (§7). A nil
	// Logger falls back to a blank logger.
	Logger logging.Logger

	// RawMatches are unmatched pairwise pixel correspondences awaiting the match -> filter
	// -> triangulate -> create-landmark pipeline (§4.5). Empty for datasets whose UVEdges
	// already carry landmark ids loaded straight from the dataset JSON.
	RawMatches []RawMatch
	// FilterConfig tunes the distance gate and fundamental-matrix RANSAC RawMatches runs
	// through before becoming new landmarks.
	FilterConfig visualfilter.Config
	// MatchSigmaPx is the per-axis pixel-noise sigma assigned to UVEdges created from
	// RawMatches.
	MatchSigmaPx float64

	// Distortion, when set, is applied to every UVEdge and RawMatch pixel before they
	// reach the filter, triangulation, or residual computation, so "undistorted
	// correspondences" (§4.4.1, §4.5) reflects an actual correction rather than an
	// assumption about the input data. Nil means the caller's pixels are already
	// undistorted.
	Distortion transform.Distorter
}

// DefaultVisualConfig returns the §4.4 visual-variant defaults for the given intrinsics.
func DefaultVisualConfig(initial spatialmath.SE3, intrinsics *transform.PinholeCameraIntrinsics) VisualConfig {
	return VisualConfig{
		InitialExtrinsic:   initial,
		Intrinsics:         intrinsics,
		MaxIterations:      visualMaxIterations,
		MinParallaxRadians: defaultMinParallaxRadians,
		Logger:             logging.NewBlankLogger("optimize.visual"),
		FilterConfig:       visualfilter.DefaultConfig(),
		MatchSigmaPx:       defaultVisualMatchSigmaPx,
	}
}

// VisualOptimizer jointly refines the extrinsic, every keyframe pose, and every landmark
// position over the visual-SLAM reprojection factor graph (§4.4, visual/ORB variant).
type VisualOptimizer struct {
	Config VisualConfig
}

var _ calib.Solver = VisualOptimizer{}

// Calibrate triangulates landmark positions from o.Config.InitialExtrinsic, builds the
// combined odometry + visual-reprojection graph, and runs LM to convergence.
func (o VisualOptimizer) Calibrate(ctx context.Context, d *calib.Dataset) (spatialmath.SE3, error) {
	if err := ctx.Err(); err != nil {
		return spatialmath.SE3{}, err
	}

	logger := o.Config.Logger
	if logger == nil {
		logger = logging.NewBlankLogger("optimize.visual")
	}

	var distortionModel *transform.PinholeCameraModel
	if o.Config.Distortion != nil {
		distortionModel = &transform.PinholeCameraModel{
			PinholeCameraIntrinsics: o.Config.Intrinsics,
			Distortion:              o.Config.Distortion,
		}
	}

	RefreshKeyframePoses(d, o.Config.InitialExtrinsic)
	UndistortUVEdges(d, distortionModel)

	if len(o.Config.RawMatches) > 0 {
		sigmaPx := o.Config.MatchSigmaPx
		if sigmaPx <= 0 {
			sigmaPx = defaultVisualMatchSigmaPx
		}
		matches := undistortRawMatches(o.Config.RawMatches, distortionModel)
		created, err := CreateLandmarksFromMatches(ctx, d, matches, o.Config.Intrinsics,
			o.Config.FilterConfig, o.Config.MinParallaxRadians, sigmaPx)
		if err != nil {
			return spatialmath.SE3{}, err
		}
		logger.Infow("created landmarks from filtered visual matches", "count", created)
	}

	BootstrapVisualLandmarks(d, o.Config.Intrinsics, o.Config.MinParallaxRadians)

	backend := NewDenseLMBackend(o.Config.Intrinsics, logger)
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
	for _, e := range d.UVEdges() {
		backend.AddEdgeProject2(e.KF, e.LM, e.Pixel, denseToArray2(e.Information))
	}

	maxIter := o.Config.MaxIterations
	if maxIter <= 0 {
		maxIter = visualMaxIterations
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
