package optimize

import (
	"context"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/logging"
	"github.com/fenwick-robotics/handeye-calib/rimage/transform"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// Backend isolates the nonlinear-least-squares library choice from the marker/visual
// optimizer variants (§9's "optimizer backend boundary"), so a future swap to a real
// sparse solver only touches this interface's implementation.
type Backend interface {
	AddVertexSE3(extrinsic spatialmath.SE3)
	AddVertexSE2(id calib.KeyframeID, pose spatialmath.SE2)
	AddVertexPoint3(id calib.LandmarkID, position r3.Vector)

	AddEdgeSE2(head, tail calib.KeyframeID, measurement spatialmath.SE2, information [3][3]float64)
	AddEdgeProject3(kf calib.KeyframeID, lm calib.LandmarkID, measurement r3.Vector, information [3][3]float64)
	AddEdgeProject2(kf calib.KeyframeID, lm calib.LandmarkID, measurement r2.Point, information [2][2]float64)

	Optimize(ctx context.Context, maxIter int) error

	ReadExtrinsic() spatialmath.SE3
	ReadKeyframePose(id calib.KeyframeID) (spatialmath.SE2, bool)
	ReadLandmarkPosition(id calib.LandmarkID) (r3.Vector, bool)
}

// denseLMBackend implements Backend on top of the dense gonum/mat Levenberg-Marquardt
// solver in lm.go, collecting vertices and edges
// into a private Dataset so it can reuse VertexLayout and the marker/visual residual
// functions without duplicating their bookkeeping.
type denseLMBackend struct {
	extrinsic  spatialmath.SE3
	d          *calib.Dataset
	intrinsics *transform.PinholeCameraIntrinsics
	logger     logging.Logger

	layout *VertexLayout
}

// NewDenseLMBackend returns a Backend ready to accept vertices and edges. intrinsics may
// be nil for graphs that add no 2D reprojection edges (the marker variant never calls
// AddEdgeProject2). A nil logger falls back to a blank logger, since the per-edge numeric
// failure handling in buildCombinedProblem always has somewhere to log to.
func NewDenseLMBackend(intrinsics *transform.PinholeCameraIntrinsics, logger logging.Logger) Backend {
	if logger == nil {
		logger = logging.NewBlankLogger("optimize")
	}
	return &denseLMBackend{
		extrinsic:  spatialmath.IdentitySE3(),
		d:          calib.NewDataset(),
		intrinsics: intrinsics,
		logger:     logger,
	}
}

func (b *denseLMBackend) AddVertexSE3(extrinsic spatialmath.SE3) {
	b.extrinsic = extrinsic
}

func (b *denseLMBackend) AddVertexSE2(id calib.KeyframeID, pose spatialmath.SE2) {
	if kf, ok := b.d.Keyframe(id); ok {
		kf.BasePose = pose
		return
	}
	b.d.AddKeyframe(id, pose)
}

func (b *denseLMBackend) AddVertexPoint3(id calib.LandmarkID, position r3.Vector) {
	if lm, ok := b.d.Landmark(id); ok {
		lm.Position = position
		return
	}
	b.d.AddLandmark(id, position)
}

func (b *denseLMBackend) AddEdgeSE2(head, tail calib.KeyframeID, measurement spatialmath.SE2, information [3][3]float64) {
	edges := append(b.d.OdometryEdges(), calib.OdoEdge{
		Head:        head,
		Tail:        tail,
		Measurement: measurement,
		Information: array3ToDense(information),
	})
	b.d.SetOdometryEdges(edges)
}

func (b *denseLMBackend) AddEdgeProject3(kf calib.KeyframeID, lm calib.LandmarkID, measurement r3.Vector, information [3][3]float64) {
	_ = b.d.AddMarkEdge(calib.MarkEdge{
		KF:          kf,
		LM:          lm,
		Measurement: measurement,
		Information: array3ToDense(information),
	})
}

func (b *denseLMBackend) AddEdgeProject2(kf calib.KeyframeID, lm calib.LandmarkID, measurement r2.Point, information [2][2]float64) {
	_ = b.d.AddUVEdge(calib.UVEdge{
		KF:          kf,
		LM:          lm,
		Pixel:       measurement,
		Information: array2ToDense(information),
	})
}

// Optimize assembles the combined factor graph over every vertex and edge added so far
// and runs LM to convergence or maxIter, per §4.4.
func (b *denseLMBackend) Optimize(ctx context.Context, maxIter int) error {
	b.layout = NewVertexLayout(b.d, true)
	problem := buildCombinedProblem(b.layout, b.d, b.intrinsics, b.logger)
	x0 := b.layout.Pack(b.extrinsic, b.d)

	result, err := Run(ctx, problem, x0, maxIter)
	if err != nil {
		return err
	}
	b.extrinsic = b.layout.Unpack(result.X, b.d)
	return nil
}

func (b *denseLMBackend) ReadExtrinsic() spatialmath.SE3 {
	return b.extrinsic
}

func (b *denseLMBackend) ReadKeyframePose(id calib.KeyframeID) (spatialmath.SE2, bool) {
	kf, ok := b.d.Keyframe(id)
	if !ok {
		return spatialmath.SE2{}, false
	}
	return kf.BasePose, true
}

func (b *denseLMBackend) ReadLandmarkPosition(id calib.LandmarkID) (r3.Vector, bool) {
	lm, ok := b.d.Landmark(id)
	if !ok {
		return r3.Vector{}, false
	}
	return lm.Position, true
}

func array3ToDense(m [3][3]float64) *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, m[i][j])
		}
	}
	return d
}

// odoEdgeRecord, markEdgeRecord and uvEdgeRecord pair a dataset edge with an Active flag
// scoped to a single Optimize call (§7): an edge whose residual ever comes back non-finite
// is flagged inactive and contributes zero residual for the rest of that run, but the
// dataset's own edge slices are never touched, so the next Calibrate call starts with
// every edge active again.
type odoEdgeRecord struct {
	calib.OdoEdge
	Active bool
}

type markEdgeRecord struct {
	*calib.MarkEdge
	Active bool
}

type uvEdgeRecord struct {
	calib.UVEdge
	Active bool
}

// buildCombinedProblem assembles a factor graph over whichever edge kinds the backend
// was given: odometry edges always, plus marker-projection and/or visual-SLAM edges
// depending on which Add* calls a caller made. A graph built purely through AddEdgeSE2
// and AddEdgeProject3 exercises only the marker residual; one using AddEdgeProject2
// exercises only the visual residual, but both can coexist on the same backend.
func buildCombinedProblem(layout *VertexLayout, d *calib.Dataset, intrinsics *transform.PinholeCameraIntrinsics, logger logging.Logger) Problem {
	odoEdges := make([]odoEdgeRecord, len(d.OdometryEdges()))
	for i, e := range d.OdometryEdges() {
		odoEdges[i] = odoEdgeRecord{OdoEdge: e, Active: true}
	}
	markEdges := make([]markEdgeRecord, len(d.MarkEdges()))
	for i, e := range d.MarkEdges() {
		markEdges[i] = markEdgeRecord{MarkEdge: e, Active: true}
	}
	uvEdges := make([]uvEdgeRecord, len(d.UVEdges()))
	for i, e := range d.UVEdges() {
		uvEdges[i] = uvEdgeRecord{UVEdge: e, Active: true}
	}
	residualDim := 3*len(odoEdges) + 3*len(markEdges) + 2*len(uvEdges)

	weights := mat.NewSymDense(residualDim, nil)
	row := 0
	for _, e := range odoEdges {
		setInfoBlock(weights, row, e.Information)
		row += 3
	}
	for _, e := range markEdges {
		setInfoBlock(weights, row, e.Information)
		row += 3
	}
	for _, e := range uvEdges {
		setInfoBlock(weights, row, e.Information)
		row += 2
	}

	residuals := func(x []float64) *mat.VecDense {
		r := mat.NewVecDense(residualDim, nil)
		row := 0
		extrinsic := layout.extrinsicAt(x)

		for i := range odoEdges {
			e := &odoEdges[i]
			if !e.Active {
				row += 3
				continue
			}
			head := layout.kfPoseAt(x, e.Head)
			tail := layout.kfPoseAt(x, e.Tail)
			err := odometryResidual(head, tail, e.Measurement)
			if !finite3(err.X, err.Y, err.Theta) {
				logger.Warnw("odometry edge produced non-finite residual, deactivating for this run",
					"head", e.Head, "tail", e.Tail)
				e.Active = false
				zeroInfoBlock(weights, row, 3)
				row += 3
				continue
			}
			setVec3(r, row, err.X, err.Y, err.Theta)
			row += 3
		}

		for i := range markEdges {
			e := &markEdges[i]
			if !e.Active {
				row += 3
				continue
			}
			kfPose := layout.kfPoseAt(x, e.KF)
			lmPos := layout.lmPositionAt(x, e.LM)
			err := markerResidual(kfPose, extrinsic, lmPos, e.Measurement)
			if !finite3(err.X, err.Y, err.Z) {
				logger.Warnw("marker edge produced non-finite residual, deactivating for this run",
					"keyframe", e.KF, "landmark", e.LM)
				e.Active = false
				zeroInfoBlock(weights, row, 3)
				row += 3
				continue
			}
			setVec3(r, row, err.X, err.Y, err.Z)
			row += 3
		}

		for i := range uvEdges {
			e := &uvEdges[i]
			if !e.Active {
				row += 2
				continue
			}
			kfPose := layout.kfPoseAt(x, e.KF)
			lmPos := layout.lmPositionAt(x, e.LM)
			du, dv := visualResidual(kfPose, extrinsic, lmPos, e.Pixel, intrinsics)
			if !finite2(du, dv) {
				logger.Warnw("visual edge produced non-finite residual, deactivating for this run",
					"keyframe", e.KF, "landmark", e.LM)
				e.Active = false
				zeroInfoBlock(weights, row, 2)
				row += 2
				continue
			}
			setVec2(r, row, du, dv)
			row += 2
		}

		return r
	}

	return Problem{
		Dim:         layout.Dim(),
		ResidualDim: residualDim,
		Residuals:   residuals,
		Weights:     weights,
	}
}

func finite2(a, b float64) bool {
	return !math.IsNaN(a) && !math.IsInf(a, 0) && !math.IsNaN(b) && !math.IsInf(b, 0)
}

func finite3(a, b, c float64) bool {
	return finite2(a, b) && !math.IsNaN(c) && !math.IsInf(c, 0)
}

func array2ToDense(m [2][2]float64) *mat.Dense {
	d := mat.NewDense(2, 2, nil)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			d.Set(i, j, m[i][j])
		}
	}
	return d
}

func denseToArray3(m *mat.Dense) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func denseToArray2(m *mat.Dense) [2][2]float64 {
	var out [2][2]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
