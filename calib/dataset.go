// Package calib holds the dataset entity model and shared types consumed by the
// odometry builder, closed-form initializer, and graph optimizer.
package calib

import (
	"sort"
	"sync"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// KeyframeID uniquely identifies a Keyframe within a Dataset. Ids are totally ordered;
// odometry edges exist only between consecutive ids (§3).
type KeyframeID int64

// LandmarkID uniquely identifies a Landmark within a Dataset.
type LandmarkID int64

// Keyframe fixes one measured base pose and the set of observations taken at that pose.
type Keyframe struct {
	ID KeyframeID

	// MeasuredBasePose is the raw odometry pose at this keyframe; immutable after creation.
	MeasuredBasePose spatialmath.SE2

	// BasePose is the current estimate, mutated by refresh and the optimizer.
	BasePose spatialmath.SE2

	// CameraPose is the derived SE(3) camera pose, mutated by refresh and the optimizer.
	CameraPose spatialmath.SE3
}

// Landmark is a 3D point in world coordinates, observed by one or more keyframes.
type Landmark struct {
	ID LandmarkID

	// Position is mutable, updated by refresh and the optimizer.
	Position r3.Vector

	// FiducialID and PhysicalSize are optional collaborator-supplied metadata.
	FiducialID   int
	PhysicalSize float64
}

// OdoEdge is an SE(2) increment measurement between two consecutive keyframes.
type OdoEdge struct {
	Head, Tail  KeyframeID
	Measurement spatialmath.SE2
	Information *mat.Dense // 3x3, diagonal, positive definite
}

// MarkEdge is a measured 3-vector observation of a landmark in a keyframe's camera frame.
type MarkEdge struct {
	KF          KeyframeID
	LM          LandmarkID
	Measurement r3.Vector
	Information *mat.Dense // 3x3
}

// UVEdge is an undistorted 2D pixel observation of a landmark, produced by the visual
// feature-match bootstrap and consumed by the visual-SLAM optimizer edge.
type UVEdge struct {
	KF          KeyframeID
	LM          LandmarkID
	Pixel       r2.Point
	Information *mat.Dense // 2x2
}

// Extrinsic is the base<-camera SE(3) transform the solver estimates.
type Extrinsic = spatialmath.SE3

// Dataset owns all entities; the solver borrows read/write handles and never takes
// ownership (§3). Edges hold ids, not pointers. The Dataset offers no operation that
// removes a keyframe or landmark, so no dependent-edge cleanup is performed.
type Dataset struct {
	mu sync.Mutex

	keyframes map[KeyframeID]*Keyframe
	landmarks map[LandmarkID]*Landmark

	odoEdges  []OdoEdge
	markEdges []*MarkEdge
	uvEdges   []UVEdge

	markEdgeIndex map[markEdgeKey]*MarkEdge
	kfLandmarks   map[KeyframeID]map[LandmarkID]bool
}

type markEdgeKey struct {
	kf KeyframeID
	lm LandmarkID
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		keyframes:     make(map[KeyframeID]*Keyframe),
		landmarks:     make(map[LandmarkID]*Landmark),
		markEdgeIndex: make(map[markEdgeKey]*MarkEdge),
		kfLandmarks:   make(map[KeyframeID]map[LandmarkID]bool),
	}
}

// Lock acquires the dataset's mutex for a caller that wants to hold it across a solver
// run (§5). No solver and no other Dataset method acquires it.
func (d *Dataset) Lock() { d.mu.Lock() }

// Unlock releases the dataset borrow acquired by Lock.
func (d *Dataset) Unlock() { d.mu.Unlock() }

// AddKeyframe inserts a keyframe with its measured odometry pose, initializing BasePose
// to the same value.
func (d *Dataset) AddKeyframe(id KeyframeID, measured spatialmath.SE2) *Keyframe {
	kf := &Keyframe{ID: id, MeasuredBasePose: measured, BasePose: measured}
	d.keyframes[id] = kf
	return kf
}

// AddLandmark inserts a landmark at the given initial position.
func (d *Dataset) AddLandmark(id LandmarkID, position r3.Vector) *Landmark {
	lm := &Landmark{ID: id, Position: position}
	d.landmarks[id] = lm
	return lm
}

// Keyframe returns the keyframe with the given id, if present.
func (d *Dataset) Keyframe(id KeyframeID) (*Keyframe, bool) {
	kf, ok := d.keyframes[id]
	return kf, ok
}

// Landmark returns the landmark with the given id, if present.
func (d *Dataset) Landmark(id LandmarkID) (*Landmark, bool) {
	lm, ok := d.landmarks[id]
	return lm, ok
}

// OrderedKeyframeIDs returns every keyframe id in ascending order (§5 ordering guarantee).
func (d *Dataset) OrderedKeyframeIDs() []KeyframeID {
	ids := make([]KeyframeID, 0, len(d.keyframes))
	for id := range d.keyframes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OrderedLandmarkIDs returns every landmark id in ascending order.
func (d *Dataset) OrderedLandmarkIDs() []LandmarkID {
	ids := make([]LandmarkID, 0, len(d.landmarks))
	for id := range d.landmarks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SetOdometryEdges replaces the odometry edge set, as done by the odometry builder (§4.2),
// which clears and rebuilds it every run.
func (d *Dataset) SetOdometryEdges(edges []OdoEdge) {
	d.odoEdges = edges
}

// OdometryEdges returns the current odometry edge set.
func (d *Dataset) OdometryEdges() []OdoEdge {
	return d.odoEdges
}

// AddMarkEdge inserts a marker observation edge and updates the co-visibility index.
// Returns ErrInvariantViolation if either endpoint is absent from the dataset.
func (d *Dataset) AddMarkEdge(edge MarkEdge) error {
	if _, ok := d.keyframes[edge.KF]; !ok {
		return errInvariant("mark edge references missing keyframe", int64(edge.KF))
	}
	if _, ok := d.landmarks[edge.LM]; !ok {
		return errInvariant("mark edge references missing landmark", int64(edge.LM))
	}
	stored := &edge
	d.markEdges = append(d.markEdges, stored)
	key := markEdgeKey{kf: edge.KF, lm: edge.LM}
	d.markEdgeIndex[key] = stored

	if d.kfLandmarks[edge.KF] == nil {
		d.kfLandmarks[edge.KF] = make(map[LandmarkID]bool)
	}
	d.kfLandmarks[edge.KF][edge.LM] = true
	return nil
}

// AddUVEdge inserts a visual-SLAM pixel observation edge.
func (d *Dataset) AddUVEdge(edge UVEdge) error {
	if _, ok := d.keyframes[edge.KF]; !ok {
		return errInvariant("uv edge references missing keyframe", int64(edge.KF))
	}
	if _, ok := d.landmarks[edge.LM]; !ok {
		return errInvariant("uv edge references missing landmark", int64(edge.LM))
	}
	d.uvEdges = append(d.uvEdges, edge)
	return nil
}

// MarkEdges returns every marker observation edge.
func (d *Dataset) MarkEdges() []*MarkEdge {
	return d.markEdges
}

// UVEdges returns every visual-SLAM pixel observation edge.
func (d *Dataset) UVEdges() []UVEdge {
	return d.uvEdges
}

// SetUVEdges replaces the visual-SLAM pixel observation edge set in place, used by the
// distortion-correction pass to rewrite every edge's pixel before optimization.
func (d *Dataset) SetUVEdges(edges []UVEdge) {
	d.uvEdges = edges
}

// LandmarksByKeyframe returns the sorted set of landmark ids observed by kf.
func (d *Dataset) LandmarksByKeyframe(kf KeyframeID) []LandmarkID {
	set := d.kfLandmarks[kf]
	ids := make([]LandmarkID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MarkEdgeFor returns the unique mark edge observing lm from kf, if any.
func (d *Dataset) MarkEdgeFor(kf KeyframeID, lm LandmarkID) (*MarkEdge, bool) {
	e, ok := d.markEdgeIndex[markEdgeKey{kf: kf, lm: lm}]
	return e, ok
}

// CoVisibleLandmarks returns the ordered intersection of landmarks observed by both kf1
// and kf2 (§4.3.3).
func (d *Dataset) CoVisibleLandmarks(kf1, kf2 KeyframeID) []LandmarkID {
	set1 := d.kfLandmarks[kf1]
	set2 := d.kfLandmarks[kf2]
	if len(set1) == 0 || len(set2) == 0 {
		return nil
	}
	var common []LandmarkID
	for id := range set1 {
		if set2[id] {
			common = append(common, id)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })
	return common
}

func errInvariant(msg string, id int64) error {
	return wrapInvariantViolation(msg, id)
}
