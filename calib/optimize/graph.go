package optimize

import (
	"github.com/golang/geo/r3"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// VertexLayout assigns each vertex (the extrinsic, every keyframe pose, and optionally
// every landmark position) a fixed offset into the flat parameter vector the LM solver
// operates on, per §4.4's factor graph.
type VertexLayout struct {
	extrinsicOffset int

	kfOrder  []calib.KeyframeID
	kfOffset map[calib.KeyframeID]int

	lmOrder  []calib.LandmarkID
	lmOffset map[calib.LandmarkID]int

	dim int
}

// NewVertexLayout lays out the extrinsic (6 dof, rvec+translation) followed by every
// keyframe's SE(2) pose (3 dof each) and, when includeLandmarks is set, every landmark's
// position (3 dof each).
func NewVertexLayout(d *calib.Dataset, includeLandmarks bool) *VertexLayout {
	l := &VertexLayout{
		extrinsicOffset: 0,
		kfOffset:        make(map[calib.KeyframeID]int),
		lmOffset:        make(map[calib.LandmarkID]int),
	}
	offset := 6

	l.kfOrder = d.OrderedKeyframeIDs()
	for _, id := range l.kfOrder {
		l.kfOffset[id] = offset
		offset += 3
	}

	if includeLandmarks {
		l.lmOrder = d.OrderedLandmarkIDs()
		for _, id := range l.lmOrder {
			l.lmOffset[id] = offset
			offset += 3
		}
	}

	l.dim = offset
	return l
}

// Dim returns the total parameter vector length.
func (l *VertexLayout) Dim() int { return l.dim }

// Pack reads the extrinsic and every dataset vertex's current value into a flat vector.
func (l *VertexLayout) Pack(extrinsic spatialmath.SE3, d *calib.Dataset) []float64 {
	x := make([]float64, l.dim)
	putSE3(x, l.extrinsicOffset, extrinsic)
	for _, id := range l.kfOrder {
		kf, _ := d.Keyframe(id)
		putSE2(x, l.kfOffset[id], kf.BasePose)
	}
	for _, id := range l.lmOrder {
		lm, _ := d.Landmark(id)
		putVec3(x, l.lmOffset[id], lm.Position)
	}
	return x
}

// Unpack writes a solved parameter vector back into the dataset's entities and returns
// the recovered extrinsic.
func (l *VertexLayout) Unpack(x []float64, d *calib.Dataset) spatialmath.SE3 {
	extrinsic := l.extrinsicAt(x)
	for _, id := range l.kfOrder {
		kf, _ := d.Keyframe(id)
		kf.BasePose = l.kfPoseAt(x, id)
	}
	for _, id := range l.lmOrder {
		lm, _ := d.Landmark(id)
		lm.Position = l.lmPositionAt(x, id)
	}
	return extrinsic
}

func (l *VertexLayout) extrinsicAt(x []float64) spatialmath.SE3 {
	return getSE3(x, l.extrinsicOffset)
}

func (l *VertexLayout) kfPoseAt(x []float64, id calib.KeyframeID) spatialmath.SE2 {
	return getSE2(x, l.kfOffset[id])
}

func (l *VertexLayout) lmPositionAt(x []float64, id calib.LandmarkID) r3.Vector {
	return getVec3(x, l.lmOffset[id])
}

func putSE3(x []float64, offset int, p spatialmath.SE3) {
	rvec := p.RVec()
	x[offset], x[offset+1], x[offset+2] = rvec.X, rvec.Y, rvec.Z
	x[offset+3], x[offset+4], x[offset+5] = p.Translation.X, p.Translation.Y, p.Translation.Z
}

func getSE3(x []float64, offset int) spatialmath.SE3 {
	rvec := r3.Vector{X: x[offset], Y: x[offset+1], Z: x[offset+2]}
	t := r3.Vector{X: x[offset+3], Y: x[offset+4], Z: x[offset+5]}
	return spatialmath.NewSE3FromRVec(rvec, t)
}

func putSE2(x []float64, offset int, p spatialmath.SE2) {
	x[offset], x[offset+1], x[offset+2] = p.X, p.Y, p.Theta
}

func getSE2(x []float64, offset int) spatialmath.SE2 {
	return spatialmath.SE2{X: x[offset], Y: x[offset+1], Theta: x[offset+2]}
}

func putVec3(x []float64, offset int, v r3.Vector) {
	x[offset], x[offset+1], x[offset+2] = v.X, v.Y, v.Z
}

func getVec3(x []float64, offset int) r3.Vector {
	return r3.Vector{X: x[offset], Y: x[offset+1], Z: x[offset+2]}
}
