package calib

import (
	"encoding/json"
	"io"
	"os"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// DatasetFile is the flat on-disk JSON representation of a Dataset (§6): keyframes,
// landmarks, and mark/uv edges as arrays, the batch input format cmd/calibrate reads.
// Information matrices are diagonal, stored as their per-axis sigmas rather than full
// matrices, since every edge kind in this system carries a diagonal information matrix.
type DatasetFile struct {
	Keyframes []KeyframeRecord `json:"keyframes"`
	Landmarks []LandmarkRecord `json:"landmarks"`
	MarkEdges []MarkEdgeRecord `json:"mark_edges"`
	UVEdges   []UVEdgeRecord   `json:"uv_edges"`
}

// KeyframeRecord is one keyframe's measured odometry pose.
type KeyframeRecord struct {
	ID KeyframeID `json:"id"`
	X  float64    `json:"x"`
	Y  float64    `json:"y"`
	Theta float64 `json:"theta"`
}

// LandmarkRecord is one landmark's id; its position is bootstrapped by the optimizer, not
// supplied on disk.
type LandmarkRecord struct {
	ID           LandmarkID `json:"id"`
	FiducialID   int        `json:"fiducial_id"`
	PhysicalSize float64    `json:"physical_size"`
}

// MarkEdgeRecord is one marker observation, with a diagonal information matrix expressed
// as three per-axis sigmas.
type MarkEdgeRecord struct {
	KF      KeyframeID `json:"kf"`
	LM      LandmarkID `json:"lm"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Z       float64    `json:"z"`
	SigmaXY float64    `json:"sigma_xy"`
	SigmaZ  float64    `json:"sigma_z"`
}

// UVEdgeRecord is one visual-SLAM pixel observation.
type UVEdgeRecord struct {
	KF      KeyframeID `json:"kf"`
	LM      LandmarkID `json:"lm"`
	U       float64    `json:"u"`
	V       float64    `json:"v"`
	SigmaPx float64    `json:"sigma_px"`
}

// LoadDatasetFromJSONFile reads a DatasetFile from disk and builds a populated Dataset,
// following NewPinholeCameraIntrinsicsFromJSONFile's read-then-unmarshal pattern.
func LoadDatasetFromJSONFile(jsonPath string) (*Dataset, error) {
	//nolint:gosec
	f, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening dataset JSON file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading dataset JSON data")
	}

	var file DatasetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "error parsing dataset JSON")
	}

	return file.ToDataset()
}

// ToDataset populates a fresh Dataset from the file's records.
func (f DatasetFile) ToDataset() (*Dataset, error) {
	d := NewDataset()
	for _, kf := range f.Keyframes {
		d.AddKeyframe(kf.ID, spatialmath.SE2{X: kf.X, Y: kf.Y, Theta: kf.Theta})
	}
	for _, lm := range f.Landmarks {
		l := d.AddLandmark(lm.ID, r3.Vector{})
		l.FiducialID = lm.FiducialID
		l.PhysicalSize = lm.PhysicalSize
	}
	for _, e := range f.MarkEdges {
		info := mat.NewDense(3, 3, nil)
		info.Set(0, 0, 1/(e.SigmaXY*e.SigmaXY))
		info.Set(1, 1, 1/(e.SigmaXY*e.SigmaXY))
		info.Set(2, 2, 1/(e.SigmaZ*e.SigmaZ))
		if err := d.AddMarkEdge(MarkEdge{
			KF:          e.KF,
			LM:          e.LM,
			Measurement: r3.Vector{X: e.X, Y: e.Y, Z: e.Z},
			Information: info,
		}); err != nil {
			return nil, err
		}
	}
	for _, e := range f.UVEdges {
		info := mat.NewDense(2, 2, nil)
		info.Set(0, 0, 1/(e.SigmaPx*e.SigmaPx))
		info.Set(1, 1, 1/(e.SigmaPx*e.SigmaPx))
		if err := d.AddUVEdge(UVEdge{
			KF:          e.KF,
			LM:          e.LM,
			Pixel:       r2.Point{X: e.U, Y: e.V},
			Information: info,
		}); err != nil {
			return nil, err
		}
	}
	return d, nil
}
