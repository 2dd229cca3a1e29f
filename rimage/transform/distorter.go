package transform

import "github.com/pkg/errors"

// DistortionType identifies a lens distortion model.
type DistortionType string

// InverseBrownConradyDistortionType is the DistortionType for InverseBrownConrady.
const InverseBrownConradyDistortionType = DistortionType("inverse_brown_conrady")

// Distorter applies a lens distortion model to a normalized image-plane point.
type Distorter interface {
	ModelType() DistortionType
	Parameters() []float64
	CheckValid() error
	Transform(x, y float64) (float64, float64)
}

// InvalidDistortionError is returned when a distortion model's parameters are missing
// or malformed.
func InvalidDistortionError(msg string) error {
	return errors.New(msg)
}
