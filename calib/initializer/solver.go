package initializer

import (
	"context"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// Config holds the initializer's tunable thresholds (§9 Open Questions: the small-rotation
// ratio is unit-sensitive and must be parameterised rather than hardcoded).
type Config struct {
	// SmallRotationRatioThreshold is in radians per meter of translation.
	SmallRotationRatioThreshold float64
}

// DefaultConfig returns the initializer configuration matching §4.3.3's literal threshold.
func DefaultConfig() Config {
	return Config{SmallRotationRatioThreshold: DefaultSmallRotationRatioThreshold}
}

// MarkerInitializer adapts Solve to the calib.Solver interface.
type MarkerInitializer struct {
	Config Config
}

var _ calib.Solver = MarkerInitializer{}

// Calibrate implements calib.Solver.
func (m MarkerInitializer) Calibrate(ctx context.Context, d *calib.Dataset) (spatialmath.SE3, error) {
	if err := ctx.Err(); err != nil {
		return spatialmath.SE3{}, err
	}
	result, err := Solve(d, m.Config.SmallRotationRatioThreshold)
	if err != nil {
		return spatialmath.SE3{}, err
	}
	return result.Extrinsic, nil
}
