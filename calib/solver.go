package calib

import (
	"context"

	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

// Solver is the shared contract across the closed-form marker initializer and the two
// graph-optimizer variants (§9's "polymorphism over solver variants" guidance): each
// consumes a dataset already populated with odometry edges and produces an extrinsic.
type Solver interface {
	Calibrate(ctx context.Context, d *Dataset) (spatialmath.SE3, error)
}
