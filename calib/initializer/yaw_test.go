package initializer

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func TestExtractYawRecoversKnownYaw(t *testing.T) {
	t.Parallel()
	tdc := spatialmath.IdentitySE3()
	rdc := tdc.RotationMatrix()

	odo := calib.OdoEdge{Measurement: spatialmath.SE2{Theta: 0.01}}
	head := calib.MarkEdge{Measurement: r3.Vector{X: 1, Y: 0, Z: 0}}
	tail := calib.MarkEdge{Measurement: r3.Vector{X: 1, Y: 0, Z: 0}}

	edge := HyperEdge{Odo: odo, Head: head, Tail: tail}
	tBar := predictedTranslation(edge, rdc)
	tBarAngle := math.Atan2(tBar.Y, tBar.X)

	const targetYaw = 0.2
	measuredAngle := tBarAngle + targetYaw
	edge.Odo.Measurement.X = math.Cos(measuredAngle)
	edge.Odo.Measurement.Y = math.Sin(measuredAngle)

	yaw, err := ExtractYaw([]HyperEdge{edge}, tdc)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, yaw, test.ShouldAlmostEqual, targetYaw, 1e-6)
}

func TestExtractYawFailsWithNoEdges(t *testing.T) {
	t.Parallel()
	_, err := ExtractYaw(nil, spatialmath.IdentitySE3())
	test.That(t, err, test.ShouldEqual, calib.ErrDegenerateGeometry)
}
