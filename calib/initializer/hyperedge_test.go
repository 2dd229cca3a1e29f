package initializer

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/fenwick-robotics/handeye-calib/calib"
	"github.com/fenwick-robotics/handeye-calib/spatialmath"
)

func TestBuildHyperEdgesUsesCoVisibleLandmarksOnly(t *testing.T) {
	t.Parallel()
	d := calib.NewDataset()
	d.AddKeyframe(0, spatialmath.SE2{})
	d.AddKeyframe(1, spatialmath.SE2{X: 1})
	d.AddLandmark(10, r3.Vector{})
	d.AddLandmark(11, r3.Vector{})

	test.That(t, d.AddMarkEdge(calib.MarkEdge{KF: 0, LM: 10}), test.ShouldBeNil)
	test.That(t, d.AddMarkEdge(calib.MarkEdge{KF: 1, LM: 10}), test.ShouldBeNil)
	// Landmark 11 is only observed from keyframe 0, so it is not co-visible.
	test.That(t, d.AddMarkEdge(calib.MarkEdge{KF: 0, LM: 11}), test.ShouldBeNil)

	d.SetOdometryEdges([]calib.OdoEdge{{Head: 0, Tail: 1}})

	edges := BuildHyperEdges(d)
	test.That(t, len(edges), test.ShouldEqual, 1)
	test.That(t, edges[0].Landmark, test.ShouldEqual, calib.LandmarkID(10))
}

func TestClassifySplitsByRotationRatio(t *testing.T) {
	t.Parallel()
	small := calib.OdoEdge{Measurement: spatialmath.SE2{X: 100, Theta: 0}}      // ratio 0
	large := calib.OdoEdge{Measurement: spatialmath.SE2{X: 1, Theta: 1}}        // ratio 1

	edges := []HyperEdge{{Odo: small}, {Odo: large}}
	smallEdges, largeEdges := Classify(edges, DefaultSmallRotationRatioThreshold)

	test.That(t, len(smallEdges), test.ShouldEqual, 1)
	test.That(t, len(largeEdges), test.ShouldEqual, 1)
}

