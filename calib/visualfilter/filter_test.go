package visualfilter

import (
	"context"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestFilterReturnsEmptyBelowMinMatches(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	matches := make([]Match, cfg.MinMatches-1)
	got, err := Filter(context.Background(), matches, cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldBeNil)
}

func TestDistanceGateDropsMatchesBeyondThreshold(t *testing.T) {
	t.Parallel()
	matches := []Match{
		{A: r2.Point{X: 0, Y: 0}, B: r2.Point{X: 5, Y: 0}},    // within gate
		{A: r2.Point{X: 0, Y: 0}, B: r2.Point{X: 200, Y: 0}},  // beyond gate
		{A: r2.Point{X: 10, Y: 10}, B: r2.Point{X: 10, Y: 12}}, // within gate
	}

	kept := distanceGate(matches, 100)
	test.That(t, len(kept), test.ShouldEqual, 2)
}

func TestRansacTrialBoundShrinksAsInlierRatioGrows(t *testing.T) {
	t.Parallel()
	low := ransacTrialBound(0.2, 0.99)
	high := ransacTrialBound(0.9, 0.99)
	test.That(t, high < low, test.ShouldBeTrue)
}

func TestRansacTrialBoundNeverBelowOne(t *testing.T) {
	t.Parallel()
	test.That(t, ransacTrialBound(0.999999, 0.99) >= 1, test.ShouldBeTrue)
}
