package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestComposeInverseIsIdentity(t *testing.T) {
	t.Parallel()
	x := NewSE3FromRVec(r3.Vector{X: 0.1, Y: -0.2, Z: 0.3}, r3.Vector{X: 1, Y: 2, Z: 3})
	id := x.Compose(x.Inverse())

	test.That(t, id.Translation.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, id.Translation.Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, id.Translation.Z, test.ShouldAlmostEqual, 0, 1e-9)

	p := r3.Vector{X: 5, Y: -3, Z: 2}
	test.That(t, id.Transform(p).X, test.ShouldAlmostEqual, p.X, 1e-9)
	test.That(t, id.Transform(p).Y, test.ShouldAlmostEqual, p.Y, 1e-9)
	test.That(t, id.Transform(p).Z, test.ShouldAlmostEqual, p.Z, 1e-9)
}

func TestRodriguesRoundTrip(t *testing.T) {
	t.Parallel()
	rvec := r3.Vector{X: 0.4, Y: -0.1, Z: 0.9}
	m := Rodrigues(rvec)
	back := InverseRodrigues(m)

	test.That(t, back.X, test.ShouldAlmostEqual, rvec.X, 1e-9)
	test.That(t, back.Y, test.ShouldAlmostEqual, rvec.Y, 1e-9)
	test.That(t, back.Z, test.ShouldAlmostEqual, rvec.Z, 1e-9)
}

func TestLiftSE2PlacesZAtZero(t *testing.T) {
	t.Parallel()
	planar := SE2{X: 2, Y: -1, Theta: math.Pi / 4}
	lifted := LiftSE2(planar)

	test.That(t, lifted.Translation.Z, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, lifted.Translation.X, test.ShouldAlmostEqual, planar.X, 1e-9)
	test.That(t, lifted.Translation.Y, test.ShouldAlmostEqual, planar.Y, 1e-9)

	rotated := lifted.Rotate(r3.Vector{X: 1, Y: 0, Z: 0})
	test.That(t, rotated.Z, test.ShouldAlmostEqual, 0, 1e-9)
}
